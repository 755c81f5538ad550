package books

import (
	"context"
	"fmt"
	"sync"
	"time"

	"books-scraper/config"
	"books-scraper/models"
	"books-scraper/utils"
)

// Scraper drives the catalog collection: bounded pagination over listing
// pages, detail-page enrichment per book, and accumulation of raw records
// in encounter order (page order, then in-page order).
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	fetcher *Fetcher
	parser  *Parser
	pool    *utils.WorkerPool
	visited *utils.URLSet

	mu      sync.Mutex
	skipped int
}

// New creates a ready-to-use catalog Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		fetcher: NewFetcher(cfg, logger),
		parser:  NewParser(),
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency),
		visited: utils.NewURLSet(),
	}
}

// Skipped returns the number of items abandoned because of fetch or parse
// failures during the last run.
func (s *Scraper) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// Scrape iterates pages 1..PagesToScrape, stopping early when a page fetch
// fails or a page carries zero items (end of catalog). Per-item failures
// are logged and counted, never fatal.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawBook, error) {
	s.logger.Info("[books] Starting scrape — target: %d pages, base: %s",
		s.cfg.PagesToScrape, s.cfg.BaseURL)

	var books []*models.RawBook

	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		pageURL := fmt.Sprintf("%scatalogue/page-%d.html", s.cfg.BaseURL, page)

		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			s.logger.Error("[books] Page %d failed: %v — stopping pagination", page, err)
			break
		}

		items, parseErrs := s.parser.ParseListing(body, pageURL)
		for _, perr := range parseErrs {
			s.logger.Warn("[books] Page %d: %v — item skipped", page, perr)
		}
		s.addSkipped(len(parseErrs))

		if len(items) == 0 {
			s.logger.Warn("[books] Page %d has no items — end of catalog", page)
			break
		}

		pageBooks := s.collectPage(ctx, items)
		books = append(books, pageBooks...)

		s.logger.Info("[books] Page %d done — %d books collected so far", page, len(books))
	}

	s.logger.Info("[books] Scrape complete — total raw books: %d, skipped: %d",
		len(books), s.Skipped())
	return books, nil
}

// collectPage enriches every listing item with its detail page. Enrichment
// runs through the worker pool; results are written by index so in-page
// order survives regardless of concurrency.
func (s *Scraper) collectPage(ctx context.Context, items []ListingItem) []*models.RawBook {
	results := make([]*models.RawBook, len(items))

	for i, item := range items {
		i, item := i, item
		s.pool.Submit(func() {
			results[i] = s.collectBook(ctx, item)
		})
	}
	s.pool.Wait()

	// Compact out items whose detail fetch failed.
	books := make([]*models.RawBook, 0, len(results))
	for _, b := range results {
		if b != nil {
			books = append(books, b)
		}
	}
	return books
}

// collectBook fetches one book's detail page and assembles the raw record.
// A failed detail fetch drops the item; a partially parsed detail page does
// not — empty fields are preferred over lost records.
func (s *Scraper) collectBook(ctx context.Context, item ListingItem) *models.RawBook {
	if !s.visited.Add(item.DetailURL) {
		s.logger.Debug("[books] Duplicate detail URL skipped: %s", item.DetailURL)
		s.addSkipped(1)
		return nil
	}

	body, err := s.fetcher.Fetch(ctx, item.DetailURL)
	if err != nil {
		s.logger.Error("[books] Detail fetch failed for %q: %v — item skipped", item.Title, err)
		s.addSkipped(1)
		return nil
	}

	detail, err := s.parser.ParseDetail(body)
	if err != nil {
		s.logger.Warn("[books] Detail parse failed for %q: %v — keeping listing fields", item.Title, err)
	}
	if detail.Category == "" {
		s.logger.Warn("[books] No category found for %q", item.Title)
	}
	if detail.UPC == "" {
		s.logger.Warn("[books] No UPC found for %q", item.Title)
	}

	return &models.RawBook{
		Title:            item.Title,
		PriceText:        item.PriceText,
		Rating:           item.Rating,
		AvailabilityText: item.AvailabilityText,
		Category:         detail.Category,
		UPC:              detail.UPC,
		Description:      detail.Description,
		ImageURL:         item.ImageURL,
		BookURL:          item.DetailURL,
		ScrapedAt:        time.Now(),
	}
}

func (s *Scraper) addSkipped(n int) {
	if n == 0 {
		return
	}
	s.mu.Lock()
	s.skipped += n
	s.mu.Unlock()
}
