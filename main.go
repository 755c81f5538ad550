package main

import (
	"context"
	"fmt"
	"os"

	"books-scraper/config"
	"books-scraper/models"
	"books-scraper/scraper/books"
	"books-scraper/services"
	"books-scraper/storage"
	"books-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Book Catalog ETL starting ===")
	logger.Info("Config — pages: %d | rate: %dms | concurrency: %d | retries: %d",
		cfg.PagesToScrape, cfg.RateLimitMs, cfg.MaxConcurrency, cfg.MaxRetries)

	scraper := books.New(cfg, logger)
	rawBooks, err := scraper.Scrape(context.Background())
	if err != nil {
		logger.Error("Scrape failed: %v", err)
	}

	if len(rawBooks) == 0 {
		logger.Error("No books were scraped. Exiting.")
		os.Exit(1)
	}

	logger.Info("Scraped %d raw books — writing to %s", len(rawBooks), cfg.RawCSVPath)
	if err := writeRaw(cfg.RawCSVPath, rawBooks); err != nil {
		logger.Error("Raw CSV write failed: %v", err)
		os.Exit(1)
	}

	cleaner := services.NewCleaner(logger)
	cleanBooks, formatErrs := cleaner.Clean(rawBooks)

	insightSvc := services.NewInsightService(cfg, logger)
	report := insightSvc.Generate(cleanBooks)

	// The clean file carries the derived columns, so it is written after
	// the insight pass has annotated the books.
	logger.Info("Writing clean dataset to %s", cfg.CleanCSVPath)
	if err := writeClean(cfg.CleanCSVPath, cleanBooks); err != nil {
		logger.Error("Clean CSV write failed: %v", err)
		os.Exit(1)
	}

	if cfg.PostgresEnabled {
		mirrorToPostgres(cfg, logger, cleanBooks)
	}

	insightSvc.Print(report)

	if skipped := scraper.Skipped(); skipped > 0 {
		logger.Warn("Partial success: %d items were skipped during collection", skipped)
	}
	if formatErrs > 0 {
		logger.Warn("Cleaning surfaced %d format errors (records kept, see log above)", formatErrs)
	}

	fmt.Printf("  Done. Raw CSV → %s | Clean CSV → %s\n\n",
		cfg.RawCSVPath, cfg.CleanCSVPath)
}

func writeRaw(path string, rawBooks []*models.RawBook) error {
	w, err := storage.NewRawCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteRaw(rawBooks); err != nil {
		return err
	}
	return w.Commit()
}

func writeClean(path string, cleanBooks []*models.Book) error {
	w, err := storage.NewCleanCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Write(cleanBooks); err != nil {
		return err
	}
	return w.Commit()
}

// mirrorToPostgres is best-effort: the flat files are the canonical
// output, so a missing database degrades to a logged warning.
func mirrorToPostgres(cfg *config.Config, logger *utils.Logger, cleanBooks []*models.Book) {
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Warn("PostgreSQL unavailable, continuing with file output only: %v", err)
		return
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(cleanBooks); err != nil {
		logger.Warn("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Clean books mirrored to PostgreSQL (table: books)")
}
