package services

import (
	"fmt"
	"sort"
	"strings"

	"books-scraper/config"
	"books-scraper/models"
	"books-scraper/utils"
)

// Quadrant labels for the rating/price partition.
const (
	QuadrantBestValue = "Best Value"
	QuadrantPremium   = "Premium"
	QuadrantBudget    = "Budget"
	QuadrantPoorValue = "Poor Value"
)

// InsightService computes value scores, rankings, and grouped summaries
// over the cleaned dataset. It annotates each book with its ValueScore and
// Quadrant as a side effect of Generate, so the clean dataset file carries
// the derived columns.
type InsightService struct {
	cfg    *config.Config
	logger *utils.Logger
}

func NewInsightService(cfg *config.Config, logger *utils.Logger) *InsightService {
	return &InsightService{cfg: cfg, logger: logger}
}

// ValueScore is rating divided by (price/10), so a 5-star book at £10
// scores 5.0. Not defined for price <= 0; callers must exclude those
// records instead of producing infinity.
func ValueScore(rating int, price float64) float64 {
	return round2(float64(rating) / (price / 10))
}

func (s *InsightService) Generate(books []*models.Book) *models.InsightReport {
	report := &models.InsightReport{
		BooksByCategory: make(map[string]int),
		RatingSplit:     s.cfg.QuadrantRatingSplit,
	}

	if len(books) == 0 {
		return report
	}

	report.TotalBooks = len(books)

	var scored []*models.Book
	for _, b := range books {
		if b.Category != "" {
			report.BooksByCategory[b.Category]++
		}
		report.TotalStock += b.StockQuantity

		if !b.Scored() {
			report.Unscoreable++
			b.ValueScore = 0
			b.Quadrant = ""
			continue
		}
		b.ValueScore = ValueScore(b.Rating, b.Price)
		scored = append(scored, b)
	}
	report.ScoredBooks = len(scored)

	if report.Unscoreable > 0 {
		s.logger.Warn("[insights] %d books have no valid price and were excluded from ranking",
			report.Unscoreable)
	}

	if len(scored) == 0 {
		return report
	}

	s.priceStats(report, scored)

	report.PriceSplit = s.cfg.QuadrantPriceSplit
	if report.PriceSplit <= 0 {
		report.PriceSplit = medianPrice(scored)
	}
	s.assignQuadrants(report, scored)

	report.TopValue = rankByValue(scored, s.cfg.TopN)
	report.CategoryScores = categoryScores(scored)

	return report
}

func (s *InsightService) priceStats(report *models.InsightReport, scored []*models.Book) {
	report.MinPrice = scored[0].Price
	report.MaxPrice = scored[0].Price
	var total float64
	for _, b := range scored {
		total += b.Price
		if b.Price < report.MinPrice {
			report.MinPrice = b.Price
		}
		if b.Price > report.MaxPrice {
			report.MaxPrice = b.Price
		}
	}
	report.AveragePrice = round2(total / float64(len(scored)))
}

// assignQuadrants labels every scored book by high/low rating crossed with
// high/low price, then tallies counts and percentages. Percentages are
// computed over scored books and sum to 100% within rounding.
func (s *InsightService) assignQuadrants(report *models.InsightReport, scored []*models.Book) {
	counts := map[string]int{}
	for _, b := range scored {
		highRating := b.Rating >= report.RatingSplit
		lowPrice := b.Price <= report.PriceSplit

		switch {
		case highRating && lowPrice:
			b.Quadrant = QuadrantBestValue
		case highRating:
			b.Quadrant = QuadrantPremium
		case lowPrice:
			b.Quadrant = QuadrantBudget
		default:
			b.Quadrant = QuadrantPoorValue
		}
		counts[b.Quadrant]++
	}

	for _, label := range []string{QuadrantBestValue, QuadrantPremium, QuadrantBudget, QuadrantPoorValue} {
		report.Quadrants = append(report.Quadrants, models.QuadrantCount{
			Label:   label,
			Count:   counts[label],
			Percent: round1(float64(counts[label]) / float64(len(scored)) * 100),
		})
	}
}

// rankByValue sorts descending by value score, breaking ties by ascending
// price and then lexicographic title so the ranking is deterministic.
func rankByValue(scored []*models.Book, topN int) []*models.Book {
	ranked := make([]*models.Book, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ValueScore != ranked[j].ValueScore {
			return ranked[i].ValueScore > ranked[j].ValueScore
		}
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].Title < ranked[j].Title
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// categoryScores computes the mean value score per category over scored
// books only. Categories with no scored books do not appear.
func categoryScores(scored []*models.Book) []models.CategoryScore {
	totals := map[string]float64{}
	counts := map[string]int{}
	for _, b := range scored {
		if b.Category == "" {
			continue
		}
		totals[b.Category] += b.ValueScore
		counts[b.Category]++
	}

	result := make([]models.CategoryScore, 0, len(counts))
	for cat, n := range counts {
		result = append(result, models.CategoryScore{
			Category: cat,
			Mean:     round2(totals[cat] / float64(n)),
			Books:    n,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Mean != result[j].Mean {
			return result[i].Mean > result[j].Mean
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// medianPrice of scored books; the mean of the middle pair for even sizes.
func medianPrice(scored []*models.Book) float64 {
	prices := make([]float64, len(scored))
	for i, b := range scored {
		prices[i] = b.Price
	}
	sort.Float64s(prices)

	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return round2((prices[mid-1] + prices[mid]) / 2)
	}
	return prices[mid]
}

// Print renders the report to the console.
func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📚 BOOK CATALOG INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total books collected  : \033[1m%d\033[0m\n", r.TotalBooks)
	fmt.Printf("  Scored for ranking     : \033[1m%d\033[0m\n", r.ScoredBooks)
	fmt.Printf("  Unscoreable (no price) : \033[1m%d\033[0m\n", r.Unscoreable)
	fmt.Printf("  Total stock on hand    : \033[1m%d\033[0m\n", r.TotalStock)
	fmt.Println()

	// Price Stats
	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.ScoredBooks > 0 {
		fmt.Printf("  Average price : \033[1;32m£%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m£%.2f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m£%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	// Top value books
	fmt.Printf("\033[1;33m  Top %d Best Value Books (rating per £10)\033[0m\n", len(r.TopValue))
	fmt.Printf("  %s\n", thin)
	if len(r.TopValue) == 0 {
		fmt.Printf("  No scoreable books found\n")
	} else {
		for i, b := range r.TopValue {
			fmt.Printf("  \033[1m%2d.\033[0m %-40s \033[1;32m%.2f\033[0m  (£%.2f | %d★)\n",
				i+1, truncate(b.Title, 38), b.ValueScore, b.Price, b.Rating)
		}
	}
	fmt.Println()

	// Category means
	fmt.Printf("\033[1;33m  Value Score by Category\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.CategoryScores) == 0 {
		fmt.Printf("  No category data\n")
	} else {
		for _, cs := range r.CategoryScores {
			fmt.Printf("  %-30s \033[1;32m%.2f\033[0m (%d books)\n",
				truncate(cs.Category, 28), cs.Mean, cs.Books)
		}
	}
	fmt.Println()

	// Quadrants
	fmt.Printf("\033[1;33m  Value Quadrants (rating ≥ %d × price ≤ £%.2f)\033[0m\n",
		r.RatingSplit, r.PriceSplit)
	fmt.Printf("  %s\n", thin)
	for _, q := range r.Quadrants {
		bar := strings.Repeat("█", q.Count*30/max(1, r.ScoredBooks))
		fmt.Printf("  %-12s %4d (%5.1f%%) %s\n", q.Label, q.Count, q.Percent, bar)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
