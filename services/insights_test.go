package services

import (
	"testing"

	"books-scraper/config"
	"books-scraper/models"
)

func testConfig() *config.Config {
	return &config.Config{
		TopN:                10,
		QuadrantRatingSplit: 4,
		QuadrantPriceSplit:  0,
	}
}

func sampleBooks() []*models.Book {
	return []*models.Book{
		{Title: "Cheap Gem", Category: "Poetry", Price: 10, Rating: 5, StockQuantity: 3},
		{Title: "Pricey Hit", Category: "Poetry", Price: 50, Rating: 5, StockQuantity: 1},
		{Title: "Mid Shelf", Category: "Fiction", Price: 25, Rating: 3, StockQuantity: 2},
		{Title: "Dud", Category: "Fiction", Price: 40, Rating: 1, StockQuantity: 0},
		{Title: "No Price", Category: "Fiction", Price: 0, Rating: 4, StockQuantity: 5},
	}
}

func TestValueScoreFormula(t *testing.T) {
	tests := []struct {
		rating int
		price  float64
		want   float64
	}{
		{5, 10, 5.0},
		{5, 50, 1.0},
		{4, 20, 2.0},
		{3, 25, 1.2},
	}

	for _, tt := range tests {
		got := ValueScore(tt.rating, tt.price)
		if got != tt.want {
			t.Errorf("ValueScore(%d, %.2f) = %.2f; want %.2f", tt.rating, tt.price, got, tt.want)
		}
	}
}

func TestGenerateExcludesZeroPrice(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(sampleBooks())

	if r.TotalBooks != 5 {
		t.Errorf("TotalBooks = %d; want 5", r.TotalBooks)
	}
	if r.ScoredBooks != 4 {
		t.Errorf("ScoredBooks = %d; want 4", r.ScoredBooks)
	}
	if r.Unscoreable != 1 {
		t.Errorf("Unscoreable = %d; want 1", r.Unscoreable)
	}

	for _, b := range r.TopValue {
		if b.Price == 0 {
			t.Errorf("zero-price book %q appears in ranking", b.Title)
		}
	}
}

func TestRankingOrder(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(sampleBooks())

	// Scores: Cheap Gem 5.0, Pricey Hit 1.0, Mid Shelf 1.2, Dud 0.25.
	wantOrder := []string{"Cheap Gem", "Mid Shelf", "Pricey Hit", "Dud"}
	if len(r.TopValue) != len(wantOrder) {
		t.Fatalf("TopValue len = %d; want %d", len(r.TopValue), len(wantOrder))
	}
	for i, title := range wantOrder {
		if r.TopValue[i].Title != title {
			t.Errorf("rank %d = %q; want %q", i+1, r.TopValue[i].Title, title)
		}
	}
}

func TestRankingTieBreaks(t *testing.T) {
	books := []*models.Book{
		{Title: "B Same", Price: 20, Rating: 4},  // score 2.0
		{Title: "A Same", Price: 20, Rating: 4},  // score 2.0, same price, earlier title
		{Title: "Cheaper", Price: 10, Rating: 2}, // score 2.0, lower price
	}

	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(books)

	wantOrder := []string{"Cheaper", "A Same", "B Same"}
	for i, title := range wantOrder {
		if r.TopValue[i].Title != title {
			t.Errorf("rank %d = %q; want %q", i+1, r.TopValue[i].Title, title)
		}
	}
}

func TestTopNLimit(t *testing.T) {
	cfg := testConfig()
	cfg.TopN = 2

	svc := NewInsightService(cfg, newTestLogger())
	r := svc.Generate(sampleBooks())
	if len(r.TopValue) != 2 {
		t.Errorf("TopValue len = %d; want 2", len(r.TopValue))
	}
}

func TestCategoryMeansScoredOnly(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(sampleBooks())

	means := map[string]float64{}
	for _, cs := range r.CategoryScores {
		means[cs.Category] = cs.Mean
	}

	// Poetry: (5.0 + 1.0) / 2 = 3.0. Fiction: (1.2 + 0.25) / 2 ≈ 0.72,
	// the zero-price book does not count.
	if means["Poetry"] != 3.0 {
		t.Errorf("Poetry mean = %.2f; want 3.00", means["Poetry"])
	}
	if means["Fiction"] < 0.71 || means["Fiction"] > 0.74 {
		t.Errorf("Fiction mean = %.2f; want ~0.72", means["Fiction"])
	}
}

func TestCategoryWithOnlyUnscoredBooksOmitted(t *testing.T) {
	books := []*models.Book{
		{Title: "A", Category: "Ghost", Price: 0, Rating: 5},
		{Title: "B", Category: "Real", Price: 10, Rating: 5},
	}

	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(books)

	for _, cs := range r.CategoryScores {
		if cs.Category == "Ghost" {
			t.Errorf("category with no scored books should be omitted")
		}
	}
}

func TestQuadrantsMedianSplit(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(sampleBooks())

	// Scored prices: 10, 25, 40, 50 — median 32.5.
	if r.PriceSplit != 32.5 {
		t.Errorf("PriceSplit = %.2f; want 32.5", r.PriceSplit)
	}

	counts := map[string]int{}
	total := 0
	var pctSum float64
	for _, q := range r.Quadrants {
		counts[q.Label] = q.Count
		total += q.Count
		pctSum += q.Percent
	}

	// Cheap Gem: rating 5, £10 -> Best Value. Pricey Hit: rating 5, £50 ->
	// Premium. Mid Shelf: rating 3, £25 -> Budget. Dud: rating 1, £40 ->
	// Poor Value.
	if counts[QuadrantBestValue] != 1 || counts[QuadrantPremium] != 1 ||
		counts[QuadrantBudget] != 1 || counts[QuadrantPoorValue] != 1 {
		t.Errorf("quadrant counts = %v; want 1 each", counts)
	}
	if total != r.ScoredBooks {
		t.Errorf("quadrant counts sum to %d; want %d", total, r.ScoredBooks)
	}
	if pctSum < 99.5 || pctSum > 100.5 {
		t.Errorf("quadrant percentages sum to %.1f; want ~100", pctSum)
	}
}

func TestQuadrantsFixedSplit(t *testing.T) {
	cfg := testConfig()
	cfg.QuadrantPriceSplit = 20

	svc := NewInsightService(cfg, newTestLogger())
	r := svc.Generate(sampleBooks())

	if r.PriceSplit != 20 {
		t.Errorf("PriceSplit = %.2f; want configured 20", r.PriceSplit)
	}

	counts := map[string]int{}
	for _, q := range r.Quadrants {
		counts[q.Label] = q.Count
	}
	// With the split at £20 only Cheap Gem is low-price.
	if counts[QuadrantBestValue] != 1 {
		t.Errorf("BestValue = %d; want 1", counts[QuadrantBestValue])
	}
	if counts[QuadrantPremium] != 1 {
		t.Errorf("Premium = %d; want 1", counts[QuadrantPremium])
	}
	if counts[QuadrantPoorValue] != 2 {
		t.Errorf("PoorValue = %d; want 2", counts[QuadrantPoorValue])
	}
}

func TestGenerateAnnotatesBooks(t *testing.T) {
	books := sampleBooks()
	svc := NewInsightService(testConfig(), newTestLogger())
	svc.Generate(books)

	for _, b := range books {
		if b.Price > 0 {
			if b.ValueScore <= 0 {
				t.Errorf("%q not annotated with a value score", b.Title)
			}
			if b.Quadrant == "" {
				t.Errorf("%q not annotated with a quadrant", b.Title)
			}
		} else if b.ValueScore != 0 || b.Quadrant != "" {
			t.Errorf("unscoreable %q should carry no score or quadrant", b.Title)
		}
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(nil)
	if r.TotalBooks != 0 {
		t.Errorf("expected 0 total books for empty input")
	}
}

func TestPriceStats(t *testing.T) {
	svc := NewInsightService(testConfig(), newTestLogger())
	r := svc.Generate(sampleBooks())

	if r.MinPrice != 10 {
		t.Errorf("MinPrice = %.2f; want 10", r.MinPrice)
	}
	if r.MaxPrice != 50 {
		t.Errorf("MaxPrice = %.2f; want 50", r.MaxPrice)
	}
	if r.AveragePrice != 31.25 {
		t.Errorf("AveragePrice = %.2f; want 31.25", r.AveragePrice)
	}
	if r.TotalStock != 11 {
		t.Errorf("TotalStock = %d; want 11", r.TotalStock)
	}
}
