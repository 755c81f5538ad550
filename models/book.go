package models

import "time"

// RawBook holds unprocessed scraped data straight from the catalog HTML.
// This is written to CSV before any cleaning or transformation.
type RawBook struct {
	Title            string
	PriceText        string
	Rating           int
	AvailabilityText string
	Category         string
	UPC              string
	Description      string
	ImageURL         string
	BookURL          string
	ScrapedAt        time.Time
}

// Book is the cleaned, validated record — the canonical dataset row.
// ValueScore and Quadrant are filled in by the insight service before the
// clean dataset is written out.
type Book struct {
	ID             int64
	Title          string
	Category       string
	Price          float64
	Rating         int
	RatingCategory string
	PriceCategory  string
	ValueScore     float64
	Quadrant       string
	StockQuantity  int
	InStock        bool
	Description    string
	UPC            string
	ImageURL       string
	BookURL        string
	CreatedAt      time.Time
}

// Scored reports whether the book participates in value-score ranking.
// Books without a positive price cannot be scored.
func (b *Book) Scored() bool {
	return b.Price > 0
}

// QuadrantCount is one bucket of the four-way rating/price partition.
type QuadrantCount struct {
	Label   string
	Count   int
	Percent float64
}

// CategoryScore is the mean value score of one category's scored books.
type CategoryScore struct {
	Category string
	Mean     float64
	Books    int
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalBooks      int
	ScoredBooks     int
	Unscoreable     int
	AveragePrice    float64
	MinPrice        float64
	MaxPrice        float64
	TotalStock      int
	TopValue        []*Book
	CategoryScores  []CategoryScore
	BooksByCategory map[string]int
	Quadrants       []QuadrantCount
	RatingSplit     int
	PriceSplit      float64
}
