package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"books-scraper/models"
)

// rawHeader is the raw dataset schema: price stays currency-formatted text
// at this stage, rating is already numeric (converted at parse time).
var rawHeader = []string{
	"title", "price_text", "rating", "availability_text",
	"category", "upc", "description", "image_url", "book_url", "scraped_at",
}

// cleanHeader is the clean dataset schema including the derived columns
// filled by the insight service.
var cleanHeader = []string{
	"title", "category", "price", "rating", "rating_category", "price_category",
	"value_score", "quadrant", "stock_quantity", "in_stock",
	"description", "upc", "image_url", "book_url",
}

// CSVWriter writes a dataset to a CSV file atomically: rows go to a
// temporary file next to the target, and Commit renames it into place. An
// abandoned writer leaves no partial final file behind.
type CSVWriter struct {
	path      string
	tmpPath   string
	file      *os.File
	writer    *csv.Writer
	committed bool
}

// NewCSVWriter creates the temporary file for the given target path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", tmpPath, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	return &CSVWriter{path: path, tmpPath: tmpPath, file: f, writer: w}, nil
}

// NewRawCSVWriter creates a writer for the raw dataset file.
func NewRawCSVWriter(path string) (*CSVWriter, error) {
	return NewCSVWriter(path, rawHeader)
}

// NewCleanCSVWriter creates a writer for the clean dataset file.
func NewCleanCSVWriter(path string) (*CSVWriter, error) {
	return NewCSVWriter(path, cleanHeader)
}

// WriteRaw appends raw book rows.
func (c *CSVWriter) WriteRaw(books []*models.RawBook) error {
	for _, b := range books {
		row := []string{
			b.Title,
			b.PriceText,
			strconv.Itoa(b.Rating),
			b.AvailabilityText,
			b.Category,
			b.UPC,
			b.Description,
			b.ImageURL,
			b.BookURL,
			b.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Write appends clean book rows. Numeric columns use plain decimal text
// with shortest round-trip formatting, so reading the file back reproduces
// identical values.
func (c *CSVWriter) Write(books []*models.Book) error {
	for _, b := range books {
		row := []string{
			b.Title,
			b.Category,
			formatFloat(b.Price),
			strconv.Itoa(b.Rating),
			b.RatingCategory,
			b.PriceCategory,
			formatFloat(b.ValueScore),
			b.Quadrant,
			strconv.Itoa(b.StockQuantity),
			strconv.FormatBool(b.InStock),
			b.Description,
			b.UPC,
			b.ImageURL,
			b.BookURL,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Commit flushes the temporary file and atomically replaces the target.
func (c *CSVWriter) Commit() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("csv: close: %w", err)
	}
	if err := os.Rename(c.tmpPath, c.path); err != nil {
		return fmt.Errorf("csv: replace %q: %w", c.path, err)
	}
	c.committed = true
	return nil
}

// Close releases the writer. If Commit was never called the temporary file
// is removed, leaving any previous dataset untouched.
func (c *CSVWriter) Close() error {
	if c.committed {
		return nil
	}
	_ = c.file.Close()
	return os.Remove(c.tmpPath)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
