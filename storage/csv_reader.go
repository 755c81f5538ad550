package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"books-scraper/models"
)

// ReadClean loads a clean dataset file back into memory. The file must
// carry the clean schema written by this package.
func ReadClean(path string) ([]*models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %q has no header row", path)
	}
	if len(records[0]) != len(cleanHeader) {
		return nil, fmt.Errorf("csv: %q has %d columns, want %d",
			path, len(records[0]), len(cleanHeader))
	}

	books := make([]*models.Book, 0, len(records)-1)
	for i, row := range records[1:] {
		b, err := parseCleanRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv: %q row %d: %w", path, i+2, err)
		}
		books = append(books, b)
	}
	return books, nil
}

func parseCleanRow(row []string) (*models.Book, error) {
	price, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", row[2], err)
	}
	rating, err := strconv.Atoi(row[3])
	if err != nil {
		return nil, fmt.Errorf("rating %q: %w", row[3], err)
	}
	score, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return nil, fmt.Errorf("value_score %q: %w", row[6], err)
	}
	stock, err := strconv.Atoi(row[8])
	if err != nil {
		return nil, fmt.Errorf("stock_quantity %q: %w", row[8], err)
	}
	inStock, err := strconv.ParseBool(row[9])
	if err != nil {
		return nil, fmt.Errorf("in_stock %q: %w", row[9], err)
	}

	return &models.Book{
		Title:          row[0],
		Category:       row[1],
		Price:          price,
		Rating:         rating,
		RatingCategory: row[4],
		PriceCategory:  row[5],
		ValueScore:     score,
		Quadrant:       row[7],
		StockQuantity:  stock,
		InStock:        inStock,
		Description:    row[10],
		UPC:            row[11],
		ImageURL:       row[12],
		BookURL:        row[13],
	}, nil
}
