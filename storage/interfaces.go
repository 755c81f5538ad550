package storage

import "books-scraper/models"

// BookWriter is the interface any clean-dataset backend must satisfy.
type BookWriter interface {
	Write(books []*models.Book) error
	Close() error
}

// RawBookWriter is the interface for persisting unprocessed scraped data.
type RawBookWriter interface {
	WriteRaw(books []*models.RawBook) error
	Close() error
}
