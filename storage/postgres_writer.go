package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"books-scraper/models"
)

// PostgresWriter mirrors the cleaned dataset into PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			id              SERIAL PRIMARY KEY,
			title           TEXT          NOT NULL,
			category        TEXT          NOT NULL DEFAULT '',
			price           NUMERIC(10,2) NOT NULL DEFAULT 0,
			rating          SMALLINT      NOT NULL DEFAULT 0,
			rating_category TEXT          NOT NULL DEFAULT '',
			price_category  TEXT          NOT NULL DEFAULT '',
			value_score     NUMERIC(8,2)  NOT NULL DEFAULT 0,
			quadrant        TEXT          NOT NULL DEFAULT '',
			stock_quantity  INTEGER       NOT NULL DEFAULT 0,
			in_stock        BOOLEAN       NOT NULL DEFAULT FALSE,
			description     TEXT          NOT NULL DEFAULT '',
			upc             TEXT          UNIQUE NOT NULL,
			image_url       TEXT          NOT NULL DEFAULT '',
			book_url        TEXT          NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_books_price       ON books(price);
		CREATE INDEX IF NOT EXISTS idx_books_category    ON books(category);
		CREATE INDEX IF NOT EXISTS idx_books_rating      ON books(rating);
		CREATE INDEX IF NOT EXISTS idx_books_value_score ON books(value_score);
	`)
	return err
}

// Clear deletes all existing books from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM books")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all cleaned books, clearing old data first.
func (pw *PostgresWriter) Write(books []*models.Book) error {
	if len(books) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(books); i += batchSize {
		end := i + batchSize
		if end > len(books) {
			end = len(books)
		}
		if err := pw.insertBatch(books[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Book) error {
	const cols = 14
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, b := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			b.Title, b.Category, b.Price, b.Rating, b.RatingCategory,
			b.PriceCategory, b.ValueScore, b.Quadrant, b.StockQuantity,
			b.InStock, b.Description, b.UPC, b.ImageURL, b.BookURL)
	}

	query := fmt.Sprintf(`
		INSERT INTO books (title, category, price, rating, rating_category,
			price_category, value_score, quadrant, stock_quantity,
			in_stock, description, upc, image_url, book_url)
		VALUES %s
		ON CONFLICT (upc) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored books ordered by insertion.
func (pw *PostgresWriter) FetchAll() ([]*models.Book, error) {
	rows, err := pw.db.Query(`
		SELECT id, title, category, price, rating, rating_category,
			price_category, value_score, quadrant, stock_quantity,
			in_stock, description, upc, image_url, book_url, created_at
		FROM books
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		b := &models.Book{}
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Category, &b.Price, &b.Rating,
			&b.RatingCategory, &b.PriceCategory, &b.ValueScore, &b.Quadrant,
			&b.StockQuantity, &b.InStock, &b.Description, &b.UPC,
			&b.ImageURL, &b.BookURL, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
