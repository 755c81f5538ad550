package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"books-scraper/models"
	"books-scraper/utils"
)

var (
	// currencyRegexp matches the currency symbols stripped from price text.
	currencyRegexp = regexp.MustCompile(`[£$€]`)
	// stockRegexp captures the count inside an "(N available)" phrase.
	stockRegexp = regexp.MustCompile(`\((\d+)\s*available\)`)
	// categoryCharsRegexp matches everything outside word characters,
	// whitespace, and hyphens.
	categoryCharsRegexp = regexp.MustCompile(`[^\w\s\-]`)
)

// FormatError signals that a cleaning rule received unparsable input. It
// indicates a data-contract violation upstream, so it is surfaced loudly
// rather than silently defaulted.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("clean %s: unparsable value %q", e.Field, e.Value)
}

// rule is one field-level transformation. Each rule owns a disjoint set of
// output fields; no two rules touch the same field.
type rule struct {
	name  string
	owns  string
	apply func(raw *models.RawBook, book *models.Book) error
}

// Cleaner transforms RawBooks into clean, validated Books by applying an
// ordered set of independent per-field rules.
type Cleaner struct {
	logger *utils.Logger
	rules  []rule
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{
		logger: logger,
		rules: []rule{
			{name: "price", owns: "Price", apply: priceRule},
			{name: "availability", owns: "StockQuantity,InStock", apply: availabilityRule},
			{name: "description", owns: "Description", apply: descriptionRule},
			{name: "category", owns: "Category", apply: categoryRule},
			{name: "text", owns: "Title,Description whitespace", apply: textRule},
		},
	}
}

// Clean processes every raw book independently and returns the clean
// dataset plus the number of format errors encountered. Cleaning never
// drops a record: a rule failure leaves the owned field at its default and
// is logged as an error.
func (c *Cleaner) Clean(raw []*models.RawBook) ([]*models.Book, int) {
	result := make([]*models.Book, 0, len(raw))
	formatErrs := 0

	for _, r := range raw {
		book, errs := c.cleanOne(r)
		for _, err := range errs {
			c.logger.Error("[cleaner] %q: %v", r.Title, err)
			formatErrs++
		}
		result = append(result, book)
	}

	c.logger.Info("[cleaner] Cleaned %d books (%d format errors)", len(result), formatErrs)
	return result, formatErrs
}

func (c *Cleaner) cleanOne(raw *models.RawBook) (*models.Book, []error) {
	book := &models.Book{
		Title:     raw.Title,
		Rating:    raw.Rating,
		UPC:       raw.UPC,
		ImageURL:  raw.ImageURL,
		BookURL:   raw.BookURL,
		CreatedAt: time.Now(),
	}

	var errs []error
	for _, rule := range c.rules {
		if err := rule.apply(raw, book); err != nil {
			errs = append(errs, err)
		}
	}

	book.PriceCategory = priceCategory(book.Price)
	book.RatingCategory = ratingCategory(book.Rating)

	return book, errs
}

// priceRule strips currency symbols and parses the remainder as a decimal.
// Non-numeric residue is a FormatError; the record keeps price 0 and will
// be reported as unscoreable.
func priceRule(raw *models.RawBook, book *models.Book) error {
	trimmed := strings.TrimSpace(raw.PriceText)
	cleaned := strings.TrimSpace(currencyRegexp.ReplaceAllString(trimmed, ""))

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return &FormatError{Field: "price", Value: raw.PriceText}
	}

	book.Price = price
	return nil
}

// availabilityRule extracts the stock count from an "(N available)" phrase.
// Text without that pattern means out of stock, a valid state, so the
// quantity defaults to 0 without error.
func availabilityRule(raw *models.RawBook, book *models.Book) error {
	match := stockRegexp.FindStringSubmatch(raw.AvailabilityText)
	if len(match) == 2 {
		n, err := strconv.Atoi(match[1])
		if err == nil {
			book.StockQuantity = n
		}
	}
	book.InStock = book.StockQuantity > 0
	return nil
}

// descriptionRule fills a missing description with a placeholder built
// from the record's own title.
func descriptionRule(raw *models.RawBook, book *models.Book) error {
	if strings.TrimSpace(raw.Description) == "" {
		book.Description = fmt.Sprintf("No description available for '%s'.", raw.Title)
		return nil
	}
	book.Description = raw.Description
	return nil
}

// categoryRule standardizes the category name. The transformation is
// idempotent: applying it to its own output changes nothing.
func categoryRule(raw *models.RawBook, book *models.Book) error {
	book.Category = StandardizeCategory(raw.Category)
	return nil
}

// textRule collapses whitespace runs in the title and description.
func textRule(_ *models.RawBook, book *models.Book) error {
	book.Title = normalizeWhitespace(book.Title)
	book.Description = normalizeWhitespace(book.Description)
	return nil
}

// StandardizeCategory collapses whitespace, strips characters outside
// {word, whitespace, hyphen}, and title-cases each word.
func StandardizeCategory(category string) string {
	cleaned := normalizeWhitespace(category)
	cleaned = categoryCharsRegexp.ReplaceAllString(cleaned, "")
	cleaned = normalizeWhitespace(cleaned)
	return titleCase(cleaned)
}

// normalizeWhitespace collapses all whitespace runs (including newlines and
// tabs) to single spaces and trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upper-cases the first letter of each whitespace-separated word
// and lower-cases the rest, leaving hyphens intact within words.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if j == 0 || !unicode.IsLetter(runes[j-1]) {
				runes[j] = unicode.ToUpper(r)
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// priceCategory bands a price into the report's budget tiers.
func priceCategory(price float64) string {
	switch {
	case price <= 0:
		return "Unknown"
	case price < 20:
		return "Budget (Under £20)"
	case price < 35:
		return "Mid-range (£20-£35)"
	case price < 50:
		return "Premium (£35-£50)"
	default:
		return "Luxury (Over £50)"
	}
}

// ratingCategory bands a 1–5 rating.
func ratingCategory(rating int) string {
	switch {
	case rating <= 0:
		return "No Rating"
	case rating <= 2:
		return "Low (1-2 stars)"
	case rating == 3:
		return "Medium (3 stars)"
	default:
		return "High (4-5 stars)"
	}
}
