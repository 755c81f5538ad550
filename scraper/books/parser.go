package books

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ratingTokens maps the star-rating class names used by the catalog to
// numeric ratings.
var ratingTokens = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// ListingItem is one book as it appears on a catalog listing page, before
// the detail page has been fetched.
type ListingItem struct {
	Title            string
	PriceText        string
	Rating           int
	AvailabilityText string
	DetailURL        string
	ImageURL         string
}

// Detail holds the fields extracted from a book's own page. Description is
// empty when the page carries none.
type Detail struct {
	Category    string
	UPC         string
	Description string
}

// Parser extracts book fields from catalog HTML.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// RatingFromClass converts a star-rating class token to 1–5.
// An unrecognized token is an error, not a zero rating.
func RatingFromClass(token string) (int, error) {
	if n, ok := ratingTokens[token]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("unrecognized rating token %q", token)
}

// ParseListing extracts every book on one listing page, in document order.
// Items whose rating token is unrecognized are returned as errors alongside
// the good items; a missing individual field becomes its zero value.
func (p *Parser) ParseListing(body, pageURL string) ([]ListingItem, []error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, []error{fmt.Errorf("parse listing page: %w", err)}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, []error{fmt.Errorf("parse page url %q: %w", pageURL, err)}
	}

	var items []ListingItem
	var errs []error

	doc.Find("article.product_pod").Each(func(i int, s *goquery.Selection) {
		anchor := s.Find("h3 a").First()
		title := strings.TrimSpace(anchor.AttrOr("title", anchor.Text()))

		href := anchor.AttrOr("href", "")
		if href == "" {
			errs = append(errs, fmt.Errorf("item %d (%q): no detail link", i, title))
			return
		}

		rating, err := RatingFromClass(ratingClass(s.Find("p.star-rating").First()))
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d (%q): %w", i, title, err))
			return
		}

		item := ListingItem{
			Title:            title,
			PriceText:        strings.TrimSpace(s.Find("p.price_color").First().Text()),
			Rating:           rating,
			AvailabilityText: strings.TrimSpace(s.Find("p.instock.availability").First().Text()),
			DetailURL:        resolveRef(base, href),
		}
		if src := s.Find("img").First().AttrOr("src", ""); src != "" {
			item.ImageURL = resolveRef(base, src)
		}

		items = append(items, item)
	})

	return items, errs
}

// ParseDetail extracts category, UPC, and description from one book page.
// Each field is independent: a missing one stays empty rather than failing
// the whole record.
func (p *Parser) ParseDetail(body string) (Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Detail{}, fmt.Errorf("parse detail page: %w", err)
	}

	var d Detail

	// Category is the third breadcrumb entry (Home > Books > Category).
	crumbs := doc.Find("ul.breadcrumb a")
	if crumbs.Length() >= 3 {
		d.Category = strings.TrimSpace(crumbs.Eq(2).Text())
	}

	doc.Find("table.table-striped tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if strings.TrimSpace(row.Find("th").Text()) == "UPC" {
			d.UPC = strings.TrimSpace(row.Find("td").Text())
			return false
		}
		return true
	})

	// The description lives in the <p> following the #product_description
	// heading; some books have none.
	d.Description = strings.TrimSpace(doc.Find("#product_description").NextFiltered("p").Text())

	return d, nil
}

// ratingClass returns the class token alongside "star-rating".
func ratingClass(s *goquery.Selection) string {
	for _, cls := range strings.Fields(s.AttrOr("class", "")) {
		if cls != "star-rating" {
			return cls
		}
	}
	return ""
}

func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
