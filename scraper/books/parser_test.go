package books

import (
	"strings"
	"testing"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<section>
<ol class="row">
<li>
<article class="product_pod">
  <div class="image_container">
    <a href="a-light-in-the-attic_1000/index.html"><img src="../media/cache/2c/da/light.jpg" alt="A Light in the Attic" class="thumbnail"></a>
  </div>
  <p class="star-rating Three"><i class="icon-star"></i></p>
  <h3><a href="a-light-in-the-attic_1000/index.html" title="A Light in the Attic">A Light in the ...</a></h3>
  <div class="product_price">
    <p class="price_color">£51.77</p>
    <p class="instock availability"><i class="icon-ok"></i> In stock</p>
  </div>
</article>
</li>
<li>
<article class="product_pod">
  <div class="image_container">
    <a href="tipping-the-velvet_999/index.html"><img src="../media/cache/26/0c/velvet.jpg" alt="Tipping the Velvet" class="thumbnail"></a>
  </div>
  <p class="star-rating One"><i class="icon-star"></i></p>
  <h3><a href="tipping-the-velvet_999/index.html" title="Tipping the Velvet">Tipping the Velvet</a></h3>
  <div class="product_price">
    <p class="price_color">£53.74</p>
    <p class="instock availability"><i class="icon-ok"></i> In stock</p>
  </div>
</article>
</li>
</ol>
</section>
</body></html>`

const detailPage = `<!DOCTYPE html>
<html><body>
<ul class="breadcrumb">
  <li><a href="../../index.html">Home</a></li>
  <li><a href="../category/books_1/index.html">Books</a></li>
  <li><a href="../category/books/poetry_23/index.html">Poetry</a></li>
  <li class="active">A Light in the Attic</li>
</ul>
<article class="product_page">
  <div id="product_description" class="sub-header"><h2>Product Description</h2></div>
  <p>It's hard to imagine a world without A Light in the Attic.</p>
  <table class="table table-striped">
    <tr><th>UPC</th><td>a897fe39b1053632</td></tr>
    <tr><th>Product Type</th><td>Books</td></tr>
    <tr><th>Availability</th><td>In stock (22 available)</td></tr>
  </table>
</article>
</body></html>`

const pageURL = "https://books.toscrape.com/catalogue/page-1.html"

func TestParseListing(t *testing.T) {
	p := NewParser()
	items, errs := p.ParseListing(listingPage, pageURL)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Title != "A Light in the Attic" {
		t.Errorf("title = %q", first.Title)
	}
	if first.PriceText != "£51.77" {
		t.Errorf("price text = %q", first.PriceText)
	}
	if first.Rating != 3 {
		t.Errorf("rating = %d; want 3", first.Rating)
	}
	if first.AvailabilityText != "In stock" {
		t.Errorf("availability = %q", first.AvailabilityText)
	}
	if first.DetailURL != "https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html" {
		t.Errorf("detail url = %q", first.DetailURL)
	}
	if first.ImageURL != "https://books.toscrape.com/media/cache/2c/da/light.jpg" {
		t.Errorf("image url = %q", first.ImageURL)
	}

	if items[1].Rating != 1 {
		t.Errorf("second rating = %d; want 1", items[1].Rating)
	}
}

func TestParseListingDocumentOrder(t *testing.T) {
	p := NewParser()
	items, _ := p.ParseListing(listingPage, pageURL)
	if items[0].Title != "A Light in the Attic" || items[1].Title != "Tipping the Velvet" {
		t.Errorf("items out of document order: %q, %q", items[0].Title, items[1].Title)
	}
}

func TestParseListingUnknownRatingToken(t *testing.T) {
	body := strings.Replace(listingPage, "star-rating Three", "star-rating Six", 1)

	p := NewParser()
	items, errs := p.ParseListing(body, pageURL)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1 for the bad rating token", len(errs))
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (bad item skipped)", len(items))
	}
	if items[0].Title != "Tipping the Velvet" {
		t.Errorf("surviving item = %q", items[0].Title)
	}
}

func TestParseListingEmptyPage(t *testing.T) {
	p := NewParser()
	items, errs := p.ParseListing("<html><body><p>nothing here</p></body></html>", pageURL)
	if len(items) != 0 || len(errs) != 0 {
		t.Errorf("empty page: items=%d errs=%d; want 0/0", len(items), len(errs))
	}
}

func TestRatingFromClass(t *testing.T) {
	tests := []struct {
		token string
		want  int
		ok    bool
	}{
		{"One", 1, true},
		{"Two", 2, true},
		{"Three", 3, true},
		{"Four", 4, true},
		{"Five", 5, true},
		{"Zero", 0, false},
		{"three", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := RatingFromClass(tt.token)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("RatingFromClass(%q) = %d, %v; want %d", tt.token, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("RatingFromClass(%q) should be an error", tt.token)
		}
	}
}

func TestParseDetail(t *testing.T) {
	p := NewParser()
	d, err := p.ParseDetail(detailPage)
	if err != nil {
		t.Fatalf("ParseDetail: %v", err)
	}

	if d.Category != "Poetry" {
		t.Errorf("category = %q; want Poetry", d.Category)
	}
	if d.UPC != "a897fe39b1053632" {
		t.Errorf("upc = %q", d.UPC)
	}
	if !strings.Contains(d.Description, "hard to imagine") {
		t.Errorf("description = %q", d.Description)
	}
}

func TestParseDetailMissingFields(t *testing.T) {
	p := NewParser()
	d, err := p.ParseDetail("<html><body><h1>bare page</h1></body></html>")
	if err != nil {
		t.Fatalf("ParseDetail should tolerate missing structure: %v", err)
	}
	if d.Category != "" || d.UPC != "" || d.Description != "" {
		t.Errorf("missing fields should stay empty, got %+v", d)
	}
}
