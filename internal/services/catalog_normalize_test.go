package services

import (
	"testing"

	domain "github.com/buildquick/storefront/internal/domain"
	upstreamcatalog "github.com/buildquick/storefront/internal/upstream/catalog"
)

func TestNormalizeProductMapsFields(t *testing.T) {
	main := "https://cdn.example/main.jpg"
	record := upstreamcatalog.ProductRecord{
		ID:        42,
		Title:     "Ambuja Cement PPC 50kg",
		Category:  upstreamcatalog.ProductCategoryRecord{ID: 7, Name: "Cement  And   Concrete"},
		Price:     "365.00",
		MainImage: &main,
	}

	product := normalizeProduct(record)

	if product.ID != "42" {
		t.Fatalf("expected string id, got %q", product.ID)
	}
	if product.CategoryKey != "cement-and-concrete" {
		t.Fatalf("expected hyphenated key, got %q", product.CategoryKey)
	}
	if product.Price != 365 {
		t.Fatalf("expected price 365, got %d", product.Price)
	}
	if product.OriginalPrice != product.Price {
		t.Fatalf("expected original price mirroring price, got %d", product.OriginalPrice)
	}
	if product.Discount != "" || product.Rating != nil || product.RatingCount != nil {
		t.Fatalf("expected no invented markdown or rating")
	}
	if product.ImageURL != main {
		t.Fatalf("expected main image, got %q", product.ImageURL)
	}
	if product.DeliveryTime != "60 MINS" {
		t.Fatalf("expected default delivery time, got %q", product.DeliveryTime)
	}
}

func TestParsePriceDegradesToZero(t *testing.T) {
	cases := map[string]int64{
		"365.00":       365,
		"430.50":       431,
		"  1299.99  ":  1300,
		"not-a-number": 0,
		"":             0,
		"-50":          0,
		"12,999":       0,
		"NaN":          0,
	}
	for input, want := range cases {
		if got := parsePrice(input); got != want {
			t.Fatalf("parsePrice(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestProductImageFallbackChain(t *testing.T) {
	main := "https://cdn.example/main.jpg"
	flat := "https://cdn.example/flat.jpg"
	empty := "   "

	record := upstreamcatalog.ProductRecord{MainImage: &main, ImageURL: &flat, Images: []string{"https://cdn.example/g1.jpg"}}
	if got := productImage(record); got != main {
		t.Fatalf("expected main image preferred, got %q", got)
	}

	record = upstreamcatalog.ProductRecord{MainImage: &empty, ImageURL: &flat}
	if got := productImage(record); got != flat {
		t.Fatalf("expected image_url fallback, got %q", got)
	}

	record = upstreamcatalog.ProductRecord{Images: []string{"", "https://cdn.example/g1.jpg"}}
	if got := productImage(record); got != "https://cdn.example/g1.jpg" {
		t.Fatalf("expected gallery fallback, got %q", got)
	}

	if got := productImage(upstreamcatalog.ProductRecord{}); got != placeholderImageURL {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestParseAvailability(t *testing.T) {
	if got := parseAvailability("in_stock"); got != domain.AvailabilityInStock {
		t.Fatalf("expected in_stock, got %q", got)
	}
	if got := parseAvailability("OUT_OF_STOCK"); got != domain.AvailabilityOutOfStock {
		t.Fatalf("expected out_of_stock, got %q", got)
	}
	if got := parseAvailability("backordered"); got != domain.AvailabilityUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
}
