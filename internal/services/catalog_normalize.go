package services

import (
	"math"
	"strconv"
	"strings"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/platform/textutil"
	upstreamcatalog "github.com/buildquick/storefront/internal/upstream/catalog"
)

const (
	// placeholderImageURL is shown when the backend supplies no usable image.
	placeholderImageURL = "https://via.placeholder.com/300"
	// defaultDeliveryTime is the storefront-wide delivery promise used when
	// the backend does not state one.
	defaultDeliveryTime = "60 MINS"
)

// normalizeProduct maps one wire record onto the domain shape. Malformed
// fields degrade to safe defaults; a record is never rejected wholesale. The
// backend carries no list price, so OriginalPrice mirrors Price and no
// discount is implied for remote items.
func normalizeProduct(record upstreamcatalog.ProductRecord) domain.Product {
	price := parsePrice(record.Price)
	return domain.Product{
		ID:            strconv.Itoa(record.ID),
		Name:          strings.TrimSpace(record.Title),
		CategoryKey:   categoryKey(record.Category.Name),
		Price:         price,
		OriginalPrice: price,
		ImageURL:      productImage(record),
		DeliveryTime:  defaultDeliveryTime,
	}
}

// enrichDetail copies the extended detail fields of a wire record onto an
// already-normalized item.
func enrichDetail(detail *domain.ProductDetail, record upstreamcatalog.ProductRecord) {
	if record.Description != nil {
		detail.Description = strings.TrimSpace(*record.Description)
	}
	if len(record.Images) > 0 {
		detail.Images = append([]string(nil), record.Images...)
	}
	detail.Specifications = textutil.NormalizeStringMap(record.Specifications)
	detail.Availability = parseAvailability(record.Availability)
}

// parsePrice converts the backend's decimal price string to whole rupees.
// Unparseable values become zero rather than propagating backend text.
func parsePrice(value string) int64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0
	}
	return int64(math.Round(parsed))
}

// productImage picks the first usable image: main_image, then image_url, then
// the first gallery entry, then the placeholder.
func productImage(record upstreamcatalog.ProductRecord) string {
	if record.MainImage != nil {
		if url := strings.TrimSpace(*record.MainImage); url != "" {
			return url
		}
	}
	if record.ImageURL != nil {
		if url := strings.TrimSpace(*record.ImageURL); url != "" {
			return url
		}
	}
	for _, url := range record.Images {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			return trimmed
		}
	}
	return placeholderImageURL
}

// categoryKey derives the canonical filter key from a category display name:
// lowercase with whitespace runs collapsed to single hyphens.
func categoryKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func parseAvailability(value string) domain.Availability {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case string(domain.AvailabilityInStock):
		return domain.AvailabilityInStock
	case string(domain.AvailabilityOutOfStock):
		return domain.AvailabilityOutOfStock
	default:
		return domain.AvailabilityUnknown
	}
}
