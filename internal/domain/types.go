package domain

import (
	"time"
)

// Product encapsulates a sellable construction-material item shared across layers.
// Prices are whole rupees; Price never exceeds OriginalPrice when a markdown is shown.
// Products are immutable after ingestion and never mutated by the basket.
type Product struct {
	ID            string
	Name          string
	CategoryKey   string
	Price         int64
	OriginalPrice int64
	Unit          string
	ImageURL      string
	Brand         string
	Rating        *float64
	RatingCount   *int
	DeliveryTime  string
	Discount      string
}

// Discounted reports whether the item carries a meaningful list-price markdown.
func (p Product) Discounted() bool {
	return p.OriginalPrice > p.Price && p.Price >= 0
}

// ProductDetail extends Product with the fields only the detail endpoint supplies.
type ProductDetail struct {
	Product
	Description    string
	Images         []string
	Specifications map[string]string
	Availability   Availability
}

// Availability describes stock status reported by the remote catalog backend.
type Availability string

const (
	// AvailabilityInStock indicates the backend reports the item as purchasable.
	AvailabilityInStock Availability = "in_stock"
	// AvailabilityOutOfStock indicates the backend reports the item as sold out.
	AvailabilityOutOfStock Availability = "out_of_stock"
	// AvailabilityUnknown covers backend values outside the known set.
	AvailabilityUnknown Availability = "unknown"
)

// Category is a single browse-navigation node.
type Category struct {
	ID       string
	Name     string
	ImageURL string
}

// CategoryGroup clusters categories under a section title for browse navigation.
// Groups are static or remote-sourced and read-only to the rest of the system.
type CategoryGroup struct {
	Title      string
	Categories []Category
}

// Session captures the per-visit UI state owned by the session controller:
// the active tab, the transient search query, and the basket. It is never
// persisted across visits.
type Session struct {
	ID          string
	ActiveTab   Tab
	SearchQuery string
	Basket      Basket
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so callers cannot mutate repository-owned state.
func (s Session) Clone() Session {
	dup := s
	dup.Basket = s.Basket.Clone()
	return dup
}
