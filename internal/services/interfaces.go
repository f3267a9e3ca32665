package services

import (
	"context"

	domain "github.com/buildquick/storefront/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product       = domain.Product
	ProductDetail = domain.ProductDetail
	Basket        = domain.Basket
	BasketItem    = domain.BasketItem
	Category      = domain.Category
	CategoryGroup = domain.CategoryGroup
	Session       = domain.Session
	Tab           = domain.Tab
)

// SessionService owns per-visit storefront state: the active tab, the search
// query, and the basket. All mutations return the updated session snapshot.
type SessionService interface {
	StartSession(ctx context.Context) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	AddToCart(ctx context.Context, sessionID, productID string) (Session, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) (Session, error)
	CartTotal(ctx context.Context, sessionID string) (int64, error)
	CartCount(ctx context.Context, sessionID string) (int, error)
	SetSearchQuery(ctx context.Context, sessionID, query string) (Session, error)
	SetActiveTab(ctx context.Context, sessionID string, tab Tab) (Session, error)
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	// Query is the free-text name filter; empty means unfiltered.
	Query string
	// CategoryKey narrows to one category; empty means all.
	CategoryKey string
	Page        int
	PageSize    int
}

// ProductPage is one page of a (possibly filtered) catalog listing. Query is
// echoed back so adapters can render "no materials found for X" distinctly
// from "no query yet".
type ProductPage struct {
	Products   []Product
	Query      string
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// CatalogService serves the ingested catalog snapshot and refreshes it from
// the remote backend.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductFilter) (ProductPage, error)
	GetProduct(ctx context.Context, productID string) (ProductDetail, error)
	ListCategoryGroups(ctx context.Context) ([]CategoryGroup, error)
	Refresh(ctx context.Context) error
}

// EstimatorService answers material-quantity questions. Estimate always
// resolves with displayable text; upstream failures degrade to fallback
// messages rather than errors.
type EstimatorService interface {
	Estimate(ctx context.Context, query string) string
}
