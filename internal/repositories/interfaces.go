package repositories

import (
	"context"

	domain "github.com/buildquick/storefront/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// SessionRepository persists per-visit session state (active tab, search
// query, basket). Update applies its mutation atomically against the stored
// session, so concurrent basket updates apply in dispatch order and never
// lose writes to a Get/Save interleaving.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) (domain.Session, error)
	Update(ctx context.Context, sessionID string, mutate func(*domain.Session)) (domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Close(ctx context.Context) error
}

// CatalogRepository holds the ingested catalog snapshot and browse taxonomy.
// Snapshots are replaced wholesale on ingestion and read copy-on-read, so
// returned slices are safe to share across requests.
type CatalogRepository interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, productID string) (domain.Product, error)
	ReplaceProducts(ctx context.Context, products []domain.Product) error
	CategoryGroups(ctx context.Context) ([]domain.CategoryGroup, error)
	ReplaceCategoryGroups(ctx context.Context, groups []domain.CategoryGroup) error
}
