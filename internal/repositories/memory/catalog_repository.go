package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories"
)

// CatalogRepository holds the current catalog snapshot in memory. Reads copy
// the snapshot so ingested products stay immutable from the callers' view.
type CatalogRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]domain.Product
	groups   []domain.CategoryGroup
}

// NewCatalogRepository constructs a catalog store seeded with the provided
// products and category groups.
func NewCatalogRepository(products []domain.Product, groups []domain.CategoryGroup) *CatalogRepository {
	repo := &CatalogRepository{}
	_ = repo.ReplaceProducts(context.Background(), products)
	_ = repo.ReplaceCategoryGroups(context.Background(), groups)
	return repo
}

// Products implements repositories.CatalogRepository.
func (r *CatalogRepository) Products(context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// Product implements repositories.CatalogRepository.
func (r *CatalogRepository) Product(_ context.Context, productID string) (domain.Product, error) {
	id := strings.TrimSpace(productID)
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.byID[id]
	if !ok {
		return domain.Product{}, &repositories.NotFoundError{Kind: "product", ID: id}
	}
	return product, nil
}

// ReplaceProducts implements repositories.CatalogRepository. The snapshot is
// swapped wholesale; partial updates never leave a mixed catalog behind.
func (r *CatalogRepository) ReplaceProducts(_ context.Context, products []domain.Product) error {
	next := make([]domain.Product, len(products))
	copy(next, products)
	index := make(map[string]domain.Product, len(next))
	for _, p := range next {
		index[p.ID] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = next
	r.byID = index
	return nil
}

// CategoryGroups implements repositories.CatalogRepository.
func (r *CatalogRepository) CategoryGroups(context.Context) ([]domain.CategoryGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CategoryGroup, len(r.groups))
	copy(out, r.groups)
	return out, nil
}

// ReplaceCategoryGroups implements repositories.CatalogRepository.
func (r *CatalogRepository) ReplaceCategoryGroups(_ context.Context, groups []domain.CategoryGroup) error {
	next := make([]domain.CategoryGroup, len(groups))
	copy(next, groups)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = next
	return nil
}
