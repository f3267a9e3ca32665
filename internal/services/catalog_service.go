package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories"
	upstreamcatalog "github.com/buildquick/storefront/internal/upstream/catalog"
)

var (
	errCatalogRepositoryRequired = errors.New("catalog service: repository is required")

	// ErrCatalogInvalidInput indicates the caller supplied invalid input.
	ErrCatalogInvalidInput = errors.New("catalog service: invalid input")
	// ErrCatalogNotFound indicates the requested product does not exist.
	ErrCatalogNotFound = errors.New("catalog service: not found")
	// ErrCatalogUnavailable indicates the catalog backend cannot serve the request.
	ErrCatalogUnavailable = errors.New("catalog service: unavailable")
)

const (
	defaultCatalogPageSize = 20
	maxCatalogPageSize     = 100

	// maxRefreshPages bounds ingestion so a backend that always reports
	// has_next cannot spin a refresh forever.
	maxRefreshPages = 200
)

// CatalogFetcher is the slice of the upstream catalog client the service uses.
type CatalogFetcher interface {
	ListCategories(ctx context.Context) upstreamcatalog.CategoriesResult
	ListProducts(ctx context.Context, params upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult
	GetProductDetail(ctx context.Context, productID int) upstreamcatalog.ProductDetailResult
}

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Repository repositories.CatalogRepository
	// Upstream is the remote backend client; nil disables Refresh and detail
	// enrichment, leaving the seeded catalog in place.
	Upstream CatalogFetcher
	// RefreshPageSize sets the page size used during ingestion; zero selects
	// the default.
	RefreshPageSize int
	Logger          func(context.Context, string, map[string]any)
}

type catalogService struct {
	repo            repositories.CatalogRepository
	upstream        CatalogFetcher
	refreshPageSize int
	logger          func(context.Context, string, map[string]any)

	// mu guards the refresh generation. Each Refresh claims the next
	// generation up front; a refresh that finds itself superseded when it
	// comes to apply discards its results instead of merging them.
	mu         sync.Mutex
	generation int64
}

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Repository == nil {
		return nil, errCatalogRepositoryRequired
	}

	pageSize := deps.RefreshPageSize
	if pageSize <= 0 {
		pageSize = defaultCatalogPageSize
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &catalogService{
		repo:            deps.Repository,
		upstream:        deps.Upstream,
		refreshPageSize: pageSize,
		logger:          logger,
	}, nil
}

// ListProducts returns one page of the catalog, filtered by name query and
// category key. The query is echoed back on the page.
func (s *catalogService) ListProducts(ctx context.Context, filter ProductFilter) (ProductPage, error) {
	if s == nil || s.repo == nil {
		return ProductPage{}, ErrCatalogUnavailable
	}

	products, err := s.repo.Products(ctx)
	if err != nil {
		return ProductPage{}, s.translateRepoError(err)
	}

	filtered := domain.FilterByName(products, filter.Query)

	categoryKey := strings.TrimSpace(strings.ToLower(filter.CategoryKey))
	if categoryKey != "" {
		narrowed := make([]domain.Product, 0, len(filtered))
		for _, p := range filtered {
			if p.CategoryKey == categoryKey {
				narrowed = append(narrowed, p)
			}
		}
		filtered = narrowed
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultCatalogPageSize
	}
	if pageSize > maxCatalogPageSize {
		pageSize = maxCatalogPageSize
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, filtered[start:end])

	return ProductPage{
		Products:   items,
		Query:      filter.Query,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetProduct returns the catalog item plus whatever extended detail the
// remote backend supplies. Upstream failure degrades to the local item.
func (s *catalogService) GetProduct(ctx context.Context, productID string) (ProductDetail, error) {
	if s == nil || s.repo == nil {
		return ProductDetail{}, ErrCatalogUnavailable
	}

	id := strings.TrimSpace(productID)
	if id == "" {
		return ProductDetail{}, fmt.Errorf("%w: product id is required", ErrCatalogInvalidInput)
	}

	product, err := s.repo.Product(ctx, id)
	if err != nil {
		return ProductDetail{}, s.translateRepoError(err)
	}

	detail := ProductDetail{Product: product, Availability: domain.AvailabilityUnknown}

	if s.upstream != nil {
		if numericID, convErr := strconv.Atoi(id); convErr == nil && numericID > 0 {
			result := s.upstream.GetProductDetail(ctx, numericID)
			if result.Success && result.Product != nil {
				enrichDetail(&detail, *result.Product)
			} else if result.Error != "" {
				s.logger(ctx, "catalog.detail_degraded", map[string]any{
					"productID": id,
					"error":     result.Error,
				})
			}
		}
	}

	return detail, nil
}

// ListCategoryGroups returns the grouped browse taxonomy.
func (s *catalogService) ListCategoryGroups(ctx context.Context) ([]CategoryGroup, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCatalogUnavailable
	}

	groups, err := s.repo.CategoryGroups(ctx)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	return groups, nil
}

// Refresh re-ingests the catalog from the remote backend. Pages are keyed by
// their reported page number so out-of-order arrival cannot scramble the
// listing, and the generation counter makes the latest refresh win: a refresh
// superseded mid-flight discards its results. On any upstream failure the
// previously ingested snapshot stays in place.
func (s *catalogService) Refresh(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrCatalogUnavailable
	}
	if s.upstream == nil {
		return fmt.Errorf("%w: no upstream configured", ErrCatalogUnavailable)
	}

	gen := s.claimGeneration()

	pages := make(map[int][]upstreamcatalog.ProductRecord)
	next := 1
	for fetched := 0; fetched < maxRefreshPages; fetched++ {
		result := s.upstream.ListProducts(ctx, upstreamcatalog.ListProductsParams{
			Page:     next,
			PageSize: s.refreshPageSize,
		})
		if !result.Success {
			s.logger(ctx, "catalog.refresh_failed", map[string]any{
				"page":  next,
				"error": result.Error,
			})
			return fmt.Errorf("%w: %s", ErrCatalogUnavailable, result.Error)
		}

		key := result.Page.Page
		if key <= 0 {
			key = next
		}
		pages[key] = result.Products

		if !result.Page.HasNext {
			break
		}
		next = key + 1
	}

	products := flattenPages(pages)

	var groups []domain.CategoryGroup
	if categories := s.upstream.ListCategories(ctx); categories.Success {
		groups = groupRemoteCategories(categories.Categories)
	} else {
		s.logger(ctx, "catalog.category_refresh_degraded", map[string]any{
			"error": categories.Error,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.logger(ctx, "catalog.refresh_superseded", map[string]any{
			"generation": gen,
			"current":    s.generation,
		})
		return nil
	}

	if err := s.repo.ReplaceProducts(ctx, products); err != nil {
		return s.translateRepoError(err)
	}
	if groups != nil {
		if err := s.repo.ReplaceCategoryGroups(ctx, groups); err != nil {
			return s.translateRepoError(err)
		}
	}

	s.logger(ctx, "catalog.refreshed", map[string]any{
		"generation": gen,
		"products":   len(products),
		"pages":      len(pages),
	})
	return nil
}

func (s *catalogService) claimGeneration() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// flattenPages orders accumulated pages by page number and normalizes their
// records, keeping the first occurrence of each product identifier.
func flattenPages(pages map[int][]upstreamcatalog.ProductRecord) []domain.Product {
	keys := make([]int, 0, len(pages))
	for key := range pages {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	seen := make(map[string]struct{})
	products := make([]domain.Product, 0)
	for _, key := range keys {
		for _, record := range pages[key] {
			product := normalizeProduct(record)
			if _, dup := seen[product.ID]; dup {
				continue
			}
			seen[product.ID] = struct{}{}
			products = append(products, product)
		}
	}
	return products
}

func groupRemoteCategories(records []upstreamcatalog.CategoryRecord) []domain.CategoryGroup {
	categories := make([]domain.Category, 0, len(records))
	for _, record := range records {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			continue
		}
		category := domain.Category{
			ID:   categoryKey(name),
			Name: name,
		}
		if record.ImageURL != nil {
			category.ImageURL = strings.TrimSpace(*record.ImageURL)
		}
		categories = append(categories, category)
	}
	if len(categories) == 0 {
		return nil
	}
	return []domain.CategoryGroup{{Title: "Shop by Category", Categories: categories}}
}

func (s *catalogService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrCatalogNotFound
		case repoErr.IsUnavailable():
			return ErrCatalogUnavailable
		}
	}
	return ErrCatalogUnavailable
}
