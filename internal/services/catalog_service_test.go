package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories/memory"
	upstreamcatalog "github.com/buildquick/storefront/internal/upstream/catalog"
)

type stubCatalogFetcher struct {
	listCategoriesFunc func(ctx context.Context) upstreamcatalog.CategoriesResult
	listProductsFunc   func(ctx context.Context, params upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult
	getDetailFunc      func(ctx context.Context, productID int) upstreamcatalog.ProductDetailResult
}

func (s *stubCatalogFetcher) ListCategories(ctx context.Context) upstreamcatalog.CategoriesResult {
	if s.listCategoriesFunc == nil {
		return upstreamcatalog.CategoriesResult{Success: true}
	}
	return s.listCategoriesFunc(ctx)
}

func (s *stubCatalogFetcher) ListProducts(ctx context.Context, params upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult {
	if s.listProductsFunc == nil {
		return upstreamcatalog.ProductsResult{Error: "not stubbed"}
	}
	return s.listProductsFunc(ctx, params)
}

func (s *stubCatalogFetcher) GetProductDetail(ctx context.Context, productID int) upstreamcatalog.ProductDetailResult {
	if s.getDetailFunc == nil {
		return upstreamcatalog.ProductDetailResult{Error: "not stubbed"}
	}
	return s.getDetailFunc(ctx, productID)
}

func seededCatalogService(t *testing.T, upstream CatalogFetcher) (CatalogService, *memory.CatalogRepository) {
	t.Helper()
	repo := memory.NewCatalogRepository(domain.DefaultCatalog(), domain.DefaultCategoryGroups())
	service, err := NewCatalogService(CatalogServiceDeps{
		Repository: repo,
		Upstream:   upstream,
	})
	if err != nil {
		t.Fatalf("unexpected error constructing catalog service: %v", err)
	}
	return service, repo
}

func wireProduct(id int, title, category, price string) upstreamcatalog.ProductRecord {
	return upstreamcatalog.ProductRecord{
		ID:           id,
		Title:        title,
		Category:     upstreamcatalog.ProductCategoryRecord{ID: 1, Name: category},
		Price:        price,
		Availability: "in_stock",
		IsActive:     true,
	}
}

func TestCatalogServiceListProductsFiltersByQuery(t *testing.T) {
	service, _ := seededCatalogService(t, nil)

	page, err := service.ListProducts(context.Background(), ProductFilter{Query: "CEMENT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Query != "CEMENT" {
		t.Fatalf("expected query echoed, got %q", page.Query)
	}
	if len(page.Products) != 1 {
		t.Fatalf("expected 1 match, got %d", len(page.Products))
	}
	if page.Products[0].ID != "p1" {
		t.Fatalf("expected p1, got %q", page.Products[0].ID)
	}
	if page.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Total)
	}
}

func TestCatalogServiceListProductsEmptyQueryReturnsAll(t *testing.T) {
	service, _ := seededCatalogService(t, nil)

	page, err := service.ListProducts(context.Background(), ProductFilter{Query: "   "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Products) != len(domain.DefaultCatalog()) {
		t.Fatalf("expected full catalog, got %d products", len(page.Products))
	}
}

func TestCatalogServiceListProductsPaginates(t *testing.T) {
	service, _ := seededCatalogService(t, nil)

	page, err := service.ListProducts(context.Background(), ProductFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 2 || page.PageSize != 2 {
		t.Fatalf("unexpected paging %+v", page)
	}
	if len(page.Products) != 2 {
		t.Fatalf("expected 2 products on page 2, got %d", len(page.Products))
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 5 products, got %d", page.TotalPages)
	}
}

func TestCatalogServiceListProductsCategoryFilter(t *testing.T) {
	service, _ := seededCatalogService(t, nil)

	page, err := service.ListProducts(context.Background(), ProductFilter{CategoryKey: "electrical"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range page.Products {
		if p.CategoryKey != "electrical" {
			t.Fatalf("expected only electrical products, got %q", p.CategoryKey)
		}
	}
	if len(page.Products) == 0 {
		t.Fatalf("expected electrical fixtures present")
	}
}

func TestCatalogServiceGetProductEnrichesFromUpstream(t *testing.T) {
	description := "Blended portland pozzolana cement."
	fetcher := &stubCatalogFetcher{
		getDetailFunc: func(_ context.Context, productID int) upstreamcatalog.ProductDetailResult {
			if productID != 42 {
				t.Fatalf("unexpected detail id %d", productID)
			}
			record := wireProduct(42, "Ambuja Cement PPC 50kg", "Cement", "365.00")
			record.Description = &description
			record.Images = []string{"https://cdn.example/42.jpg"}
			record.Specifications = map[string]string{"Grade": "PPC"}
			return upstreamcatalog.ProductDetailResult{Success: true, Product: &record}
		},
	}

	service, repo := seededCatalogService(t, fetcher)
	if err := repo.ReplaceProducts(context.Background(), []domain.Product{{ID: "42", Name: "Ambuja Cement PPC 50kg", Price: 365}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	detail, err := service.GetProduct(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Description != description {
		t.Fatalf("expected description, got %q", detail.Description)
	}
	if len(detail.Images) != 1 {
		t.Fatalf("expected gallery, got %+v", detail.Images)
	}
	if detail.Availability != domain.AvailabilityInStock {
		t.Fatalf("expected in_stock, got %q", detail.Availability)
	}
}

func TestCatalogServiceGetProductDegradesWhenUpstreamFails(t *testing.T) {
	fetcher := &stubCatalogFetcher{
		getDetailFunc: func(context.Context, int) upstreamcatalog.ProductDetailResult {
			return upstreamcatalog.ProductDetailResult{Error: "backend down"}
		},
	}

	service, repo := seededCatalogService(t, fetcher)
	if err := repo.ReplaceProducts(context.Background(), []domain.Product{{ID: "42", Name: "Ambuja Cement PPC 50kg", Price: 365}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	detail, err := service.GetProduct(context.Background(), "42")
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if detail.Name != "Ambuja Cement PPC 50kg" || detail.Price != 365 {
		t.Fatalf("expected local item preserved, got %+v", detail.Product)
	}
	if detail.Description != "" || len(detail.Images) != 0 {
		t.Fatalf("expected no enrichment on failure")
	}
}

func TestCatalogServiceGetProductNotFound(t *testing.T) {
	service, _ := seededCatalogService(t, nil)

	if _, err := service.GetProduct(context.Background(), "no-such-id"); !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogServiceRefreshAccumulatesPagesInOrder(t *testing.T) {
	fetcher := &stubCatalogFetcher{
		listProductsFunc: func(_ context.Context, params upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult {
			switch params.Page {
			case 1:
				return upstreamcatalog.ProductsResult{
					Success:  true,
					Products: []upstreamcatalog.ProductRecord{wireProduct(1, "Cement A", "Cement", "410.00")},
					Page:     upstreamcatalog.PageInfo{Page: 1, TotalPages: 2, HasNext: true},
				}
			case 2:
				return upstreamcatalog.ProductsResult{
					Success: true,
					Products: []upstreamcatalog.ProductRecord{
						wireProduct(2, "Cement B", "Cement", "430.50"),
						wireProduct(1, "Cement A duplicate", "Cement", "999"),
					},
					Page: upstreamcatalog.PageInfo{Page: 2, TotalPages: 2, HasPrevious: true},
				}
			default:
				t.Fatalf("unexpected page request %d", params.Page)
				return upstreamcatalog.ProductsResult{}
			}
		},
	}

	service, repo := seededCatalogService(t, fetcher)
	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	products, err := repo.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 ingested products, got %d", len(products))
	}
	if products[0].ID != "1" || products[1].ID != "2" {
		t.Fatalf("expected page order preserved, got %+v", products)
	}
	if products[0].Name != "Cement A" {
		t.Fatalf("expected first occurrence kept on duplicate id, got %q", products[0].Name)
	}
	if products[1].Price != 431 {
		t.Fatalf("expected rounded rupee price 431, got %d", products[1].Price)
	}
}

func TestCatalogServiceRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &stubCatalogFetcher{
		listProductsFunc: func(context.Context, upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult {
			return upstreamcatalog.ProductsResult{Error: "catalog backend unreachable"}
		},
	}

	service, repo := seededCatalogService(t, fetcher)
	if err := service.Refresh(context.Background()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	products, err := repo.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != len(domain.DefaultCatalog()) {
		t.Fatalf("expected seeded catalog preserved, got %d products", len(products))
	}
}

func TestCatalogServiceRefreshLatestRequestWins(t *testing.T) {
	ctx := context.Background()

	var service CatalogService
	nested := false
	fetcher := &stubCatalogFetcher{}
	fetcher.listProductsFunc = func(_ context.Context, params upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult {
		if !nested {
			nested = true
			// A newer refresh starts and completes while the first is still
			// fetching; the first must discard its results.
			if err := service.Refresh(ctx); err != nil {
				t.Fatalf("unexpected nested refresh error: %v", err)
			}
			return upstreamcatalog.ProductsResult{
				Success:  true,
				Products: []upstreamcatalog.ProductRecord{wireProduct(10, "Stale Cement", "Cement", "100")},
				Page:     upstreamcatalog.PageInfo{Page: 1, TotalPages: 1},
			}
		}
		return upstreamcatalog.ProductsResult{
			Success:  true,
			Products: []upstreamcatalog.ProductRecord{wireProduct(20, "Fresh Cement", "Cement", "200")},
			Page:     upstreamcatalog.PageInfo{Page: 1, TotalPages: 1},
		}
	}

	var repo *memory.CatalogRepository
	service, repo = seededCatalogService(t, fetcher)

	if err := service.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	products, err := repo.Products(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Fresh Cement" {
		t.Fatalf("expected superseded refresh discarded, got %+v", products)
	}
}

func TestCatalogServiceRefreshReplacesCategoryGroups(t *testing.T) {
	image := "https://cdn.example/cement.jpg"
	fetcher := &stubCatalogFetcher{
		listProductsFunc: func(context.Context, upstreamcatalog.ListProductsParams) upstreamcatalog.ProductsResult {
			return upstreamcatalog.ProductsResult{
				Success: true,
				Page:    upstreamcatalog.PageInfo{Page: 1, TotalPages: 1},
			}
		},
		listCategoriesFunc: func(context.Context) upstreamcatalog.CategoriesResult {
			return upstreamcatalog.CategoriesResult{
				Success: true,
				Categories: []upstreamcatalog.CategoryRecord{
					{ID: 1, Name: "Cement & Concrete", ImageURL: &image, IsActive: true},
				},
			}
		},
	}

	service, repo := seededCatalogService(t, fetcher)
	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	groups, err := repo.CategoryGroups(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected single remote group, got %d", len(groups))
	}
	if len(groups[0].Categories) != 1 || groups[0].Categories[0].ID != "cement-&-concrete" {
		t.Fatalf("unexpected categories %+v", groups[0].Categories)
	}
}
