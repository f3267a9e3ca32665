package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/services"
)

type stubCatalogService struct {
	listFn       func(ctx context.Context, filter services.ProductFilter) (services.ProductPage, error)
	getFn        func(ctx context.Context, productID string) (services.ProductDetail, error)
	categoriesFn func(ctx context.Context) ([]services.CategoryGroup, error)
	refreshFn    func(ctx context.Context) error
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter services.ProductFilter) (services.ProductPage, error) {
	if s.listFn == nil {
		return services.ProductPage{Page: filter.Page, PageSize: filter.PageSize, TotalPages: 1}, nil
	}
	return s.listFn(ctx, filter)
}

func (s *stubCatalogService) GetProduct(ctx context.Context, productID string) (services.ProductDetail, error) {
	if s.getFn == nil {
		return services.ProductDetail{}, services.ErrCatalogNotFound
	}
	return s.getFn(ctx, productID)
}

func (s *stubCatalogService) ListCategoryGroups(ctx context.Context) ([]services.CategoryGroup, error) {
	if s.categoriesFn == nil {
		return nil, nil
	}
	return s.categoriesFn(ctx)
}

func (s *stubCatalogService) Refresh(ctx context.Context) error {
	if s.refreshFn == nil {
		return nil
	}
	return s.refreshFn(ctx)
}

func newCatalogRouter(stub *stubCatalogService) http.Handler {
	handlers := NewCatalogHandlers(stub)
	return NewRouter(WithCatalogRoutes(handlers.Routes))
}

func TestListProductsForwardsFilter(t *testing.T) {
	var gotFilter services.ProductFilter
	stub := &stubCatalogService{
		listFn: func(ctx context.Context, filter services.ProductFilter) (services.ProductPage, error) {
			gotFilter = filter
			return services.ProductPage{
				Products:   []domain.Product{{ID: "p1", Name: "Ultratech Cement (OPC 43)", CategoryKey: "cement", Price: 410, OriginalPrice: 450}},
				Query:      filter.Query,
				Page:       filter.Page,
				PageSize:   filter.PageSize,
				Total:      1,
				TotalPages: 1,
			}, nil
		},
	}
	router := newCatalogRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?query=cement&category=cement&page=2&page_size=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := services.ProductFilter{Query: "cement", CategoryKey: "cement", Page: 2, PageSize: 10}
	if gotFilter != want {
		t.Fatalf("unexpected filter %+v", gotFilter)
	}

	var payload productPagePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Query != "cement" || payload.Total != 1 {
		t.Fatalf("unexpected page payload %+v", payload)
	}
	if len(payload.Products) != 1 || payload.Products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", payload.Products)
	}
}

func TestListProductsRejectsInvalidPage(t *testing.T) {
	router := newCatalogRouter(&stubCatalogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?page=0", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body["error"] != "invalid_request" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}

func TestGetProductReturnsDetail(t *testing.T) {
	stub := &stubCatalogService{
		getFn: func(ctx context.Context, productID string) (services.ProductDetail, error) {
			if productID != "p1" {
				t.Fatalf("unexpected product id %q", productID)
			}
			return services.ProductDetail{
				Product:      domain.Product{ID: "p1", Name: "Ultratech Cement (OPC 43)", CategoryKey: "cement", Price: 410, OriginalPrice: 450},
				Description:  "OPC 43 grade cement for general construction.",
				Images:       []string{"https://example.com/cement.jpg"},
				Availability: domain.AvailabilityInStock,
			}, nil
		},
	}
	router := newCatalogRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/p1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload productDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Product.ID != "p1" || payload.Product.Availability != "in_stock" {
		t.Fatalf("unexpected detail payload %+v", payload.Product)
	}
	if payload.Product.Description == "" || len(payload.Product.Images) != 1 {
		t.Fatalf("unexpected detail payload %+v", payload.Product)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newCatalogRouter(&stubCatalogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/ghost", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body["error"] != "product_not_found" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}

func TestListCategoriesReturnsGroups(t *testing.T) {
	stub := &stubCatalogService{
		categoriesFn: func(ctx context.Context) ([]services.CategoryGroup, error) {
			return domain.DefaultCategoryGroups(), nil
		},
	}
	router := newCatalogRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload categoryGroupsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(payload.Groups) != len(domain.DefaultCategoryGroups()) {
		t.Fatalf("unexpected group count %d", len(payload.Groups))
	}
	if payload.Groups[0].Title == "" || len(payload.Groups[0].Categories) == 0 {
		t.Fatalf("unexpected group payload %+v", payload.Groups[0])
	}
}

func TestCatalogServiceUnavailable(t *testing.T) {
	stub := &stubCatalogService{
		listFn: func(ctx context.Context, filter services.ProductFilter) (services.ProductPage, error) {
			return services.ProductPage{}, services.ErrCatalogUnavailable
		},
	}
	router := newCatalogRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body["error"] != "catalog_service_unavailable" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}
