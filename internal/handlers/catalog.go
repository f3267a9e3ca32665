package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/platform/httpx"
	"github.com/buildquick/storefront/internal/platform/pagination"
	"github.com/buildquick/storefront/internal/services"
)

// CatalogHandlers exposes the read-only catalog browse endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs handlers over the catalog service.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes wires the /catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/categories", h.listCategories)
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	page, err := h.catalog.ListProducts(ctx, services.ProductFilter{
		Query:       query,
		CategoryKey: category,
		Page:        params.Page,
		PageSize:    params.PageSize,
	})
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, buildProductPagePayload(page))
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	detail, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, productDetailResponse{Product: buildProductDetailPayload(detail)})
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	groups, err := h.catalog.ListCategoryGroups(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	payload := categoryGroupsResponse{Groups: make([]categoryGroupPayload, 0, len(groups))}
	for _, group := range groups {
		payload.Groups = append(payload.Groups, buildCategoryGroupPayload(group))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
	}
}

type productPagePayload struct {
	Products   []productPayload `json:"products"`
	Query      string           `json:"query"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

type productPayload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	Unit          string   `json:"unit,omitempty"`
	ImageURL      string   `json:"image_url"`
	Brand         string   `json:"brand,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	RatingCount   *int     `json:"rating_count,omitempty"`
	DeliveryTime  string   `json:"delivery_time,omitempty"`
	Discount      string   `json:"discount,omitempty"`
}

type productDetailResponse struct {
	Product productDetailPayload `json:"product"`
}

type productDetailPayload struct {
	productPayload
	Description    string            `json:"description,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Availability   string            `json:"availability"`
}

type categoryGroupsResponse struct {
	Groups []categoryGroupPayload `json:"groups"`
}

type categoryGroupPayload struct {
	Title      string            `json:"title"`
	Categories []categoryPayload `json:"categories"`
}

type categoryPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

func buildProductPagePayload(page services.ProductPage) productPagePayload {
	products := make([]productPayload, 0, len(page.Products))
	for _, product := range page.Products {
		products = append(products, buildProductPayload(product))
	}
	return productPagePayload{
		Products:   products,
		Query:      page.Query,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

func buildProductPayload(product domain.Product) productPayload {
	return productPayload{
		ID:            product.ID,
		Name:          product.Name,
		Category:      product.CategoryKey,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Unit:          product.Unit,
		ImageURL:      product.ImageURL,
		Brand:         product.Brand,
		Rating:        product.Rating,
		RatingCount:   product.RatingCount,
		DeliveryTime:  product.DeliveryTime,
		Discount:      product.Discount,
	}
}

func buildProductDetailPayload(detail services.ProductDetail) productDetailPayload {
	return productDetailPayload{
		productPayload: buildProductPayload(detail.Product),
		Description:    detail.Description,
		Images:         detail.Images,
		Specifications: detail.Specifications,
		Availability:   string(detail.Availability),
	}
}

func buildCategoryGroupPayload(group domain.CategoryGroup) categoryGroupPayload {
	categories := make([]categoryPayload, 0, len(group.Categories))
	for _, category := range group.Categories {
		categories = append(categories, categoryPayload{
			ID:       category.ID,
			Name:     category.Name,
			ImageURL: category.ImageURL,
		})
	}
	return categoryGroupPayload{Title: group.Title, Categories: categories}
}
