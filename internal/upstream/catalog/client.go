package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 20

	maxResponseBytes = 4 << 20
)

// Client fetches categories, products, and product detail pages from the
// remote catalog backend. Every call returns the backend's uniform envelope;
// transport failures are folded into a success=false envelope with a
// human-readable error string and are never surfaced as Go errors, so callers
// treat them uniformly as "no data".
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config bundles constructor inputs for the catalog client.
type Config struct {
	// BaseURL points at the backend API root, e.g. http://localhost:8000/api.
	BaseURL string
	// Timeout bounds each request; zero selects the default.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// Logger receives request diagnostics; nil disables logging.
	Logger *zap.Logger
}

// NewClient constructs a catalog client for the configured backend.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog client: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ListCategories fetches the flat category collection.
func (c *Client) ListCategories(ctx context.Context) CategoriesResult {
	var envelope listEnvelope[CategoryRecord]
	if err := c.getJSON(ctx, "/categories/", nil, &envelope); err != nil {
		return CategoriesResult{Error: err.Error()}
	}
	if !envelope.Success {
		return CategoriesResult{Error: backendError(envelope.Error)}
	}
	return CategoriesResult{Success: true, Categories: envelope.Results}
}

// ListProductsParams narrows and pages a product listing request.
type ListProductsParams struct {
	// CategoryID filters by backend category; zero means all categories.
	CategoryID int
	Page       int
	PageSize   int
}

// ListProducts fetches one page of product records.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) ProductsResult {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := url.Values{}
	if params.CategoryID > 0 {
		query.Set("category_id", strconv.Itoa(params.CategoryID))
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var envelope listEnvelope[ProductRecord]
	if err := c.getJSON(ctx, "/products/", query, &envelope); err != nil {
		return ProductsResult{Error: err.Error()}
	}
	if !envelope.Success {
		return ProductsResult{Error: backendError(envelope.Error)}
	}

	info := PageInfo{
		Page:        envelope.Page,
		PageSize:    envelope.PageSize,
		TotalPages:  envelope.TotalPages,
		HasNext:     envelope.HasNext,
		HasPrevious: envelope.HasPrevious,
	}
	if info.Page <= 0 {
		info.Page = page
	}
	if info.TotalPages <= 0 {
		info.TotalPages = info.Page
	}
	return ProductsResult{Success: true, Products: envelope.Results, Page: info}
}

// GetProductDetail fetches one product with its extended detail fields.
func (c *Client) GetProductDetail(ctx context.Context, productID int) ProductDetailResult {
	if productID <= 0 {
		return ProductDetailResult{Error: "product id must be positive"}
	}

	var envelope detailEnvelope[ProductRecord]
	path := fmt.Sprintf("/products/%d/", productID)
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return ProductDetailResult{Error: err.Error()}
	}
	if !envelope.Success || envelope.Result == nil {
		return ProductDetailResult{Error: backendError(envelope.Error)}
	}
	return ProductDetailResult{Success: true, Product: envelope.Result}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("catalog request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("catalog backend unreachable: %v", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("catalog request rejected", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("catalog backend returned status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		c.logger.Debug("catalog response undecodable", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("catalog backend sent malformed JSON: %v", err)
	}
	return nil
}

func backendError(message string) string {
	if trimmed := strings.TrimSpace(message); trimmed != "" {
		return trimmed
	}
	return "catalog backend reported failure"
}
