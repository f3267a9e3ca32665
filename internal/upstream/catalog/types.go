package catalog

// CategoryRecord mirrors one category as the catalog backend serialises it.
type CategoryRecord struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	ImageURL     *string `json:"image_url"`
	ProductCount int     `json:"product_count"`
	IsActive     bool    `json:"is_active"`
}

// ProductCategoryRecord is the embedded category reference on product records.
type ProductCategoryRecord struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// ProductRecord mirrors one product as the catalog backend serialises it.
// Price travels as a decimal string; optional fields stay pointers so absent
// values are distinguishable from empty ones.
type ProductRecord struct {
	ID             int                   `json:"id"`
	Title          string                `json:"title"`
	Category       ProductCategoryRecord `json:"category"`
	Price          string                `json:"price"`
	PriceDisplay   *string               `json:"price_display"`
	ImageURL       *string               `json:"image_url"`
	MainImage      *string               `json:"main_image"`
	Availability   string                `json:"availability"`
	IsActive       bool                  `json:"is_active"`
	Description    *string               `json:"description_text"`
	Images         []string              `json:"images"`
	Specifications map[string]string     `json:"specifications"`
}

// PageInfo carries the pagination metadata returned alongside list results.
type PageInfo struct {
	Page        int
	PageSize    int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// CategoriesResult is the uniform envelope for category listings. Success is
// false for any transport, decode, or backend failure; Error then holds a
// human-readable description and Categories is empty.
type CategoriesResult struct {
	Success    bool
	Error      string
	Categories []CategoryRecord
}

// ProductsResult is the uniform envelope for paginated product listings.
type ProductsResult struct {
	Success  bool
	Error    string
	Products []ProductRecord
	Page     PageInfo
}

// ProductDetailResult is the uniform envelope for single-product lookups.
type ProductDetailResult struct {
	Success bool
	Error   string
	Product *ProductRecord
}

type listEnvelope[T any] struct {
	Success     bool   `json:"success"`
	Count       int    `json:"count"`
	Results     []T    `json:"results"`
	Error       string `json:"error"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
}

type detailEnvelope[T any] struct {
	Success bool   `json:"success"`
	Result  *T     `json:"result"`
	Error   string `json:"error"`
}
