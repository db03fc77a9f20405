package entity

// Sort orders accepted by the product listing. Anything else falls back to
// newest-first.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type CreateProductRequest struct {
	ProductName string  `json:"productName" validate:"required"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// UpdateProductRequest carries a partial attribute set; nil fields are left
// untouched by the merge. Identity and owner fields are deliberately absent
// so they can never be reassigned through an update.
type UpdateProductRequest struct {
	ProductName *string  `json:"productName" validate:"omitempty,min=1"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// ProductQuery is the parsed form of the listing query parameters. All
// filters are optional and combined with logical AND. Limit 0 means
// unbounded.
type ProductQuery struct {
	Search   string
	Category string
	Sort     string
	Limit    int64
}

// Default reports whether the query is the plain newest-first listing with
// no filters, which is the only shape served from the cache.
func (q ProductQuery) Default() bool {
	return q.Search == "" && q.Category == "" && (q.Sort == "" || q.Sort == SortNewest)
}

// Response is the JSON envelope used by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}
