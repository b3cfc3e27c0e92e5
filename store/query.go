package store

// Defaults applied when a page request leaves a field unset.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultSortKey  = "id"
)

// FilterOp enumerates the structural predicate operators adapters must
// support: field equality, ranges, and substring matching.
type FilterOp string

const (
	OpEq       FilterOp = "eq"
	OpNe       FilterOp = "ne"
	OpGt       FilterOp = "gt"
	OpGte      FilterOp = "gte"
	OpLt       FilterOp = "lt"
	OpLte      FilterOp = "lte"
	OpContains FilterOp = "contains"
)

// Filter is one structural predicate clause. Clauses in a request combine
// with AND semantics.
type Filter struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value any      `json:"value"`
}

// Eq matches records whose field equals value.
func Eq(field string, value any) Filter { return Filter{Field: field, Op: OpEq, Value: value} }

// Ne matches records whose field differs from value.
func Ne(field string, value any) Filter { return Filter{Field: field, Op: OpNe, Value: value} }

// Gt matches records whose field is greater than value.
func Gt(field string, value any) Filter { return Filter{Field: field, Op: OpGt, Value: value} }

// Gte matches records whose field is greater than or equal to value.
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }

// Lt matches records whose field is less than value.
func Lt(field string, value any) Filter { return Filter{Field: field, Op: OpLt, Value: value} }

// Lte matches records whose field is less than or equal to value.
func Lte(field string, value any) Filter { return Filter{Field: field, Op: OpLte, Value: value} }

// Contains matches records whose field contains value as a substring.
func Contains(field string, value string) Filter {
	return Filter{Field: field, Op: OpContains, Value: value}
}

// PageRequest is the shared request shape for list and search operations.
// Page is zero-based. Adapters order results by SortKey ascending with ties
// broken by id ascending, so repeated identical requests against an
// unchanged data set return the same sequence.
type PageRequest struct {
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	SortKey  string   `json:"sort_key"`
	Filters  []Filter `json:"filters,omitempty"`
}

// Normalize clamps the request to the package defaults. The versioned
// service applies its own per-entity bounds; this covers direct adapter use.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.SortKey == "" {
		r.SortKey = DefaultSortKey
	}
	return r
}

// Page is the shared response shape for list and search operations.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a Page from the adapter's items and total count,
// deriving TotalPages as ceil(totalCount / pageSize).
func NewPage[T any](items []T, req PageRequest, totalCount int) Page[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = (totalCount + req.PageSize - 1) / req.PageSize
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
