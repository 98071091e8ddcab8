package shared

import "math"

const (
	// DefaultPage is used when the page query parameter is missing or invalid.
	DefaultPage = 1
	// DefaultPageSize is used when the limit query parameter is missing or invalid.
	DefaultPageSize = 10
	// MaxPageSize caps the limit query parameter.
	MaxPageSize = 100
	// MaxPage caps the page number so Offset fits in 32 bits.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata. Page and limit are clamped to
// MaxPage and MaxPageSize.
func NewPagination(page, limit, total int) Pagination {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	switch {
	case page <= 0:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Offset returns the number of records to skip for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
