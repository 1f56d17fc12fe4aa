package models

// Pagination describes the page returned alongside a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives the page number from an offset/limit pair.
func NewPagination(offset, limit, total int) *Pagination {
	if limit <= 0 {
		limit = 1
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &Pagination{Page: offset/limit + 1, PageSize: limit, TotalCount: total, TotalPages: pages}
}
