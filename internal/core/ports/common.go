package ports

// Caller identifies the authenticated actor a handler is acting for.
// Extracted from the auth middleware's context claims.
type Caller struct {
	ID   string
	Role string
}

// Pagination describes one page of a list result.
type Pagination struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPagination computes the page count for a total at the given page size.
func NewPagination(total int64, page, limit int) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
