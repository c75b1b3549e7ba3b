package store

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PaginationParams selects one page of a list query. Page is 1-indexed.
type PaginationParams struct {
	Page     int
	PageSize int
}

// NewPaginationParams clamps page to at least 1 and pageSize to [1, 50],
// falling back to 10 items per page.
func NewPaginationParams(page, pageSize int) PaginationParams {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return PaginationParams{
		Page:     max(page, 1),
		PageSize: min(pageSize, maxPageSize),
	}
}

// Offset is the number of rows skipped before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginationResult describes where a page sits in the full list, for
// rendering previous/next links.
type PaginationResult struct {
	Total       int64
	TotalPages  int
	CurrentPage int
	PageSize    int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// CalculatePagination builds the result for total rows. A page past the end
// is reported as the last page.
func CalculatePagination(total int64, currentPage, pageSize int) PaginationResult {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	current := max(currentPage, 1)
	if totalPages > 0 {
		current = min(current, totalPages)
	}

	return PaginationResult{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: current,
		PageSize:    pageSize,
		HasPrev:     current > 1,
		HasNext:     current < totalPages,
		PrevPage:    max(current-1, 1),
		NextPage:    min(current+1, totalPages),
	}
}
