package domain

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Default paging parameters.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MinSearchLimit is the smallest page size search results are served with.
	MinSearchLimit = 10
	MaxLimit       = 100
	// MaxPage keeps (MaxPage-1)*MaxLimit well inside the range of an int.
	MaxPage = 1_000_000
)

// NewPagination computes page metadata. With minOnePage an empty result
// still reports one page.
func NewPagination(page, limit, total int, minOnePage bool) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	if minOnePage && totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// Offset returns the number of rows preceding page. page and limit are
// clamped to MaxPage and MaxLimit, so the result never overflows.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	page = min(page, MaxPage)
	limit = min(limit, MaxLimit)
	return (page - 1) * limit
}
