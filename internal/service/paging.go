package service

import "github.com/phrazzld/booklib-api/internal/domain"

// normalizePaging applies the listing defaults and the upper bounds on page
// and limit.
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = domain.DefaultPage
	}
	if page > domain.MaxPage {
		page = domain.MaxPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}
	return page, limit
}

// normalizeSearchPaging is normalizePaging with search's minimum page size.
func normalizeSearchPaging(page, limit int) (int, int) {
	page, limit = normalizePaging(page, limit)
	if limit < domain.MinSearchLimit {
		limit = domain.MinSearchLimit
	}
	return page, limit
}
