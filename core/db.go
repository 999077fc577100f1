package core

// PageFilter selects a single page of a listing. A Limit of 0 means "use the default".
type PageFilter struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

const defaultPageSize = 10

func (pf *PageFilter) Clean() {
	if pf.Page < 1 {
		pf.Page = 1
	}
	if pf.Limit < 1 {
		pf.Limit = defaultPageSize
	}
}

func (pf PageFilter) Offset() int {
	return (pf.Page - 1) * pf.Limit
}

// Pagination describes the page returned alongside a listing.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

func NewPagination(pf PageFilter, total int) Pagination {
	pages := total / pf.Limit
	if total%pf.Limit > 0 {
		pages++
	}
	return Pagination{
		CurrentPage: pf.Page,
		PageSize:    pf.Limit,
		TotalPages:  pages,
		TotalCount:  total,
	}
}
