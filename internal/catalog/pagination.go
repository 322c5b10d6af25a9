package catalog

// PageSize is the fixed number of products per catalog page. It matches
// the upstream API's page size; changing one without the other breaks the
// pagination math.
const PageSize = 6

// PageItem is one entry in the navigable page window.
type PageItem struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// Pagination is the navigation state derived from a result count. A nil
// Pagination means the result fits on one page and no controls are needed.
type Pagination struct {
	Current    int        `json:"current"`
	TotalPages int        `json:"total_pages"`
	Pages      []PageItem `json:"pages"`
	IsFirst    bool       `json:"is_first"`
	IsLast     bool       `json:"is_last"`
}

// ComputePagination derives the page window for totalCount results at
// pageSize per page, with currentPage selected. Returns nil when the
// results fit on a single page (or there are none).
//
// The model does not clamp a currentPage beyond the last page; it reports
// the mismatch (IsLast false, no active entry) and leaves recovery to the
// caller, which knows whether to reset or re-fetch.
func ComputePagination(totalCount, pageSize, currentPage int) *Pagination {
	if pageSize <= 0 || totalCount < 0 {
		return nil
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages <= 1 {
		return nil
	}

	pages := make([]PageItem, totalPages)
	for i := range pages {
		n := i + 1
		pages[i] = PageItem{Number: n, Active: n == currentPage}
	}

	return &Pagination{
		Current:    currentPage,
		TotalPages: totalPages,
		Pages:      pages,
		IsFirst:    currentPage == 1,
		IsLast:     currentPage == totalPages,
	}
}

// Prev returns the page number one step back, or the current page when
// already at (or before) the first page.
func (p *Pagination) Prev() int {
	if p == nil {
		return 1
	}
	if p.IsFirst || p.Current <= 1 {
		return p.Current
	}
	return p.Current - 1
}

// Next returns the page number one step forward, or the current page when
// already at the last page.
func (p *Pagination) Next() int {
	if p == nil {
		return 1
	}
	if p.IsLast {
		return p.Current
	}
	return p.Current + 1
}
