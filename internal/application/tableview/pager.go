package tableview

import "slices"

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 10

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`        // current page (1-indexed)
	PerPage    int `json:"per_page"`    // rows per page
	Total      int `json:"total"`       // rows after filtering
	TotalPages int `json:"total_pages"` // ceil(Total / PerPage); 0 when nothing matches
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages = ceil(total/perPage); Page clamped to [1, max(TotalPages, 1)]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + perPage - 1) / perPage
	return PageInfo{
		Page:       clampPage(page, totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// Paginate returns the rows of one page: the slice [(page-1)*size, page*size).
// PRE: none
// POST: at most size rows; empty (never nil) when page is out of range
func Paginate[R any](rows []R, page, size int) []R {
	if size < 1 || page < 1 || len(rows) == 0 {
		return []R{}
	}
	// Compare page indexes rather than offsets so huge pages cannot overflow.
	if page-1 > (len(rows)-1)/size {
		return []R{}
	}
	start := (page - 1) * size
	end := start + min(size, len(rows)-start)
	return slices.Clone(rows[start:end])
}

// PageButton is one page-number control.
type PageButton struct {
	Number int    `json:"number"`
	Active bool   `json:"active"`
	Href   string `json:"href,omitempty"`
}

// Controls is the rendered state of a table's page navigation.
type Controls struct {
	Buttons      []PageButton `json:"buttons"`
	PrevDisabled bool         `json:"prev_disabled"`
	NextDisabled bool         `json:"next_disabled"`
	PrevHref     string       `json:"prev_href,omitempty"`
	NextHref     string       `json:"next_href,omitempty"`
}

// RenderPageControls produces one button per page and the Prev/Next state.
// PRE: totalPages >= 0
// POST: len(Buttons) == totalPages; the button equal to currentPage is Active;
// Prev is disabled on page 1, Next on the last page, both when totalPages == 0
func RenderPageControls(totalPages, currentPage int) Controls {
	if totalPages < 0 {
		totalPages = 0
	}
	c := Controls{
		Buttons:      make([]PageButton, 0, totalPages),
		PrevDisabled: totalPages == 0 || currentPage <= 1,
		NextDisabled: totalPages == 0 || currentPage >= totalPages,
	}
	for i := 1; i <= totalPages; i++ {
		c.Buttons = append(c.Buttons, PageButton{Number: i, Active: i == currentPage})
	}
	return c
}

// WithLinks fills in the Href of every enabled control.
// POST: disabled Prev/Next controls keep an empty Href
func (c Controls) WithLinks(currentPage int, link func(page int) string) Controls {
	if link == nil {
		return c
	}
	buttons := make([]PageButton, len(c.Buttons))
	for i, b := range c.Buttons {
		b.Href = link(b.Number)
		buttons[i] = b
	}
	c.Buttons = buttons
	if !c.PrevDisabled {
		c.PrevHref = link(currentPage - 1)
	}
	if !c.NextDisabled {
		c.NextHref = link(currentPage + 1)
	}
	return c
}

// clampPage keeps page within [1, max(totalPages, 1)].
func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
