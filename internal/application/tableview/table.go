package tableview

import (
	"log/slog"
	"slices"
)

// Table owns one row set together with its filter and page state.
// Each table on a page is a separate instance; tables never share state.
type Table[R any] struct {
	schema   Schema[R]
	rows     []R // row store, captured once
	filters  FilterState
	filtered []R
	page     int
}

// New captures rows as the table's row store with no filters on page 1.
// PRE: schema fields have Value accessors
// POST: Filtered() equals rows; Page() == 1
func New[R any](schema Schema[R], rows []R) *Table[R] {
	t := &Table[R]{
		schema:  schema,
		rows:    slices.Clone(rows),
		filters: FilterState{},
	}
	t.refilter()
	return t
}

// Schema returns the table's field mapping.
func (t *Table[R]) Schema() Schema[R] {
	return t.schema
}

// SetFilter changes one filter field and resets to page 1.
// POST: Filtered() is recomputed from the full row store; Page() == 1
func (t *Table[R]) SetFilter(name, value string) {
	t.filters[name] = value
	t.refilter()
}

// SetFilters replaces the whole filter state and resets to page 1.
// POST: Filtered() is recomputed from the full row store; Page() == 1
func (t *Table[R]) SetFilters(state FilterState) {
	t.filters = state.Clone()
	t.refilter()
}

// refilter recomputes the filtered set and resets the page before anything
// can render against the new page count.
func (t *Table[R]) refilter() {
	t.filtered = ApplyFilters(t.rows, t.schema, t.filters)
	t.page = 1
	slog.Debug("table_filtered", "table", t.schema.Name, "rows", len(t.rows), "matched", len(t.filtered))
}

// Filters returns a copy of the current filter state.
func (t *Table[R]) Filters() FilterState {
	return t.filters.Clone()
}

// Filtered returns a copy of the filtered rows in original order.
func (t *Table[R]) Filtered() []R {
	return slices.Clone(t.filtered)
}

// Len returns the total number of rows in the row store.
func (t *Table[R]) Len() int {
	return len(t.rows)
}

// Page returns the current page (1-indexed).
func (t *Table[R]) Page() int {
	return t.page
}

// TotalPages returns ceil(filtered/pageSize); 0 when nothing matches.
func (t *Table[R]) TotalPages() int {
	size := t.schema.pageSize()
	return (len(t.filtered) + size - 1) / size
}

// GoTo sets the current page.
// POST: 1 <= Page() <= max(TotalPages(), 1)
func (t *Table[R]) GoTo(page int) {
	t.page = clampPage(page, t.TotalPages())
}

// Next advances one page. It reports false when already on the last page.
func (t *Table[R]) Next() bool {
	if t.page >= t.TotalPages() {
		return false
	}
	t.page++
	return true
}

// Prev goes back one page. It reports false when already on page 1.
func (t *Table[R]) Prev() bool {
	if t.page <= 1 {
		return false
	}
	t.page--
	return true
}

// Rows returns the rows of the current page.
func (t *Table[R]) Rows() []R {
	return Paginate(t.filtered, t.page, t.schema.pageSize())
}

// FieldView is the render state of one filter input.
type FieldView struct {
	Name    string   `json:"name"`
	Param   string   `json:"param"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value"`
}

// View is everything needed to render one table.
type View[R any] struct {
	Name     string      `json:"name"`
	Rows     []R         `json:"rows"`
	PageInfo PageInfo    `json:"page_info"`
	Controls Controls    `json:"controls"`
	Fields   []FieldView `json:"fields"`
	Filtered bool        `json:"filtered"`
}

// View renders the current page. link builds the href for a page number and
// may be nil when no links are needed.
// POST: View.Rows are the current page's rows; controls reflect TotalPages()
func (t *Table[R]) View(link func(page int) string) View[R] {
	info := NewPageInfo(t.page, t.schema.pageSize(), len(t.filtered))
	controls := RenderPageControls(info.TotalPages, t.page).WithLinks(t.page, link)

	fields := make([]FieldView, 0, len(t.schema.Fields))
	for _, f := range t.schema.Fields {
		fields = append(fields, FieldView{
			Name:    f.Name,
			Param:   t.schema.Param(f.Name),
			Label:   f.Label,
			Kind:    f.Kind.String(),
			Options: f.Options,
			Value:   t.filters[f.Name],
		})
	}

	return View[R]{
		Name:     t.schema.Name,
		Rows:     t.Rows(),
		PageInfo: info,
		Controls: controls,
		Fields:   fields,
		Filtered: t.filters.Active(),
	}
}
