// Package tableview implements filtering and pagination over a fixed set of
// table rows.
//
// A Schema names the queryable fields of a row type explicitly, so filter
// logic never depends on column positions in the rendered table. A Table owns
// one row set together with its filter and page state; the package-level
// ApplyFilters, Paginate and RenderPageControls functions are the pure
// building blocks it is made of.
package tableview

import "maps"

// FieldKind selects how a filter value is matched against a row field.
type FieldKind uint8

const (
	// Text fields match by case-insensitive substring containment.
	Text FieldKind = iota
	// Enum fields match by exact string equality.
	Enum
)

// String returns the kind name used in templates and JSON.
func (k FieldKind) String() string {
	if k == Enum {
		return "enum"
	}
	return "text"
}

// Field is one named, queryable value of a row.
type Field[R any] struct {
	Name    string // filter key and query parameter suffix
	Label   string // column heading / filter placeholder
	Kind    FieldKind
	Options []string // allowed values of an Enum field, in display order
	Value   func(R) string
}

// Schema is the field-accessor mapping for one table.
type Schema[R any] struct {
	Name     string // table name, used in logs and JSON
	Prefix   string // query parameter prefix; keeps two tables on one page apart
	PageSize int
	Fields   []Field[R]
}

// Param returns the query parameter that carries the named filter.
func (s Schema[R]) Param(name string) string {
	return s.Prefix + name
}

// PageParam returns the query parameter that carries the current page.
func (s Schema[R]) PageParam() string {
	return s.Prefix + "page"
}

// pageSize returns the configured page size or DefaultPageSize.
func (s Schema[R]) pageSize() int {
	if s.PageSize < 1 {
		return DefaultPageSize
	}
	return s.PageSize
}

// FilterState holds the current value of each filter field, keyed by field name.
// A missing or empty value means the field is not filtering.
type FilterState map[string]string

// Active reports whether any filter value is non-empty.
func (f FilterState) Active() bool {
	for _, v := range f {
		if v != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the state.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	maps.Copy(out, f)
	return out
}
