package tableview

import "strings"

// ApplyFilters returns the rows that match every active filter in state.
// PRE: every schema field has a non-nil Value accessor
// POST: result is a subset of rows in their original relative order; rows is not modified
// INVARIANT: an empty filter value matches every row
func ApplyFilters[R any](rows []R, schema Schema[R], state FilterState) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if matches(row, schema, state) {
			out = append(out, row)
		}
	}
	return out
}

// matches reports whether a single row passes all active predicates.
// Filter keys not named by the schema are ignored.
func matches[R any](row R, schema Schema[R], state FilterState) bool {
	for _, f := range schema.Fields {
		want := state[f.Name]
		if want == "" {
			continue
		}
		got := f.Value(row)
		switch f.Kind {
		case Enum:
			if got != want {
				return false
			}
		default:
			if !strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
				return false
			}
		}
	}
	return true
}
