package tableview

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseFilterState extracts the schema's filter fields from URL query values.
// PRE: none
// POST: returns only keys the schema names; values are trimmed
func ParseFilterState[R any](q url.Values, schema Schema[R]) FilterState {
	state := make(FilterState, len(schema.Fields))
	for _, f := range schema.Fields {
		if v := strings.TrimSpace(q.Get(schema.Param(f.Name))); v != "" {
			state[f.Name] = v
		}
	}
	return state
}

// ParsePage extracts the schema's page number from URL query values.
// POST: returns >= 1; invalid or missing values yield 1
func ParsePage[R any](q url.Values, schema Schema[R]) int {
	page, err := strconv.Atoi(q.Get(schema.PageParam()))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}

// Load applies filter and page state from URL query values.
// Filters are applied first, so a filter change without a page parameter
// always lands on page 1.
func (t *Table[R]) Load(q url.Values) {
	t.SetFilters(ParseFilterState(q, t.schema))
	t.GoTo(ParsePage(q, t.schema))
}

// Values encodes the table's filter and page state as query parameters.
// Empty filters and page 1 are omitted.
func (t *Table[R]) Values() url.Values {
	v := url.Values{}
	for _, f := range t.schema.Fields {
		if val := t.filters[f.Name]; val != "" {
			v.Set(t.schema.Param(f.Name), val)
		}
	}
	if t.page > 1 {
		v.Set(t.schema.PageParam(), strconv.Itoa(t.page))
	}
	return v
}

// StateSource is anything that can encode its state as query parameters.
type StateSource interface {
	Values() url.Values
}

// PageLink returns a link builder for one table's page controls that keeps
// the state of every other table on the same page.
// PRE: self is included in others or not; either way its page param is overridden
func PageLink[R any](path string, self *Table[R], others ...StateSource) func(page int) string {
	base := url.Values{}
	for _, o := range others {
		for k, vs := range o.Values() {
			base[k] = vs
		}
	}
	for k, vs := range self.Values() {
		base[k] = vs
	}
	param := self.schema.PageParam()
	return func(page int) string {
		v := url.Values{}
		for k, vs := range base {
			v[k] = vs
		}
		if page > 1 {
			v.Set(param, strconv.Itoa(page))
		} else {
			v.Del(param)
		}
		if len(v) == 0 {
			return path
		}
		return path + "?" + v.Encode()
	}
}
