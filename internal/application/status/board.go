// Package status turns the outcome of each data fetch into the message shown
// in its page region.
package status

import (
	"sort"
	"sync"
	"time"
)

// State is the outcome of the last fetch for a region.
type State int

const (
	Loading State = iota
	Ready
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// UpdatedLayout formats the "Last updated" timestamp.
const UpdatedLayout = "January 2, 2006, 03:04 PM"

// Region describes the messages of one page region.
type Region struct {
	Name     string
	FailMsg  string
	EmptyMsg string
}

// Regions of the admin pages.
var (
	Logs    = Region{Name: "logs", FailMsg: "Failed to load logs.", EmptyMsg: "No logs for the past 7 days."}
	Stats   = Region{Name: "stats", FailMsg: "Failed to load statistics."}
	Summary = Region{Name: "summary", FailMsg: "Failed to load dashboard summary."}
	Members = Region{Name: "members", FailMsg: "Failed to load members.", EmptyMsg: "No members found."}
)

// Entry is the current display state of one region.
type Entry struct {
	Region    string    `json:"region"`
	State     string    `json:"state"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Err       error     `json:"-"`
}

// Board records fetch outcomes per region. It is safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	loc     *time.Location
	entries map[string]Entry
}

// NewBoard creates a board that formats times in loc.
func NewBoard(loc *time.Location) *Board {
	if loc == nil {
		loc = time.Local
	}
	return &Board{loc: loc, entries: make(map[string]Entry)}
}

// Report records the result of a fetch of n items finished at at.
// POST: a non-nil err always yields Failed, whatever n is; n == 0 yields Empty
// when the region has an empty message, Ready otherwise
func (b *Board) Report(r Region, n int, err error, at time.Time) Entry {
	e := Entry{Region: r.Name}
	switch {
	case err != nil:
		e.State, e.Message, e.Err = Failed.String(), r.FailMsg, err
	case n == 0 && r.EmptyMsg != "":
		e.State, e.Message, e.UpdatedAt = Empty.String(), r.EmptyMsg, at
	default:
		e.State, e.Message, e.UpdatedAt = Ready.String(), b.lastUpdated(at), at
	}

	b.mu.Lock()
	b.entries[r.Name] = e
	b.mu.Unlock()
	return e
}

// Get returns a region's entry, or a Loading entry if nothing was reported yet.
func (b *Board) Get(r Region) Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[r.Name]; ok {
		return e
	}
	return Entry{Region: r.Name, State: Loading.String()}
}

// Entries returns every reported entry ordered by region name.
func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func (b *Board) lastUpdated(at time.Time) string {
	return "Last updated: " + at.In(b.loc).Format(UpdatedLayout)
}
