package projections

import (
	"context"
	"sync"
	"time"

	domainMember "memberdesk/internal/domain/member"
)

// SummaryCards are the three headline numbers.
type SummaryCards struct {
	Total      int    `json:"total"`
	Active     int    `json:"active"`
	MostActive string `json:"most_active"`
}

// TypeSeries is a per-type count for each label.
type TypeSeries struct {
	Labels    []string `json:"labels"`
	Students  []int    `json:"students"`
	Faculty   []int    `json:"faculty"`
	Outsiders []int    `json:"outsiders"`
}

// LabeledCounts is a single-series chart.
type LabeledCounts struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// DashboardSummary is the payload of the admin dashboard.
type DashboardSummary struct {
	Summary        SummaryCards  `json:"summary"`
	OverviewChart  TypeSeries    `json:"overview_chart"`
	StatusChart    LabeledCounts `json:"status_chart"`
	StatusOverview LabeledCounts `json:"status_overview"`
}

// NotAvailable is shown as the most active type when nobody is active.
const NotAvailable = "N/A"

// overviewMonths is the length of the dashboard's monthly charts.
const overviewMonths = 6

// DashboardSummaryDeps holds dependencies for DashboardSummary.
type DashboardSummaryDeps struct {
	MemberStore MemberStore
}

// QueryDashboardSummary computes the dashboard payload.
// PRE: members have been brought up to date by the expiry run
// POST: the overview chart covers the current month and the five before it
// INVARIANT: only Active members count toward type breakdowns
func QueryDashboardSummary(ctx context.Context, at Moment, deps DashboardSummaryDeps) (DashboardSummary, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	now := at.local()

	statusCounts := make(map[string]int)
	activeByType := make(map[string]int)
	for _, m := range members {
		statusCounts[m.Status]++
		if m.Status == domainMember.StatusActive {
			activeByType[m.MemberType]++
		}
	}
	active := statusCounts[domainMember.StatusActive]

	mostActive := NotAvailable
	if active > 0 {
		best := -1
		for _, t := range domainMember.Types {
			if activeByType[t] > best {
				best, mostActive = activeByType[t], t
			}
		}
	}

	overview := TypeSeries{}
	for _, start := range monthStarts(now, overviewMonths) {
		first := start.Format(domainMember.DateLayout)
		last := start.AddDate(0, 1, -1).Format(domainMember.DateLayout)
		counts := make(map[string]int)
		for _, m := range members {
			if m.Status == domainMember.StatusActive && m.StartDate <= last && m.EndDate >= first {
				counts[m.MemberType]++
			}
		}
		overview.Labels = append(overview.Labels, start.Format("Jan"))
		overview.Students = append(overview.Students, counts[domainMember.TypeStudent])
		overview.Faculty = append(overview.Faculty, counts[domainMember.TypeFaculty])
		overview.Outsiders = append(overview.Outsiders, counts[domainMember.TypeOutsider])
	}

	return DashboardSummary{
		Summary:       SummaryCards{Total: len(members), Active: active, MostActive: mostActive},
		OverviewChart: overview,
		StatusChart: LabeledCounts{
			Labels: []string{domainMember.TypeStudent, domainMember.TypeFaculty, domainMember.TypeOutsider},
			Values: []int{activeByType[domainMember.TypeStudent], activeByType[domainMember.TypeFaculty], activeByType[domainMember.TypeOutsider]},
		},
		StatusOverview: LabeledCounts{
			Labels: []string{domainMember.StatusActive, domainMember.StatusInactive, domainMember.StatusExpired},
			Values: []int{active, statusCounts[domainMember.StatusInactive], statusCounts[domainMember.StatusExpired]},
		},
	}, nil
}

// SummaryCache holds the last dashboard summary for a fixed time-to-live.
// It is safe for concurrent use.
type SummaryCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	value    DashboardSummary
	storedAt time.Time
	valid    bool
}

// NewSummaryCache creates a cache. A zero ttl disables caching.
func NewSummaryCache(ttl time.Duration, now func() time.Time) *SummaryCache {
	if now == nil {
		now = time.Now
	}
	return &SummaryCache{ttl: ttl, now: now}
}

// Get returns the cached summary, computing it with load when the entry is missing or stale.
// A failed load leaves the previous entry untouched.
func (c *SummaryCache) Get(ctx context.Context, load func(context.Context) (DashboardSummary, error)) (DashboardSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.valid && now.Sub(c.storedAt) < c.ttl {
		return c.value, nil
	}
	v, err := load(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	c.value, c.storedAt, c.valid = v, now, true
	return v, nil
}

// Invalidate drops the cached entry so the next Get recomputes.
func (c *SummaryCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
