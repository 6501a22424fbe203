package projections

import (
	"context"
	"time"

	domainMember "memberdesk/internal/domain/member"
	domainLog "memberdesk/internal/domain/membershiplog"
	domainRenewal "memberdesk/internal/domain/renewal"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context) ([]domainMember.Member, error)
}

// RenewalStore interface for renewal request queries.
type RenewalStore interface {
	List(ctx context.Context) ([]domainRenewal.Request, error)
}

// LogStore interface for membership log queries.
type LogStore interface {
	ListSince(ctx context.Context, since time.Time) ([]domainLog.Entry, error)
}

// Moment pins a query to an instant in the gym's time zone.
type Moment struct {
	Now      time.Time
	Location *time.Location
}

// local returns Now in the gym's time zone.
func (m Moment) local() time.Time {
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.In(loc)
}

// startOfDay returns local midnight of t's day.
func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// monthStarts returns the first instant of each of the n months ending with t's month, oldest first.
func monthStarts(t time.Time, n int) []time.Time {
	y, mo, _ := t.Date()
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = time.Date(y, mo-time.Month(n-1-i), 1, 0, 0, 0, 0, t.Location())
	}
	return out
}
