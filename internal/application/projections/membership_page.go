package projections

import (
	"context"
	"errors"
	"time"

	domainAttendance "memberdesk/internal/domain/attendance"
	domainMember "memberdesk/internal/domain/member"
	domainPricing "memberdesk/internal/domain/pricing"
	domainRenewal "memberdesk/internal/domain/renewal"
)

// recentVisitLimit is how many past visits the membership page lists.
const recentVisitLimit = 5

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	GetForDay(ctx context.Context, memberID, date string) (domainAttendance.Attendance, error)
	ListByMemberID(ctx context.Context, memberID string, limit int) ([]domainAttendance.Attendance, error)
}

// PendingChecker reports whether a member has a pending renewal request.
type PendingChecker interface {
	HasPending(ctx context.Context, memberID string) (bool, error)
}

// PriceLookup resolves a plan's price for a member type.
type PriceLookup interface {
	Get(ctx context.Context, memberType, plan string) (domainPricing.Price, error)
}

// RenewalOption is a plan a member may request, with what it would cost them.
type RenewalOption struct {
	Plan   string
	Amount float64
	Priced bool
}

// Visit is one past attendance record.
type Visit struct {
	Date    string
	TimeIn  time.Time
	TimeOut time.Time
	Minutes int
}

// MembershipPage is the member's own status page.
type MembershipPage struct {
	Member            MemberDetail
	Expired           bool
	DaysLeft          int
	Attendance        domainAttendance.Status
	Buttons           domainAttendance.ButtonState
	HasPendingRenewal bool
	RenewalOptions    []RenewalOption
	RecentVisits      []Visit
}

// MembershipPageDeps holds dependencies for MembershipPage.
type MembershipPageDeps struct {
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
	RenewalStore    PendingChecker
	Prices          PriceLookup
}

// QueryMembershipPage assembles a member's status page.
// PRE: memberID is the logged-in member
// POST: DaysLeft is 0 once the end date has passed
func QueryMembershipPage(ctx context.Context, memberID string, at Moment, deps MembershipPageDeps) (MembershipPage, error) {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return MembershipPage{}, err
	}
	now := at.local()
	today := now.Format(domainMember.DateLayout)

	var todayRec *domainAttendance.Attendance
	rec, err := deps.AttendanceStore.GetForDay(ctx, memberID, today)
	switch {
	case err == nil:
		todayRec = &rec
	case !errors.Is(err, domainAttendance.ErrNotFound):
		return MembershipPage{}, err
	}
	status := domainAttendance.StatusOf(todayRec)

	pending, err := deps.RenewalStore.HasPending(ctx, memberID)
	if err != nil {
		return MembershipPage{}, err
	}

	options := make([]RenewalOption, 0, len(domainRenewal.RequestablePlans))
	for _, plan := range domainRenewal.RequestablePlans {
		opt := RenewalOption{Plan: plan}
		if p, err := deps.Prices.Get(ctx, m.MemberType, plan); err == nil {
			opt.Amount, opt.Priced = p.Amount, true
		}
		options = append(options, opt)
	}

	history, err := deps.AttendanceStore.ListByMemberID(ctx, memberID, recentVisitLimit)
	if err != nil {
		return MembershipPage{}, err
	}
	visits := make([]Visit, 0, len(history))
	for _, a := range history {
		visits = append(visits, Visit{
			Date:    a.Date,
			TimeIn:  a.TimeIn.In(now.Location()),
			TimeOut: a.TimeOut.In(now.Location()),
			Minutes: int(a.Duration(now).Minutes()),
		})
	}

	return MembershipPage{
		Member:            MemberDetailOf(m),
		Expired:           m.IsExpired() || m.IsPastEnd(today),
		DaysLeft:          daysLeft(today, m.EndDate),
		Attendance:        status,
		Buttons:           status.Buttons(),
		HasPendingRenewal: pending,
		RenewalOptions:    options,
		RecentVisits:      visits,
	}, nil
}

// daysLeft counts the days from today through end, or 0 when end has passed or is unreadable.
func daysLeft(today, end string) int {
	t, err := time.Parse(domainMember.DateLayout, today)
	if err != nil {
		return 0
	}
	e, err := time.Parse(domainMember.DateLayout, end)
	if err != nil || e.Before(t) {
		return 0
	}
	return int(e.Sub(t).Hours() / 24)
}
