package projections

import (
	"context"
	"time"

	domainMember "memberdesk/internal/domain/member"
)

// RevenueSeries is an amount per label.
type RevenueSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// StatisticsSummary is the payload of the statistics page.
type StatisticsSummary struct {
	Summary            SummaryCards  `json:"summary"`
	OverviewChart      TypeSeries    `json:"overview_chart"`
	StatusOverview     LabeledCounts `json:"status_overview"`
	StatusChart        LabeledCounts `json:"status_chart"`
	PaymentStatusChart LabeledCounts `json:"payment_status_chart"`
	WeeklyRevenue      RevenueSeries `json:"weekly_revenue"`
}

// StatisticsDeps holds dependencies for the statistics queries.
type StatisticsDeps struct {
	MemberStore MemberStore
}

// QueryStatisticsSummary computes registrations, status breakdowns and weekly revenue.
// POST: the overview chart counts registrations per calendar month over six months
func QueryStatisticsSummary(ctx context.Context, at Moment, deps StatisticsDeps) (StatisticsSummary, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return StatisticsSummary{}, err
	}
	now := at.local()

	overview := TypeSeries{}
	typeTotals := make(map[string]int)
	for _, start := range monthStarts(now, overviewMonths) {
		end := start.AddDate(0, 1, 0)
		counts := make(map[string]int)
		for _, m := range members {
			reg := m.RegisteredAt.In(now.Location())
			if !reg.Before(start) && reg.Before(end) {
				counts[m.MemberType]++
				typeTotals[m.MemberType]++
			}
		}
		overview.Labels = append(overview.Labels, start.Format("2006-01"))
		overview.Students = append(overview.Students, counts[domainMember.TypeStudent])
		overview.Faculty = append(overview.Faculty, counts[domainMember.TypeFaculty])
		overview.Outsiders = append(overview.Outsiders, counts[domainMember.TypeOutsider])
	}

	statusCounts := make(map[string]int)
	paymentCounts := make(map[string]int)
	for _, m := range members {
		statusCounts[m.Status]++
		paymentCounts[m.PaymentStatus]++
	}

	typeLabels := []string{"Students", "Faculty", "Outsiders"}
	typeValues := []int{typeTotals[domainMember.TypeStudent], typeTotals[domainMember.TypeFaculty], typeTotals[domainMember.TypeOutsider]}
	mostActive := NotAvailable
	best := 0
	for i, v := range typeValues {
		if v > best {
			best, mostActive = v, typeLabels[i]
		}
	}

	return StatisticsSummary{
		Summary:       SummaryCards{Total: len(members), Active: statusCounts[domainMember.StatusActive], MostActive: mostActive},
		OverviewChart: overview,
		StatusOverview: LabeledCounts{
			Labels: []string{domainMember.StatusActive, domainMember.StatusExpired, domainMember.StatusPending},
			Values: []int{statusCounts[domainMember.StatusActive], statusCounts[domainMember.StatusExpired], statusCounts[domainMember.StatusPending]},
		},
		StatusChart: LabeledCounts{Labels: typeLabels, Values: typeValues},
		PaymentStatusChart: LabeledCounts{
			Labels: []string{domainMember.PaymentPaid, domainMember.PaymentUnpaid, domainMember.PaymentOverdue},
			Values: []int{paymentCounts[domainMember.PaymentPaid], paymentCounts[domainMember.PaymentUnpaid], paymentCounts[domainMember.PaymentOverdue]},
		},
		WeeklyRevenue: weeklyRevenue(members, now),
	}, nil
}

// weeklyRevenue sums what Paid members paid on each of the last seven days, today last.
// INVARIANT: each member's payment lands in at most one day
func weeklyRevenue(members []domainMember.Member, now time.Time) RevenueSeries {
	today := startOfDay(now)
	series := RevenueSeries{Labels: make([]string, 7), Values: make([]float64, 7)}
	for i := range 7 {
		series.Labels[i] = today.AddDate(0, 0, i-6).Format("Mon")
	}
	for _, m := range members {
		if m.PaymentStatus != domainMember.PaymentPaid {
			continue
		}
		paid := startOfDay(m.PaymentTime().In(now.Location()))
		for i := range 7 {
			if paid.Equal(today.AddDate(0, 0, i-6)) {
				series.Values[i] += m.PricePaid
				break
			}
		}
	}
	return series
}

// MemberRevenueRow is one member in the revenue listing.
type MemberRevenueRow struct {
	ID            string  `json:"id"`
	UniqueCode    string  `json:"unique_code"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PricePaid     float64 `json:"price_paid"`
	MemberType    string  `json:"member_type"`
	GymPlan       string  `json:"gym_plan"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
}

// RevenueStats are the revenue cards.
type RevenueStats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	DailyRevenue   float64 `json:"daily_revenue"`
	TotalMembers   int     `json:"total_members"`
	ActiveMembers  int     `json:"active_members"`
}

// MembersStatistics is the payload of the revenue page.
type MembersStatistics struct {
	Members       []MemberRevenueRow `json:"members"`
	Stats         RevenueStats       `json:"stats"`
	WeeklyRevenue RevenueSeries      `json:"weekly_revenue"`
}

// QueryMembersStatistics computes revenue totals and lists every member with their payment time.
// POST: only Paid members contribute revenue; month and day windows are gym-local
func QueryMembersStatistics(ctx context.Context, at Moment, deps StatisticsDeps) (MembersStatistics, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return MembersStatistics{}, err
	}
	now := at.local()
	dayStart := startOfDay(now)
	monthStart := monthStarts(now, 1)[0]

	out := MembersStatistics{
		Members:       make([]MemberRevenueRow, 0, len(members)),
		Stats:         RevenueStats{TotalMembers: len(members)},
		WeeklyRevenue: weeklyRevenue(members, now),
	}
	for _, m := range members {
		paidAt := m.PaymentTime().In(now.Location())
		if m.PaymentStatus == domainMember.PaymentPaid {
			out.Stats.TotalRevenue += m.PricePaid
			if !paidAt.Before(monthStart) {
				out.Stats.MonthlyRevenue += m.PricePaid
			}
			if !paidAt.Before(dayStart) {
				out.Stats.DailyRevenue += m.PricePaid
			}
		}
		if m.Status == domainMember.StatusActive {
			out.Stats.ActiveMembers++
		}
		out.Members = append(out.Members, MemberRevenueRow{
			ID:            m.ID,
			UniqueCode:    m.UniqueCode,
			FirstName:     m.FirstName,
			LastName:      m.LastName,
			PricePaid:     m.PricePaid,
			MemberType:    m.MemberType,
			GymPlan:       m.GymPlan,
			Status:        m.Status,
			PaymentStatus: m.PaymentStatus,
			CreatedAt:     paidAt.Format(TimestampLayout),
		})
	}
	return out, nil
}
