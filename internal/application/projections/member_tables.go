package projections

import (
	"context"
	"net/url"

	"memberdesk/internal/application/tableview"
	domainMember "memberdesk/internal/domain/member"
	domainRenewal "memberdesk/internal/domain/renewal"
)

// MembersPath is the page both tables link back to.
const MembersPath = "/admin/members"

// MemberRow is one line of the registered-members table and of members-json.
type MemberRow struct {
	MemberID      string `json:"member_id"`
	UniqueCode    string `json:"unique_code"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MemberType    string `json:"member_type"`
	GymPlan       string `json:"gym_plan"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// MemberRowOf flattens a member for display.
func MemberRowOf(m domainMember.Member) MemberRow {
	return MemberRow{
		MemberID:      m.ID,
		UniqueCode:    m.UniqueCode,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		MemberType:    m.MemberType,
		GymPlan:       m.GymPlan,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		Email:         m.Email,
		ContactNumber: m.ContactNumber,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
	}
}

// MembersSchema is the filter schema of the registered-members table.
var MembersSchema = tableview.Schema[MemberRow]{
	Name:     "members",
	PageSize: tableview.DefaultPageSize,
	Fields: []tableview.Field[MemberRow]{
		{Name: "id", Label: "Member ID", Kind: tableview.Text, Value: func(r MemberRow) string { return r.UniqueCode }},
		{Name: "type", Label: "Type", Kind: tableview.Enum, Options: domainMember.Types, Value: func(r MemberRow) string { return r.MemberType }},
		{Name: "plan", Label: "Plan", Kind: tableview.Enum, Options: domainMember.Plans, Value: func(r MemberRow) string { return r.GymPlan }},
		{Name: "status", Label: "Status", Kind: tableview.Enum, Options: domainMember.Statuses, Value: func(r MemberRow) string { return r.Status }},
	},
}

// RenewalRow is one line of the renewal-requests table and of renewals-json.
// Member fields read "-" when the member no longer exists.
type RenewalRow struct {
	ID            string `json:"id"`
	MemberID      string `json:"member_id"`
	UniqueCode    string `json:"unique_code"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MemberType    string `json:"member_type"`
	CurrentPlan   string `json:"current_plan"`
	RequestedPlan string `json:"requested_plan"`
	Status        string `json:"status"`
	RequestedAt   string `json:"requested_at"`
}

// IsPending reports whether the request still awaits a decision.
func (r RenewalRow) IsPending() bool {
	return r.Status == domainRenewal.StatusPending
}

// RenewalsSchema is the filter schema of the renewal-requests table.
var RenewalsSchema = tableview.Schema[RenewalRow]{
	Name:     "renewals",
	Prefix:   "r_",
	PageSize: tableview.DefaultPageSize,
	Fields: []tableview.Field[RenewalRow]{
		{Name: "id", Label: "Member ID", Kind: tableview.Text, Value: func(r RenewalRow) string { return r.UniqueCode }},
		{Name: "type", Label: "Type", Kind: tableview.Enum, Options: domainMember.Types, Value: func(r RenewalRow) string { return r.MemberType }},
		{Name: "plan", Label: "Current Plan", Kind: tableview.Enum, Options: domainMember.Plans, Value: func(r RenewalRow) string { return r.CurrentPlan }},
		{Name: "status", Label: "Status", Kind: tableview.Enum, Options: domainRenewal.Statuses, Value: func(r RenewalRow) string { return r.Status }},
	},
}

// MemberRowsDeps holds dependencies for the row queries.
type MemberRowsDeps struct {
	MemberStore  MemberStore
	RenewalStore RenewalStore
}

// QueryMemberRows returns every member in registration order.
// POST: never nil
func QueryMemberRows(ctx context.Context, deps MemberRowsDeps) ([]MemberRow, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, MemberRowOf(m))
	}
	return rows, nil
}

// QueryRenewalRows returns every renewal request, newest first, joined with its member.
// POST: never nil
func QueryRenewalRows(ctx context.Context, deps MemberRowsDeps) ([]RenewalRow, error) {
	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domainMember.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	requests, err := deps.RenewalStore.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]RenewalRow, 0, len(requests))
	for _, r := range requests {
		row := RenewalRow{
			ID:            r.ID,
			MemberID:      r.MemberID,
			UniqueCode:    "-",
			FirstName:     "-",
			MemberType:    "-",
			CurrentPlan:   "-",
			RequestedPlan: r.RequestedPlan,
			Status:        r.Status,
			RequestedAt:   r.RequestedAt.Format("2006-01-02 15:04"),
		}
		if m, ok := byID[r.MemberID]; ok {
			row.UniqueCode = m.UniqueCode
			row.FirstName = m.FirstName
			row.LastName = m.LastName
			row.MemberType = m.MemberType
			row.CurrentPlan = m.GymPlan
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MembersPageResult carries both tables of the members page.
type MembersPageResult struct {
	Members         tableview.View[MemberRow]
	Renewals        tableview.View[RenewalRow]
	PendingRenewals int
}

// QueryMembersPage builds the two independent tables of the members page from the query string.
// PRE: q holds the members table's unprefixed and the renewal table's r_-prefixed parameters
// POST: each table's page links keep the other table's filters and page
func QueryMembersPage(ctx context.Context, q url.Values, deps MemberRowsDeps) (MembersPageResult, error) {
	memberRows, err := QueryMemberRows(ctx, deps)
	if err != nil {
		return MembersPageResult{}, err
	}
	renewalRows, err := QueryRenewalRows(ctx, deps)
	if err != nil {
		return MembersPageResult{}, err
	}

	members := tableview.New(MembersSchema, memberRows)
	members.Load(q)
	renewals := tableview.New(RenewalsSchema, renewalRows)
	renewals.Load(q)

	pending := 0
	for _, r := range renewalRows {
		if r.IsPending() {
			pending++
		}
	}

	return MembersPageResult{
		Members:         members.View(tableview.PageLink(MembersPath, members, renewals)),
		Renewals:        renewals.View(tableview.PageLink(MembersPath, renewals, members)),
		PendingRenewals: pending,
	}, nil
}
