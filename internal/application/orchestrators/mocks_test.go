package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memberdesk/internal/domain/account"
	"memberdesk/internal/domain/attendance"
	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
	"memberdesk/internal/domain/pricing"
	"memberdesk/internal/domain/renewal"
)

var testNow = time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)

// testClock pins "now" to 2026-03-10 12:00 in Manila.
func testClock() Clock {
	loc := time.FixedZone("PHT", 8*60*60)
	return Clock{Now: func() time.Time { return testNow }, Location: loc}
}

// mockMemberStore implements MemberStore in memory.
type mockMemberStore struct {
	members map[string]member.Member
	saves   int
}

func newMockMemberStore(ms ...member.Member) *mockMemberStore {
	s := &mockMemberStore{members: make(map[string]member.Member)}
	for _, m := range ms {
		s.members[m.ID] = m
	}
	return s
}

func (s *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("id %q: %w", id, member.ErrNotFound)
	}
	return m, nil
}

func (s *mockMemberStore) GetByEmail(_ context.Context, email string) (member.Member, error) {
	for _, m := range s.members {
		if m.Email != "" && strings.EqualFold(m.Email, email) {
			return m, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (s *mockMemberStore) GetByUniqueCode(_ context.Context, code string) (member.Member, error) {
	for _, m := range s.members {
		if m.UniqueCode == code {
			return m, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (s *mockMemberStore) Save(_ context.Context, m member.Member) error {
	s.members[m.ID] = m
	s.saves++
	return nil
}

func (s *mockMemberStore) Delete(_ context.Context, id string) error {
	if _, ok := s.members[id]; !ok {
		return member.ErrNotFound
	}
	delete(s.members, id)
	return nil
}

func (s *mockMemberStore) ListPastEnd(_ context.Context, today string) ([]member.Member, error) {
	var out []member.Member
	for _, m := range s.members {
		if m.EndDate < today && m.Status != member.StatusExpired {
			out = append(out, m)
		}
	}
	return out, nil
}

// mockLogStore records appended entries. A non-nil err fails every append.
type mockLogStore struct {
	entries []membershiplog.Entry
	err     error
}

func (s *mockLogStore) Append(_ context.Context, e membershiplog.Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

// mockUnitOfWork stages writes on copies of the stores and applies them
// only when fn succeeds.
type mockUnitOfWork struct {
	members  *mockMemberStore
	renewals *mockRenewalStore
	logs     *mockLogStore
	calls    int
}

func (u *mockUnitOfWork) Do(_ context.Context, fn func(WriteStores) error) error {
	u.calls++
	members := newMockMemberStore()
	for id, m := range u.members.members {
		members.members[id] = m
	}
	renewals := newMockRenewalStore()
	if u.renewals != nil {
		for id, r := range u.renewals.requests {
			renewals.requests[id] = r
		}
	}
	logs := &mockLogStore{err: u.logs.err}

	if err := fn(WriteStores{Members: members, Renewals: renewals, Logs: logs}); err != nil {
		return err
	}
	u.members.members = members.members
	u.members.saves += members.saves
	if u.renewals != nil {
		u.renewals.requests = renewals.requests
	}
	u.logs.entries = append(u.logs.entries, logs.entries...)
	return nil
}

// mockPrices serves a fixed price list.
type mockPrices map[string]float64

func (p mockPrices) Get(_ context.Context, memberType, plan string) (pricing.Price, error) {
	amount, ok := p[memberType+"/"+plan]
	if !ok {
		return pricing.Price{}, pricing.ErrNotFound
	}
	return pricing.Price{MemberType: memberType, Plan: plan, Amount: amount}, nil
}

var testPrices = mockPrices{
	"Student/Daily":    50,
	"Student/Monthly":  500,
	"Faculty/Monthly":  700,
	"Outsider/Monthly": 1000,
}

// mockRenewalStore implements RenewalStore in memory.
type mockRenewalStore struct {
	requests map[string]renewal.Request
}

func newMockRenewalStore(rs ...renewal.Request) *mockRenewalStore {
	s := &mockRenewalStore{requests: make(map[string]renewal.Request)}
	for _, r := range rs {
		s.requests[r.ID] = r
	}
	return s
}

func (s *mockRenewalStore) GetByID(_ context.Context, id string) (renewal.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return renewal.Request{}, fmt.Errorf("id %q: %w", id, renewal.ErrNotFound)
	}
	return r, nil
}

func (s *mockRenewalStore) Save(_ context.Context, r renewal.Request) error {
	s.requests[r.ID] = r
	return nil
}

func (s *mockRenewalStore) Delete(_ context.Context, id string) error {
	if _, ok := s.requests[id]; !ok {
		return renewal.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *mockRenewalStore) HasPending(_ context.Context, memberID string) (bool, error) {
	for _, r := range s.requests {
		if r.MemberID == memberID && r.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

// mockAttendanceStore implements AttendanceStore in memory.
type mockAttendanceStore struct {
	records map[string]attendance.Attendance
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{records: make(map[string]attendance.Attendance)}
}

func (s *mockAttendanceStore) GetForDay(_ context.Context, memberID, date string) (attendance.Attendance, error) {
	a, ok := s.records[memberID+"/"+date]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	return a, nil
}

func (s *mockAttendanceStore) Save(_ context.Context, a attendance.Attendance) error {
	s.records[a.MemberID+"/"+a.Date] = a
	return nil
}

// mockAccountStore implements AccountStore in memory.
type mockAccountStore struct {
	accounts map[string]account.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (s *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := s.accounts[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (s *mockAccountStore) Save(_ context.Context, a account.Account) error {
	s.accounts[a.Email] = a
	return nil
}

func (s *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(s.accounts), nil
}

func sampleMember(id string) member.Member {
	return member.Member{
		ID:            id,
		UniqueCode:    "GYM-" + strings.ToUpper(id),
		FirstName:     "Ana",
		LastName:      "Reyes",
		MemberType:    member.TypeStudent,
		StudentNumber: "2023-0001",
		GymPlan:       member.PlanMonthly,
		StartDate:     "2026-02-01",
		EndDate:       "2026-03-03",
		Status:        member.StatusInactive,
		PaymentStatus: member.PaymentPaid,
		PricePaid:     500,
		RegisteredAt:  testNow.AddDate(0, -1, 0),
	}
}
