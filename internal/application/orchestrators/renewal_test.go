package orchestrators

import (
	"context"
	"errors"
	"testing"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
	"memberdesk/internal/domain/renewal"
)

func pendingRequest(id, memberID, plan string) renewal.Request {
	return renewal.Request{ID: id, MemberID: memberID, RequestedPlan: plan, Status: renewal.StatusPending, RequestedAt: testNow}
}

func TestExecuteHandleRenewal_Approve(t *testing.T) {
	members := newMockMemberStore(sampleMember("m1"))
	renewals := newMockRenewalStore(pendingRequest("r1", "m1", member.PlanDaily))
	logs := &mockLogStore{}
	deps := HandleRenewalDeps{RenewalStore: renewals, MemberStore: members, LogStore: logs, Prices: testPrices, Clock: testClock()}

	req, err := ExecuteHandleRenewal(context.Background(), HandleRenewalInput{RequestID: "r1", Status: renewal.StatusApproved}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != renewal.StatusApproved || renewals.requests["r1"].Status != renewal.StatusApproved {
		t.Errorf("request not approved: %+v", req)
	}
	m := members.members["m1"]
	if m.GymPlan != member.PlanDaily || m.Status != member.StatusActive || m.PaymentStatus != member.PaymentPaid {
		t.Errorf("renewal not applied: %+v", m)
	}
	if m.StartDate != "2026-03-10" || m.EndDate != "2026-03-11" || m.PricePaid != 50 || !m.LastPaymentAt.Equal(testNow) {
		t.Errorf("unexpected period/payment: %s..%s %v %v", m.StartDate, m.EndDate, m.PricePaid, m.LastPaymentAt)
	}
	if len(logs.entries) != 1 || logs.entries[0].ActionType != membershiplog.ActionRenewalApproved ||
		logs.entries[0].Remarks != "Renewal approved. Plan updated to Daily, payment status Paid." {
		t.Errorf("unexpected log %+v", logs.entries)
	}
}

func TestExecuteHandleRenewal_AtomicWrites(t *testing.T) {
	errDisk := errors.New("disk full")
	tests := []struct {
		name      string
		logErr    error
		wantErr   bool
		wantState string
	}{
		{"log write fails", errDisk, true, renewal.StatusPending},
		{"all writes succeed", nil, false, renewal.StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleMember("m1")
			members := newMockMemberStore(before)
			renewals := newMockRenewalStore(pendingRequest("r1", "m1", member.PlanDaily))
			logs := &mockLogStore{err: tt.logErr}
			uow := &mockUnitOfWork{members: members, renewals: renewals, logs: logs}
			deps := HandleRenewalDeps{RenewalStore: renewals, MemberStore: members, LogStore: logs, Prices: testPrices, Clock: testClock(), Tx: uow}

			_, err := ExecuteHandleRenewal(context.Background(), HandleRenewalInput{RequestID: "r1", Status: renewal.StatusApproved}, deps)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errDisk) {
				t.Errorf("expected the log error to surface, got %v", err)
			}
			if uow.calls != 1 {
				t.Errorf("expected one unit of work, got %d", uow.calls)
			}
			if got := renewals.requests["r1"].Status; got != tt.wantState {
				t.Errorf("request status = %s, want %s", got, tt.wantState)
			}
			if tt.wantErr {
				if members.members["m1"] != before || members.saves != 0 {
					t.Errorf("member must be untouched after a failed approval: %+v", members.members["m1"])
				}
				if len(logs.entries) != 0 {
					t.Errorf("unexpected log entries %+v", logs.entries)
				}
				return
			}
			if members.members["m1"].Status != member.StatusActive || len(logs.entries) != 1 {
				t.Errorf("approval not committed: %+v %+v", members.members["m1"], logs.entries)
			}
		})
	}
}

func TestExecuteHandleRenewal_Deny(t *testing.T) {
	before := sampleMember("m1")
	members := newMockMemberStore(before)
	renewals := newMockRenewalStore(pendingRequest("r1", "m1", member.PlanMonthly))
	logs := &mockLogStore{}
	deps := HandleRenewalDeps{RenewalStore: renewals, MemberStore: members, LogStore: logs, Prices: testPrices, Clock: testClock()}

	if _, err := ExecuteHandleRenewal(context.Background(), HandleRenewalInput{RequestID: "r1", Status: renewal.StatusDenied}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if members.members["m1"] != before {
		t.Error("denial must not touch the member")
	}
	if len(logs.entries) != 1 || logs.entries[0].Remarks != "Renewal request for Monthly plan denied." {
		t.Errorf("unexpected log %+v", logs.entries)
	}
}

func TestExecuteHandleRenewal_Errors(t *testing.T) {
	decided := pendingRequest("done", "m1", member.PlanDaily)
	decided.Status = renewal.StatusDenied
	tests := []struct {
		name    string
		input   HandleRenewalInput
		wantErr error
	}{
		{"invalid status", HandleRenewalInput{RequestID: "r1", Status: "Maybe"}, renewal.ErrInvalidStatus},
		{"missing request", HandleRenewalInput{RequestID: "nope", Status: renewal.StatusApproved}, ErrRenewalTargetNotFound},
		{"missing member", HandleRenewalInput{RequestID: "orphan", Status: renewal.StatusApproved}, ErrRenewalTargetNotFound},
		{"already decided", HandleRenewalInput{RequestID: "done", Status: renewal.StatusApproved}, renewal.ErrNotPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := HandleRenewalDeps{
				RenewalStore: newMockRenewalStore(pendingRequest("r1", "m1", member.PlanDaily), pendingRequest("orphan", "ghost", member.PlanDaily), decided),
				MemberStore:  newMockMemberStore(sampleMember("m1")),
				LogStore:     &mockLogStore{},
				Prices:       testPrices,
				Clock:        testClock(),
			}
			if _, err := ExecuteHandleRenewal(context.Background(), tt.input, deps); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecuteDeleteRenewal(t *testing.T) {
	renewals := newMockRenewalStore(pendingRequest("r1", "m1", member.PlanDaily))
	deps := DeleteRenewalDeps{RenewalStore: renewals}
	if err := ExecuteDeleteRenewal(context.Background(), "r1", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteDeleteRenewal(context.Background(), "r1", deps); !errors.Is(err, renewal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExecuteRequestRenewal(t *testing.T) {
	members := newMockMemberStore(sampleMember("m1"))
	renewals := newMockRenewalStore()
	deps := RequestRenewalDeps{MemberStore: members, RenewalStore: renewals, Clock: testClock()}
	ctx := context.Background()

	if _, err := ExecuteRequestRenewal(ctx, RequestRenewalInput{MemberID: "m1", RequestedPlan: member.PlanAnnual}, deps); !errors.Is(err, renewal.ErrInvalidPlan) {
		t.Errorf("Annual: err = %v, want ErrInvalidPlan", err)
	}
	req, err := ExecuteRequestRenewal(ctx, RequestRenewalInput{MemberID: "m1", RequestedPlan: member.PlanMonthly}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.IsPending() || !req.RequestedAt.Equal(testNow) {
		t.Errorf("unexpected request %+v", req)
	}
	if _, err := ExecuteRequestRenewal(ctx, RequestRenewalInput{MemberID: "m1", RequestedPlan: member.PlanDaily}, deps); !errors.Is(err, renewal.ErrAlreadyPending) {
		t.Errorf("second request: err = %v, want ErrAlreadyPending", err)
	}
	if _, err := ExecuteRequestRenewal(ctx, RequestRenewalInput{MemberID: "ghost", RequestedPlan: member.PlanDaily}, deps); !errors.Is(err, member.ErrNotFound) {
		t.Errorf("unknown member: err = %v", err)
	}
}
