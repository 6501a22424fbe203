package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
	"memberdesk/internal/domain/renewal"
)

// ErrRenewalTargetNotFound is returned when either the request or its member is missing.
var ErrRenewalTargetNotFound = errors.New("request or member not found")

// HandleRenewalInput carries an admin decision on a renewal request.
type HandleRenewalInput struct {
	RequestID string
	Status    string
}

// HandleRenewalDeps holds dependencies for HandleRenewal.
type HandleRenewalDeps struct {
	RenewalStore RenewalStore
	MemberStore  MemberStore
	LogStore     LogStore
	Prices       PriceLookup
	Clock        Clock
	Tx           UnitOfWork
}

// ExecuteHandleRenewal approves or denies a pending renewal request.
// PRE: Status is Approved or Denied
// POST: Approved starts a new paid period on the requested plan from today;
// both outcomes are logged and the request keeps its decision; the member,
// the request and the log entry are written together or not at all
func ExecuteHandleRenewal(ctx context.Context, input HandleRenewalInput, deps HandleRenewalDeps) (renewal.Request, error) {
	if input.Status != renewal.StatusApproved && input.Status != renewal.StatusDenied {
		return renewal.Request{}, renewal.ErrInvalidStatus
	}

	req, err := deps.RenewalStore.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, renewal.ErrNotFound) {
			return renewal.Request{}, ErrRenewalTargetNotFound
		}
		return renewal.Request{}, err
	}
	m, err := deps.MemberStore.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return renewal.Request{}, ErrRenewalTargetNotFound
		}
		return renewal.Request{}, err
	}
	if !req.IsPending() {
		return renewal.Request{}, renewal.ErrNotPending
	}
	if err := req.Decide(input.Status); err != nil {
		return renewal.Request{}, err
	}

	now := deps.Clock.now()
	approved := input.Status == renewal.StatusApproved
	var action, remarks string
	if approved {
		price := priceFor(ctx, deps.Prices, m.MemberType, req.RequestedPlan)
		if err := m.ApplyRenewal(req.RequestedPlan, deps.Clock.Today(), price, now); err != nil {
			return renewal.Request{}, err
		}
		action = membershiplog.ActionRenewalApproved
		remarks = fmt.Sprintf("Renewal approved. Plan updated to %s, payment status %s.", m.GymPlan, m.PaymentStatus)
	} else {
		action = membershiplog.ActionRenewalDenied
		remarks = fmt.Sprintf("Renewal request for %s plan denied.", req.RequestedPlan)
	}

	direct := WriteStores{Members: deps.MemberStore, Renewals: deps.RenewalStore, Logs: deps.LogStore}
	err = inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if approved {
			if err := w.Members.Save(ctx, m); err != nil {
				return fmt.Errorf("save member: %w", err)
			}
		}
		if err := w.Renewals.Save(ctx, req); err != nil {
			return fmt.Errorf("save renewal: %w", err)
		}
		return recordLog(ctx, w.Logs, m, action, remarks, now)
	})
	if err != nil {
		return renewal.Request{}, err
	}

	slog.Info("renewal_event", "event", "renewal_decided", "request_id", req.ID, "member_id", m.ID, "status", req.Status)
	return req, nil
}

// DeleteRenewalDeps holds dependencies for DeleteRenewal.
type DeleteRenewalDeps struct {
	RenewalStore RenewalStore
}

// ExecuteDeleteRenewal removes a renewal request.
// POST: Returns an error wrapping renewal.ErrNotFound when nothing was deleted
func ExecuteDeleteRenewal(ctx context.Context, requestID string, deps DeleteRenewalDeps) error {
	if err := deps.RenewalStore.Delete(ctx, requestID); err != nil {
		return err
	}
	slog.Info("renewal_event", "event", "renewal_deleted", "request_id", requestID)
	return nil
}
