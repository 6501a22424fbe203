package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/renewal"

	"github.com/google/uuid"
)

// RequestRenewalInput carries a member's renewal request.
type RequestRenewalInput struct {
	MemberID      string
	RequestedPlan string
}

// RequestRenewalDeps holds dependencies for RequestRenewal.
type RequestRenewalDeps struct {
	MemberStore  MemberStore
	RenewalStore RenewalStore
	Clock        Clock
}

// ExecuteRequestRenewal files a pending renewal request for a member.
// PRE: MemberID is the logged-in member
// POST: a Pending request exists for the member
// INVARIANT: a member has at most one pending request
func ExecuteRequestRenewal(ctx context.Context, input RequestRenewalInput, deps RequestRenewalDeps) (renewal.Request, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return renewal.Request{}, err
	}
	pending, err := deps.RenewalStore.HasPending(ctx, input.MemberID)
	if err != nil {
		return renewal.Request{}, err
	}
	if pending {
		return renewal.Request{}, renewal.ErrAlreadyPending
	}
	if !member.IsValid(input.RequestedPlan, renewal.RequestablePlans) {
		return renewal.Request{}, renewal.ErrInvalidPlan
	}

	req := renewal.Request{
		ID:            uuid.New().String(),
		MemberID:      input.MemberID,
		RequestedPlan: input.RequestedPlan,
		Status:        renewal.StatusPending,
		RequestedAt:   deps.Clock.now(),
	}
	if err := req.Validate(); err != nil {
		return renewal.Request{}, err
	}
	if err := deps.RenewalStore.Save(ctx, req); err != nil {
		return renewal.Request{}, fmt.Errorf("save renewal: %w", err)
	}

	slog.Info("renewal_event", "event", "renewal_requested", "request_id", req.ID, "member_id", req.MemberID, "plan", req.RequestedPlan)
	return req, nil
}
