package renewal

import (
	"errors"
	"time"

	"memberdesk/internal/domain/member"
)

// Request statuses
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)

// Statuses lists request statuses in display order.
var Statuses = []string{StatusPending, StatusApproved, StatusDenied}

// RequestablePlans are the plans a member may ask to renew onto.
var RequestablePlans = []string{member.PlanDaily, member.PlanMonthly}

// Domain errors
var (
	ErrNotFound       = errors.New("request not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidPlan    = errors.New("invalid plan selected")
	ErrAlreadyPending = errors.New("you already have a pending renewal request")
	ErrNotPending     = errors.New("request is no longer pending")
)

// Request is a member's ask to renew onto a plan.
type Request struct {
	ID            string
	MemberID      string
	RequestedPlan string
	Status        string
	RequestedAt   time.Time
}

// Validate checks if the Request has valid data.
// INVARIANT: MemberID set; RequestedPlan is requestable; Status is known
func (r *Request) Validate() error {
	if r.MemberID == "" {
		return errors.New("request must be associated with a member")
	}
	if !member.IsValid(r.RequestedPlan, RequestablePlans) {
		return ErrInvalidPlan
	}
	if !member.IsValid(r.Status, Statuses) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPending returns true if the request awaits a decision.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// Decide records an admin decision.
// PRE: decision is Approved or Denied
// POST: Status is decision
func (r *Request) Decide(decision string) error {
	if decision != StatusApproved && decision != StatusDenied {
		return ErrInvalidStatus
	}
	r.Status = decision
	return nil
}
