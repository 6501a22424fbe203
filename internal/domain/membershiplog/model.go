package membershiplog

import (
	"errors"
	"time"
)

// Action types
const (
	ActionRegistered       = "Registered"
	ActionUserRegistration = "User Registration"
	ActionUpdated          = "Updated"
	ActionStatusUpdate     = "Status Update"
	ActionRenewalApproved  = "Renewal Approved"
	ActionRenewalDenied    = "Renewal Denied"
)

// Actions lists every action type.
var Actions = []string{
	ActionRegistered,
	ActionUserRegistration,
	ActionUpdated,
	ActionStatusUpdate,
	ActionRenewalApproved,
	ActionRenewalDenied,
}

// RecentWindow is how far back the dashboard log list reaches.
const RecentWindow = 7 * 24 * time.Hour

// Entry is one recorded change to a membership.
type Entry struct {
	ID         string
	MemberID   string
	MemberName string // name at the time of the action; kept when the member is deleted
	ActionType string
	ActionTime time.Time
	Remarks    string
}

// Validate checks if the Entry has valid data.
// INVARIANT: MemberID and a known ActionType are required
func (e *Entry) Validate() error {
	if e.MemberID == "" {
		return errors.New("log entry must be associated with a member")
	}
	for _, a := range Actions {
		if a == e.ActionType {
			return nil
		}
	}
	return errors.New("unknown action type")
}
