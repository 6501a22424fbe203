package attendance

import (
	"errors"
	"time"
)

// Status messages shown next to the attendance buttons.
const (
	MsgNotTimedIn = "You haven't timed in yet."
	MsgTimedIn    = "You are currently timed in."
	MsgCompleted  = "You have completed your attendance today."
)

// Domain errors
var (
	ErrNotFound        = errors.New("no attendance record for the day")
	ErrAlreadyTimedIn  = errors.New("already timed in today")
	ErrNotTimedIn      = errors.New("you haven't timed in yet")
	ErrAlreadyTimedOut = errors.New("already timed out today")
)

// Attendance is one member's gym visit on one day.
type Attendance struct {
	ID       string
	MemberID string
	Date     string // YYYY-MM-DD in the gym's time zone
	TimeIn   time.Time
	TimeOut  time.Time
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID and Date must be set; TimeOut is not before TimeIn
func (a *Attendance) Validate() error {
	if a.MemberID == "" {
		return errors.New("attendance must be associated with a member")
	}
	if a.Date == "" {
		return errors.New("attendance date must be set")
	}
	if a.TimeIn.IsZero() {
		return errors.New("time-in must be set")
	}
	if !a.TimeOut.IsZero() && a.TimeOut.Before(a.TimeIn) {
		return errors.New("time-out cannot be before time-in")
	}
	return nil
}

// IsTimedOut returns true if the member has timed out.
func (a *Attendance) IsTimedOut() bool {
	return !a.TimeOut.IsZero()
}

// TimeOutAt records the time-out.
// PRE: not yet timed out
// POST: TimeOut is set
func (a *Attendance) TimeOutAt(now time.Time) error {
	if a.IsTimedOut() {
		return ErrAlreadyTimedOut
	}
	a.TimeOut = now
	return nil
}

// Duration returns the length of the visit, or the time so far if still in.
func (a *Attendance) Duration(now time.Time) time.Duration {
	if a.IsTimedOut() {
		return a.TimeOut.Sub(a.TimeIn)
	}
	return now.Sub(a.TimeIn)
}

// Status is today's attendance state as served to the membership page.
type Status struct {
	TimeIn  bool `json:"time_in"`
	TimeOut bool `json:"time_out"`
}

// StatusOf derives the day's status from today's record, which may be nil.
func StatusOf(today *Attendance) Status {
	if today == nil {
		return Status{}
	}
	return Status{TimeIn: true, TimeOut: today.IsTimedOut()}
}

// ButtonState is the enabled state of the two attendance buttons and the status line.
type ButtonState struct {
	TimeInDisabled  bool
	TimeOutDisabled bool
	Message         string
}

// Buttons derives the button state.
// INVARIANT: time-in is disabled once timed in; time-out is enabled only
// between time-in and time-out
func (s Status) Buttons() ButtonState {
	b := ButtonState{
		TimeInDisabled:  s.TimeIn,
		TimeOutDisabled: !s.TimeIn || s.TimeOut,
	}
	switch {
	case !s.TimeIn:
		b.Message = MsgNotTimedIn
	case !s.TimeOut:
		b.Message = MsgTimedIn
	default:
		b.Message = MsgCompleted
	}
	return b
}
