package orchestrators

import (
	"context"
	"time"

	"memberdesk/internal/domain/account"
	"memberdesk/internal/domain/attendance"
	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
	"memberdesk/internal/domain/pricing"
	"memberdesk/internal/domain/renewal"
)

// MemberStore defines the member persistence the orchestrators need.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	GetByEmail(ctx context.Context, email string) (member.Member, error)
	GetByUniqueCode(ctx context.Context, code string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
	ListPastEnd(ctx context.Context, today string) ([]member.Member, error)
}

// LogStore records membership log entries.
type LogStore interface {
	Append(ctx context.Context, e membershiplog.Entry) error
}

// PriceLookup resolves the price of a plan for a member type.
type PriceLookup interface {
	Get(ctx context.Context, memberType, plan string) (pricing.Price, error)
}

// RenewalStore defines the renewal persistence the orchestrators need.
type RenewalStore interface {
	GetByID(ctx context.Context, id string) (renewal.Request, error)
	Save(ctx context.Context, r renewal.Request) error
	Delete(ctx context.Context, id string) error
	HasPending(ctx context.Context, memberID string) (bool, error)
}

// AttendanceStore defines the attendance persistence the orchestrators need.
type AttendanceStore interface {
	GetForDay(ctx context.Context, memberID, date string) (attendance.Attendance, error)
	Save(ctx context.Context, a attendance.Attendance) error
}

// AccountStore defines the account persistence the orchestrators need.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// WriteStores are the stores a use case writes through. Inside a UnitOfWork
// they share one transaction.
type WriteStores struct {
	Members  MemberStore
	Renewals RenewalStore
	Logs     LogStore
}

// UnitOfWork runs fn so that every write made through its stores commits or
// rolls back together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(WriteStores) error) error
}

// inTx runs fn through uow. A nil uow runs fn directly against direct.
func inTx(ctx context.Context, uow UnitOfWork, direct WriteStores, fn func(WriteStores) error) error {
	if uow == nil {
		return fn(direct)
	}
	return uow.Do(ctx, fn)
}

// Clock supplies the current time and the gym's time zone.
// A zero Clock uses time.Now and UTC.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current date in the gym's time zone.
func (c Clock) Today() string {
	return member.Today(c.now(), c.Location)
}

// priceFor returns the configured price, or 0 when the pair is not priced.
func priceFor(ctx context.Context, prices PriceLookup, memberType, plan string) float64 {
	p, err := prices.Get(ctx, memberType, plan)
	if err != nil {
		return 0
	}
	return p.Amount
}
