package member

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DateLayout is the storage and wire format of membership dates.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MinPasswordLen   = 6
	MinAge, MaxAge   = 1, 120
	UniqueCodePrefix = "GYM-"
)

// Member types
const (
	TypeStudent  = "Student"
	TypeFaculty  = "Faculty"
	TypeOutsider = "Outsider"
)

// Gym plans
const (
	PlanDaily   = "Daily"
	PlanMonthly = "Monthly"
	PlanAnnual  = "Annual"
)

// Membership statuses
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusExpired  = "Expired"
	StatusPending  = "Pending"
)

// Payment statuses
const (
	PaymentPaid    = "Paid"
	PaymentUnpaid  = "Unpaid"
	PaymentOverdue = "Overdue"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Option lists in display order.
var (
	Types           = []string{TypeStudent, TypeFaculty, TypeOutsider}
	Plans           = []string{PlanDaily, PlanMonthly, PlanAnnual}
	Statuses        = []string{StatusActive, StatusInactive, StatusExpired, StatusPending}
	PaymentStatuses = []string{PaymentPaid, PaymentUnpaid, PaymentOverdue}
	Genders         = []string{GenderMale, GenderFemale}
)

// Domain errors
var (
	ErrNotFound         = errors.New("member not found")
	ErrAlreadyExpired   = errors.New("member is already expired")
	ErrNotDue           = errors.New("membership has not ended yet")
	ErrWrongPassword    = errors.New("invalid email or password")
	ErrNoPassword       = errors.New("account has not been activated")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidDate      = errors.New("dates must be in YYYY-MM-DD format")
	ErrEndBeforeStart   = errors.New("end date cannot be before start date")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Member holds state for the concept.
type Member struct {
	ID             string
	UniqueCode     string
	FirstName      string
	LastName       string
	Age            int // 0 when not given
	Gender         string
	MemberType     string
	StudentNumber  string // students only
	GymPlan        string
	Email          string
	ContactNumber  string
	Address        string
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	Status         string
	PaymentStatus  string
	PricePaid      float64
	LastPaymentAt  time.Time
	RegisteredAt   time.Time
	PasswordHash   string
	SelfRegistered bool
}

// FullName returns "First Last".
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: names, type, plan and both dates are required; EndDate >= StartDate
func (m *Member) Validate() error {
	if strings.TrimSpace(m.FirstName) == "" || strings.TrimSpace(m.LastName) == "" {
		return errors.New("first name and last name are required")
	}
	if len(m.FirstName) > MaxNameLength || len(m.LastName) > MaxNameLength {
		return fmt.Errorf("names cannot exceed %d characters", MaxNameLength)
	}
	if !IsValid(m.MemberType, Types) {
		return errors.New("member type must be Student, Faculty, or Outsider")
	}
	if !IsValid(m.GymPlan, Plans) {
		return errors.New("gym plan must be Daily, Monthly, or Annual")
	}
	if m.Status != "" && !IsValid(m.Status, Statuses) {
		return fmt.Errorf("invalid status %q", m.Status)
	}
	if m.PaymentStatus != "" && !IsValid(m.PaymentStatus, PaymentStatuses) {
		return fmt.Errorf("invalid payment status %q", m.PaymentStatus)
	}
	if m.Gender != "" && !IsValid(m.Gender, Genders) {
		return errors.New("gender must be Male or Female")
	}
	if m.Age != 0 && (m.Age < MinAge || m.Age > MaxAge) {
		return errors.New("valid age is required")
	}
	if m.Email != "" && !ValidEmail(m.Email) {
		return errors.New("valid email is required")
	}
	start, err := time.Parse(DateLayout, m.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, m.EndDate)
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// SetMemberType changes the member type. Leaving Student clears the student number.
// POST: StudentNumber is empty unless MemberType is Student
func (m *Member) SetMemberType(t string) {
	m.MemberType = t
	if t != TypeStudent {
		m.StudentNumber = ""
	}
}

// IsExpired returns true if the membership status is Expired.
// INVARIANT: Member fields are not mutated
func (m *Member) IsExpired() bool {
	return m.Status == StatusExpired
}

// IsPastEnd reports whether the end date is strictly before today.
// PRE: today is YYYY-MM-DD
func (m *Member) IsPastEnd(today string) bool {
	return m.EndDate != "" && m.EndDate < today
}

// Expire marks a member whose end date has passed as Expired.
// PRE: today is YYYY-MM-DD
// POST: Status is Expired
func (m *Member) Expire(today string) error {
	if m.Status == StatusExpired {
		return ErrAlreadyExpired
	}
	if !m.IsPastEnd(today) {
		return ErrNotDue
	}
	m.Status = StatusExpired
	return nil
}

// CheckAndUpdateStatus expires the member if the end date has passed.
// It reports whether the status changed.
func (m *Member) CheckAndUpdateStatus(today string) bool {
	return m.Expire(today) == nil
}

// ApplyRenewal starts a new paid period on plan beginning today.
// PRE: today is YYYY-MM-DD; price comes from the pricing table
// POST: Status Active, PaymentStatus Paid, EndDate = today + PlanDuration(plan)
func (m *Member) ApplyRenewal(plan, today string, price float64, now time.Time) error {
	end, err := EndDateFor(today, plan)
	if err != nil {
		return err
	}
	m.GymPlan = plan
	m.Status = StatusActive
	m.PaymentStatus = PaymentPaid
	m.StartDate = today
	m.EndDate = end
	m.PricePaid = price
	m.LastPaymentAt = now
	return nil
}

// PaymentTime returns the last payment time, or the registration time if never paid.
func (m *Member) PaymentTime() time.Time {
	if !m.LastPaymentAt.IsZero() {
		return m.LastPaymentAt
	}
	return m.RegisteredAt
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext has at least MinPasswordLen characters
// POST: PasswordHash is set to bcrypt hash
func (m *Member) SetPassword(plaintext string) error {
	if len(plaintext) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Member fields are not mutated
func (m *Member) CheckPassword(plaintext string) error {
	if m.PasswordHash == "" {
		return ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// PlanDuration returns the number of days a plan lasts.
// Unknown plans last 30 days.
func PlanDuration(plan string) int {
	switch plan {
	case PlanDaily:
		return 1
	case PlanMonthly:
		return 30
	case PlanAnnual:
		return 365
	default:
		return 30
	}
}

// EndDateFor returns start + PlanDuration(plan) as YYYY-MM-DD.
func EndDateFor(start, plan string) (string, error) {
	t, err := time.Parse(DateLayout, start)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.AddDate(0, 0, PlanDuration(plan)).Format(DateLayout), nil
}

// Today returns the current date in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// NewUniqueCode returns a fresh member code of the form GYM-XXXXXX.
func NewUniqueCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return UniqueCodePrefix + strings.ToUpper(id[:6])
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValid reports whether v is one of options.
func IsValid(v string, options []string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
