package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"

	"github.com/google/uuid"
)

// Registration form messages.
const (
	MsgNamesRequired       = "First name and last name are required."
	MsgEmailRequired       = "Valid email is required."
	MsgPasswordTooShort    = "Password must be at least 6 characters."
	MsgPasswordMismatch    = "Passwords do not match."
	MsgAgeRequired         = "Valid age is required."
	MsgGenderRequired      = "Gender is required."
	MsgTypeRequired        = "Member type is required."
	MsgStudentNumber       = "Student number is required for students."
	MsgPlanRequired        = "Gym plan is required."
	MsgAnnualUnavailable   = "Annual plans are not available yet."
	MsgEmailRegistered     = "Email already registered. Please login instead."
	MsgEmailNeedsActivated = "Email exists in our system. Please contact admin to activate your account."
)

// RegisterMemberInput carries the self-registration form.
type RegisterMemberInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Age             string
	Gender          string
	MemberType      string
	StudentNumber   string
	GymPlan         string
	ContactNumber   string
	Address         string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Prices      PriceLookup
	Clock       Clock
	Welcome     *WelcomeEmail // optional: nil skips the welcome email
	Tx          UnitOfWork
}

// ExecuteRegisterMember creates a self-registered member.
// PRE: none; every field is validated here
// POST: Member saved Pending/Unpaid starting today with a password; "User Registration" logged
// INVARIANT: emails are unique across members
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.StudentNumber = strings.TrimSpace(input.StudentNumber)

	var msgs []string
	if input.FirstName == "" || input.LastName == "" {
		msgs = append(msgs, MsgNamesRequired)
	}
	if input.Email == "" || !member.ValidEmail(input.Email) {
		msgs = append(msgs, MsgEmailRequired)
	}
	if len(input.Password) < member.MinPasswordLen {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if input.Password != input.ConfirmPassword {
		msgs = append(msgs, MsgPasswordMismatch)
	}
	age, err := strconv.Atoi(strings.TrimSpace(input.Age))
	if err != nil || age < member.MinAge || age > member.MaxAge {
		msgs = append(msgs, MsgAgeRequired)
	}
	if !member.IsValid(input.Gender, member.Genders) {
		msgs = append(msgs, MsgGenderRequired)
	}
	if !member.IsValid(input.MemberType, member.Types) {
		msgs = append(msgs, MsgTypeRequired)
	}
	if input.MemberType == member.TypeStudent && input.StudentNumber == "" {
		msgs = append(msgs, MsgStudentNumber)
	}
	switch {
	case !member.IsValid(input.GymPlan, member.Plans):
		msgs = append(msgs, MsgPlanRequired)
	case input.GymPlan == member.PlanAnnual:
		msgs = append(msgs, MsgAnnualUnavailable)
	}
	if input.Email != "" {
		existing, err := deps.MemberStore.GetByEmail(ctx, input.Email)
		switch {
		case err == nil && existing.PasswordHash != "":
			msgs = append(msgs, MsgEmailRegistered)
		case err == nil:
			msgs = append(msgs, MsgEmailNeedsActivated)
		case !errors.Is(err, member.ErrNotFound):
			return member.Member{}, err
		}
	}
	if len(msgs) > 0 {
		slog.Info("member_event", "event", "registration_rejected", "reasons", len(msgs))
		return member.Member{}, invalid(msgs...)
	}

	now := deps.Clock.now()
	start := deps.Clock.Today()
	end, err := member.EndDateFor(start, input.GymPlan)
	if err != nil {
		return member.Member{}, err
	}
	m := member.Member{
		ID:             uuid.New().String(),
		UniqueCode:     member.NewUniqueCode(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Age:            age,
		Gender:         input.Gender,
		StudentNumber:  input.StudentNumber,
		GymPlan:        input.GymPlan,
		Email:          input.Email,
		ContactNumber:  strings.TrimSpace(input.ContactNumber),
		Address:        strings.TrimSpace(input.Address),
		StartDate:      start,
		EndDate:        end,
		Status:         member.StatusPending,
		PaymentStatus:  member.PaymentUnpaid,
		RegisteredAt:   now,
		SelfRegistered: true,
	}
	m.SetMemberType(input.MemberType)
	if err := m.SetPassword(input.Password); err != nil {
		return member.Member{}, err
	}
	m.PricePaid = priceFor(ctx, deps.Prices, m.MemberType, m.GymPlan)
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err.Error())
	}

	remarks := fmt.Sprintf("User self-registered with %s plan", m.GymPlan)
	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	err = inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if err := w.Members.Save(ctx, m); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		return recordLog(ctx, w.Logs, m, membershiplog.ActionUserRegistration, remarks, now)
	})
	if err != nil {
		return member.Member{}, err
	}
	slog.Info("member_event", "event", "member_registered", "member_id", m.ID, "plan", m.GymPlan)

	if deps.Welcome != nil {
		if err := deps.Welcome.Send(ctx, m); err != nil {
			// Registration stands even when the email fails.
			slog.Error("email_event", "event", "welcome_email_failed", "member_id", m.ID, "error", err)
		}
	}
	return m, nil
}
