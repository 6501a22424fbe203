package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"

	"github.com/google/uuid"
)

// MsgRequiredFields is returned when the desk form misses a required field.
const MsgRequiredFields = "Please fill in all required fields."

// AddMemberInput carries the desk registration form.
type AddMemberInput struct {
	FirstName     string
	LastName      string
	Age           int
	Gender        string
	MemberType    string
	StudentNumber string
	GymPlan       string
	Email         string
	ContactNumber string
	Address       string
	StartDate     string
	EndDate       string
}

// AddMemberDeps holds dependencies for AddMember.
type AddMemberDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Prices      PriceLookup
	Clock       Clock
	Tx          UnitOfWork // optional: nil writes without a transaction
}

// ExecuteAddMember registers a member at the desk. The member pays on the spot.
// PRE: names, type, plan and both dates are present
// POST: Member saved Active/Paid at the configured price; "Registered" logged
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (member.Member, error) {
	required := []string{input.FirstName, input.LastName, input.MemberType, input.GymPlan, input.StartDate, input.EndDate}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return member.Member{}, invalid(MsgRequiredFields)
		}
	}

	now := deps.Clock.now()
	m := member.Member{
		ID:            uuid.New().String(),
		UniqueCode:    member.NewUniqueCode(),
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Age:           input.Age,
		Gender:        input.Gender,
		StudentNumber: strings.TrimSpace(input.StudentNumber),
		GymPlan:       input.GymPlan,
		Email:         strings.TrimSpace(input.Email),
		ContactNumber: strings.TrimSpace(input.ContactNumber),
		Address:       strings.TrimSpace(input.Address),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        member.StatusActive,
		PaymentStatus: member.PaymentPaid,
		LastPaymentAt: now,
		RegisteredAt:  now,
	}
	m.SetMemberType(input.MemberType)
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err.Error())
	}
	m.PricePaid = priceFor(ctx, deps.Prices, m.MemberType, m.GymPlan)

	remarks := fmt.Sprintf("Member %s registered successfully.", m.FullName())
	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	err := inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if err := w.Members.Save(ctx, m); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		return recordLog(ctx, w.Logs, m, membershiplog.ActionRegistered, remarks, now)
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_added", "member_id", m.ID, "type", m.MemberType, "plan", m.GymPlan, "price", m.PricePaid)
	return m, nil
}
