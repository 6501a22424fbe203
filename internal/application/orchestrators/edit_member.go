package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
)

// EditMemberInput carries a partial update. Nil fields keep their stored value.
type EditMemberInput struct {
	MemberID      string
	FirstName     *string
	LastName      *string
	Age           *int
	Gender        *string
	MemberType    *string
	StudentNumber *string
	GymPlan       *string
	Email         *string
	ContactNumber *string
	Address       *string
	StartDate     *string
	EndDate       *string
	Status        *string
	PaymentStatus *string
}

// EditMemberDeps holds dependencies for EditMember.
type EditMemberDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Clock       Clock
	Tx          UnitOfWork
}

// ExecuteEditMember applies an admin edit to a member.
// PRE: MemberID names an existing member
// POST: Member saved; "Updated" logged
// INVARIANT: changing the type away from Student clears the student number
func ExecuteEditMember(ctx context.Context, input EditMemberInput, deps EditMemberDeps) (member.Member, error) {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}

	setString(&m.FirstName, input.FirstName)
	setString(&m.LastName, input.LastName)
	if input.Age != nil {
		m.Age = *input.Age
	}
	setString(&m.Gender, input.Gender)
	setString(&m.StudentNumber, input.StudentNumber)
	setString(&m.GymPlan, input.GymPlan)
	setString(&m.Email, input.Email)
	setString(&m.ContactNumber, input.ContactNumber)
	setString(&m.Address, input.Address)
	setString(&m.StartDate, input.StartDate)
	setString(&m.EndDate, input.EndDate)
	setString(&m.Status, input.Status)
	setString(&m.PaymentStatus, input.PaymentStatus)
	if input.MemberType != nil {
		m.SetMemberType(strings.TrimSpace(*input.MemberType))
	}

	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err.Error())
	}
	remarks := fmt.Sprintf("Updated information for %s.", m.FullName())
	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	err = inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if err := w.Members.Save(ctx, m); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		return recordLog(ctx, w.Logs, m, membershiplog.ActionUpdated, remarks, deps.Clock.now())
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_updated", "member_id", m.ID)
	return m, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Clock       Clock
	Tx          UnitOfWork
}

// ExecuteDeleteMember removes a member and their dependent rows.
// POST: Member gone; an "Updated" entry with the member's name remains in the log
func ExecuteDeleteMember(ctx context.Context, memberID string, deps DeleteMemberDeps) error {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	remarks := fmt.Sprintf("Deleted member record for %s.", m.FullName())
	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	err = inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if err := w.Members.Delete(ctx, memberID); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		return recordLog(ctx, w.Logs, m, membershiplog.ActionUpdated, remarks, deps.Clock.now())
	})
	if err != nil {
		return err
	}

	slog.Info("member_event", "event", "member_deleted", "member_id", m.ID)
	return nil
}
