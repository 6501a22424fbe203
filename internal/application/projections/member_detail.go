package projections

import (
	"context"

	domainMember "memberdesk/internal/domain/member"
)

// MemberDetail is the payload of the member view/edit dialog.
type MemberDetail struct {
	MemberID      string  `json:"member_id"`
	UniqueCode    string  `json:"unique_code"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age,omitempty"`
	Gender        string  `json:"gender"`
	MemberType    string  `json:"member_type"`
	StudentNumber string  `json:"student_number"`
	GymPlan       string  `json:"gym_plan"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contact_number"`
	Address       string  `json:"address"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PricePaid     float64 `json:"price_paid"`
}

// MemberDetailOf flattens a member for the detail dialog.
func MemberDetailOf(m domainMember.Member) MemberDetail {
	return MemberDetail{
		MemberID:      m.ID,
		UniqueCode:    m.UniqueCode,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Age:           m.Age,
		Gender:        m.Gender,
		MemberType:    m.MemberType,
		StudentNumber: m.StudentNumber,
		GymPlan:       m.GymPlan,
		Email:         m.Email,
		ContactNumber: m.ContactNumber,
		Address:       m.Address,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		PricePaid:     m.PricePaid,
	}
}

// QueryMemberDetail returns one member.
// POST: Returns an error wrapping member.ErrNotFound when the member does not exist
func QueryMemberDetail(ctx context.Context, memberID string, deps MemberRowsDeps) (MemberDetail, error) {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return MemberDetail{}, err
	}
	return MemberDetailOf(m), nil
}
