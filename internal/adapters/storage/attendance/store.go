package attendance

import (
	"context"

	domain "memberdesk/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	GetForDay(ctx context.Context, memberID, date string) (domain.Attendance, error)
	Save(ctx context.Context, value domain.Attendance) error
	ListByMemberID(ctx context.Context, memberID string, limit int) ([]domain.Attendance, error)
	CountByDate(ctx context.Context, date string) (int, error)
}
