package orchestrators

import (
	"context"
	"fmt"
	"time"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"

	"github.com/google/uuid"
)

// recordLog appends a log entry for m.
// POST: entry carries the member's current full name
func recordLog(ctx context.Context, logs LogStore, m member.Member, action, remarks string, at time.Time) error {
	e := membershiplog.Entry{
		ID:         uuid.New().String(),
		MemberID:   m.ID,
		MemberName: m.FullName(),
		ActionType: action,
		ActionTime: at,
		Remarks:    remarks,
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := logs.Append(ctx, e); err != nil {
		return fmt.Errorf("append %s log: %w", action, err)
	}
	return nil
}
