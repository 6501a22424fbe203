package projections

import (
	"context"

	domainLog "memberdesk/internal/domain/membershiplog"
)

// TimestampLayout is how times appear in JSON payloads.
const TimestampLayout = "2006-01-02 15:04:05"

// LogRow is one entry of the recent-activity list.
type LogRow struct {
	LogID      string `json:"log_id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	ActionType string `json:"action_type"`
	ActionDate string `json:"action_date"`
	Remarks    string `json:"remarks"`
}

// MembershipLogsDeps holds dependencies for MembershipLogs.
type MembershipLogsDeps struct {
	LogStore LogStore
}

// QueryMembershipLogs returns the log entries of the last seven days, newest first.
// POST: never nil; entries of deleted members keep the name recorded at the time
func QueryMembershipLogs(ctx context.Context, at Moment, deps MembershipLogsDeps) ([]LogRow, error) {
	now := at.local()
	entries, err := deps.LogStore.ListSince(ctx, now.Add(-domainLog.RecentWindow))
	if err != nil {
		return nil, err
	}
	rows := make([]LogRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LogRow{
			LogID:      e.ID,
			MemberID:   e.MemberID,
			MemberName: e.MemberName,
			ActionType: e.ActionType,
			ActionDate: e.ActionTime.In(now.Location()).Format(TimestampLayout),
			Remarks:    e.Remarks,
		})
	}
	return rows, nil
}
