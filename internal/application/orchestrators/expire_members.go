package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
)

// ExpireMembersDeps holds dependencies for ExpireMembers.
type ExpireMembersDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Clock       Clock
	Tx          UnitOfWork
}

// ExecuteExpireMembers marks members whose end date has passed as Expired.
// Members an admin set to Active are left alone.
// POST: every changed member is saved together with its "Status Update" log entry
// INVARIANT: running it twice on the same day changes nothing the second time
func ExecuteExpireMembers(ctx context.Context, deps ExpireMembersDeps) (int, error) {
	today := deps.Clock.Today()
	due, err := deps.MemberStore.ListPastEnd(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list past end: %w", err)
	}

	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	expired := 0
	for _, m := range due {
		if m.Status == member.StatusActive {
			continue
		}
		if err := m.Expire(today); err != nil {
			continue
		}
		remarks := fmt.Sprintf("Automatically marked as expired (End date: %s).", m.EndDate)
		err := inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
			if err := w.Members.Save(ctx, m); err != nil {
				return fmt.Errorf("save member %s: %w", m.ID, err)
			}
			return recordLog(ctx, w.Logs, m, membershiplog.ActionStatusUpdate, remarks, deps.Clock.now())
		})
		if err != nil {
			return expired, err
		}
		expired++
	}

	if expired > 0 {
		slog.Info("member_event", "event", "members_expired", "count", expired, "today", today)
	}
	return expired, nil
}

// StartBackgroundWorker runs ExecuteExpireMembers every interval until stopCh is closed.
// PRE: interval > 0
func StartBackgroundWorker(deps ExpireMembersDeps, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := ExecuteExpireMembers(ctx, deps); err != nil {
					slog.Error("expiry_worker_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("expiry_worker_stopped")
				return
			}
		}
	}()
}
