package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"memberdesk/internal/domain/attendance"

	"github.com/google/uuid"
)

// AttendanceDeps holds dependencies for the attendance orchestrators.
type AttendanceDeps struct {
	AttendanceStore AttendanceStore
	Clock           Clock
}

// QueryAttendanceStatus returns today's attendance status for a member.
func QueryAttendanceStatus(ctx context.Context, memberID string, deps AttendanceDeps) (attendance.Status, error) {
	rec, err := deps.AttendanceStore.GetForDay(ctx, memberID, deps.Clock.Today())
	if errors.Is(err, attendance.ErrNotFound) {
		return attendance.StatusOf(nil), nil
	}
	if err != nil {
		return attendance.Status{}, err
	}
	return attendance.StatusOf(&rec), nil
}

// ExecuteTimeIn records today's time-in for a member.
// PRE: memberID is the logged-in member
// POST: one record exists for the member today
// INVARIANT: a member times in at most once per day
func ExecuteTimeIn(ctx context.Context, memberID string, deps AttendanceDeps) (attendance.Attendance, error) {
	today := deps.Clock.Today()
	if _, err := deps.AttendanceStore.GetForDay(ctx, memberID, today); err == nil {
		return attendance.Attendance{}, attendance.ErrAlreadyTimedIn
	} else if !errors.Is(err, attendance.ErrNotFound) {
		return attendance.Attendance{}, err
	}

	rec := attendance.Attendance{
		ID:       uuid.New().String(),
		MemberID: memberID,
		Date:     today,
		TimeIn:   deps.Clock.now(),
	}
	if err := rec.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if err := deps.AttendanceStore.Save(ctx, rec); err != nil {
		return attendance.Attendance{}, fmt.Errorf("save attendance: %w", err)
	}

	slog.Info("attendance_event", "event", "timed_in", "member_id", memberID, "date", today)
	return rec, nil
}

// ExecuteTimeOut records today's time-out for a member.
// PRE: the member timed in today
// POST: today's record has a time-out
func ExecuteTimeOut(ctx context.Context, memberID string, deps AttendanceDeps) (attendance.Attendance, error) {
	today := deps.Clock.Today()
	rec, err := deps.AttendanceStore.GetForDay(ctx, memberID, today)
	if errors.Is(err, attendance.ErrNotFound) {
		return attendance.Attendance{}, attendance.ErrNotTimedIn
	}
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := rec.TimeOutAt(deps.Clock.now()); err != nil {
		return attendance.Attendance{}, err
	}
	if err := deps.AttendanceStore.Save(ctx, rec); err != nil {
		return attendance.Attendance{}, fmt.Errorf("save attendance: %w", err)
	}

	slog.Info("attendance_event", "event", "timed_out", "member_id", memberID, "date", today, "minutes", int(rec.Duration(rec.TimeOut).Minutes()))
	return rec, nil
}
