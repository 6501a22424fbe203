package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/attendance"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	// Attendance rows reference members.
	for _, id := range []string{"m1", "m2"} {
		if _, err := db.Exec(`INSERT INTO member (id, unique_code, first_name, last_name, member_type, gym_plan, start_date, end_date, status, payment_status, registered_at)
			VALUES (?, ?, 'A', 'B', 'Student', 'Daily', '2026-01-01', '2026-01-02', 'Active', 'Paid', '2026-01-01T00:00:00Z')`, id, "GYM-"+id); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	return NewSQLiteStore(db)
}

// TestSQLiteStore_DayRecord verifies time-in, time-out and per-day lookup.
func TestSQLiteStore_DayRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	in := time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC)

	if _, err := s.GetForDay(ctx, "m1", "2026-01-05"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	rec := domain.Attendance{ID: "a1", MemberID: "m1", Date: "2026-01-05", TimeIn: in}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.TimeOut = in.Add(90 * time.Minute)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save time-out: %v", err)
	}

	got, err := s.GetForDay(ctx, "m1", "2026-01-05")
	if err != nil {
		t.Fatalf("GetForDay: %v", err)
	}
	if !got.TimeIn.Equal(in) || !got.TimeOut.Equal(rec.TimeOut) {
		t.Errorf("unexpected record %+v", got)
	}
}

// TestSQLiteStore_OnePerDay verifies a second record for the same day is rejected.
func TestSQLiteStore_OnePerDay(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	if err := s.Save(ctx, domain.Attendance{ID: "a1", MemberID: "m1", Date: "2026-01-05", TimeIn: now}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, domain.Attendance{ID: "a2", MemberID: "m1", Date: "2026-01-05", TimeIn: now}); err == nil {
		t.Error("expected unique violation")
	}
	if err := s.Save(ctx, domain.Attendance{ID: "a3", MemberID: "m2", Date: "2026-01-05", TimeIn: now}); err != nil {
		t.Fatalf("other member same day: %v", err)
	}
	n, err := s.CountByDate(ctx, "2026-01-05")
	if err != nil || n != 2 {
		t.Errorf("CountByDate = %d, %v; want 2", n, err)
	}
}

// TestSQLiteStore_ListByMemberID verifies newest-first ordering and limit.
func TestSQLiteStore_ListByMemberID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i, d := range []string{"2026-01-01", "2026-01-03", "2026-01-02"} {
		rec := domain.Attendance{ID: d, MemberID: "m1", Date: d, TimeIn: time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC)}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.ListByMemberID(ctx, "m1", 2)
	if err != nil {
		t.Fatalf("ListByMemberID: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2026-01-03" || got[1].Date != "2026-01-02" {
		t.Errorf("unexpected list %+v", got)
	}
}
