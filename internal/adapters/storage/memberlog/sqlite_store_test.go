package memberlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/membershiplog"
)

// TestSQLiteStore_ListSince verifies the window and newest-first order.
func TestSQLiteStore_ListSince(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	s := NewSQLiteStore(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	entries := []domain.Entry{
		{ID: "old", MemberID: "m1", MemberName: "A B", ActionType: domain.ActionRegistered, ActionTime: now.Add(-8 * 24 * time.Hour)},
		{ID: "mid", MemberID: "m1", MemberName: "A B", ActionType: domain.ActionUpdated, ActionTime: now.Add(-2 * 24 * time.Hour), Remarks: "edited"},
		{ID: "new", MemberID: "m2", MemberName: "C D", ActionType: domain.ActionStatusUpdate, ActionTime: now.Add(-time.Hour)},
	}
	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append %s: %v", e.ID, err)
		}
	}

	got, err := s.ListSince(ctx, now.Add(-domain.RecentWindow))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[1].Remarks != "edited" || got[1].MemberName != "A B" || !got[1].ActionTime.Equal(entries[1].ActionTime) {
		t.Errorf("fields not preserved: %+v", got[1])
	}
}
