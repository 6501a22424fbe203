package memberlog

import (
	"context"
	"database/sql"
	"time"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/membershiplog"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new membership log store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append records a log entry.
// PRE: entry has been validated
func (s *SQLiteStore) Append(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO membership_log (id, member_id, member_name, action_type, action_time, remarks) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.MemberID, e.MemberName, e.ActionType, storage.FormatTime(e.ActionTime), e.Remarks)
	return err
}

// ListSince returns entries at or after since, newest first.
func (s *SQLiteStore) ListSince(ctx context.Context, since time.Time) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, member_name, action_type, action_time, remarks FROM membership_log WHERE action_time >= ? ORDER BY action_time DESC, rowid DESC",
		since.UTC().Format(storage.TimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var at sql.NullString
		if err := rows.Scan(&e.ID, &e.MemberID, &e.MemberName, &e.ActionType, &at, &e.Remarks); err != nil {
			return nil, err
		}
		if e.ActionTime, err = storage.ParseTime(at); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
