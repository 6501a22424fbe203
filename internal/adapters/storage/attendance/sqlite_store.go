package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row scanner) (domain.Attendance, error) {
	var a domain.Attendance
	var timeIn, timeOut sql.NullString
	if err := row.Scan(&a.ID, &a.MemberID, &a.Date, &timeIn, &timeOut); err != nil {
		return domain.Attendance{}, err
	}
	var err error
	if a.TimeIn, err = storage.ParseTime(timeIn); err != nil {
		return domain.Attendance{}, err
	}
	if a.TimeOut, err = storage.ParseTime(timeOut); err != nil {
		return domain.Attendance{}, err
	}
	return a, nil
}

// GetForDay retrieves a member's record for one date.
// PRE: date is YYYY-MM-DD
// POST: Returns the record or an error wrapping ErrNotFound
func (s *SQLiteStore) GetForDay(ctx context.Context, memberID, date string) (domain.Attendance, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, member_id, date, time_in, time_out FROM attendance WHERE member_id = ? AND date = ?",
		memberID, date)
	a, err := scanAttendance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attendance{}, fmt.Errorf("member %q on %s: %w", memberID, date, domain.ErrNotFound)
	}
	return a, err
}

// Save persists an Attendance record.
// PRE: entity has been validated
// POST: Entity is persisted; the (member, date) pair stays unique
func (s *SQLiteStore) Save(ctx context.Context, a domain.Attendance) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (id, member_id, date, time_in, time_out) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET time_in=excluded.time_in, time_out=excluded.time_out`,
		a.ID, a.MemberID, a.Date, storage.FormatTime(a.TimeIn), storage.FormatTime(a.TimeOut))
	return err
}

// ListByMemberID returns a member's most recent records, newest first.
// PRE: limit > 0
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string, limit int) ([]domain.Attendance, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, date, time_in, time_out FROM attendance WHERE member_id = ? ORDER BY date DESC LIMIT ?",
		memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// CountByDate returns the number of members who timed in on date.
func (s *SQLiteStore) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance WHERE date = ?", date).Scan(&n)
	return n, err
}
