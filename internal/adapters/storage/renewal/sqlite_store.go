package renewal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/renewal"
)

const selectRequest = "SELECT id, member_id, requested_plan, status, requested_at FROM renewal_request"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new renewal request store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanRequest(scan func(dest ...any) error) (domain.Request, error) {
	var r domain.Request
	var requestedAt sql.NullString
	if err := scan(&r.ID, &r.MemberID, &r.RequestedPlan, &r.Status, &requestedAt); err != nil {
		return domain.Request{}, err
	}
	var err error
	r.RequestedAt, err = storage.ParseTime(requestedAt)
	return r, err
}

// GetByID retrieves a request by its ID.
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Request, error) {
	r, err := scanRequest(s.db.QueryRowContext(ctx, selectRequest+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Request{}, fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return r, err
}

// Save persists a request (insert or status update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, r domain.Request) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renewal_request (id, member_id, requested_plan, status, requested_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET requested_plan=excluded.requested_plan, status=excluded.status`,
		r.ID, r.MemberID, r.RequestedPlan, r.Status, storage.FormatTime(r.RequestedAt))
	return err
}

// Delete removes a request.
// POST: Returns an error wrapping domain.ErrNotFound when nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM renewal_request WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns every request, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Request, error) {
	rows, err := s.db.QueryContext(ctx, selectRequest+" ORDER BY requested_at DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Request
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// HasPending reports whether the member already has a pending request.
func (s *SQLiteStore) HasPending(ctx context.Context, memberID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM renewal_request WHERE member_id = ? AND status = ?",
		memberID, domain.StatusPending).Scan(&n)
	return n > 0, err
}
