package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/pricing"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new pricing store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the price for a member type on a plan.
// POST: Returns an error wrapping domain.ErrNotFound when no row exists
func (s *SQLiteStore) Get(ctx context.Context, memberType, plan string) (domain.Price, error) {
	p := domain.Price{MemberType: memberType, Plan: plan}
	err := s.db.QueryRowContext(ctx,
		"SELECT price FROM gym_pricing WHERE member_type = ? AND plan_type = ?",
		memberType, plan).Scan(&p.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Price{}, fmt.Errorf("%s/%s: %w", memberType, plan, domain.ErrNotFound)
	}
	return p, err
}

// List returns the whole price list.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Price, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT member_type, plan_type, price FROM gym_pricing ORDER BY member_type, plan_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Price
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.MemberType, &p.Plan, &p.Amount); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Upsert writes every price in one transaction.
// PRE: prices have been validated
// POST: all rows written or none
func (s *SQLiteStore) Upsert(ctx context.Context, prices []domain.Price) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range prices {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO gym_pricing (member_type, plan_type, price) VALUES (?, ?, ?)
			ON CONFLICT(member_type, plan_type) DO UPDATE SET price=excluded.price`,
			p.MemberType, p.Plan, p.Amount); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", p.MemberType, p.Plan, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of priced type/plan pairs.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM gym_pricing").Scan(&n)
	return n, err
}
