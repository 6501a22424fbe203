package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/member"
)

var columns = []string{
	"id", "unique_code", "first_name", "last_name", "age", "gender", "member_type",
	"student_number", "gym_plan", "email", "contact_number", "address", "start_date",
	"end_date", "status", "payment_status", "price_paid", "last_payment_at",
	"registered_at", "password_hash", "self_registered",
}

var selectColumns = strings.Join(columns, ", ")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// scanMember reads one row in column order.
func scanMember(row scanner) (domain.Member, error) {
	var m domain.Member
	var email, lastPayment, registered sql.NullString
	var selfRegistered int
	err := row.Scan(
		&m.ID, &m.UniqueCode, &m.FirstName, &m.LastName, &m.Age, &m.Gender, &m.MemberType,
		&m.StudentNumber, &m.GymPlan, &email, &m.ContactNumber, &m.Address, &m.StartDate,
		&m.EndDate, &m.Status, &m.PaymentStatus, &m.PricePaid, &lastPayment,
		&registered, &m.PasswordHash, &selfRegistered,
	)
	if err != nil {
		return domain.Member{}, err
	}
	m.Email = email.String
	m.SelfRegistered = selfRegistered != 0
	if m.LastPaymentAt, err = storage.ParseTime(lastPayment); err != nil {
		return domain.Member{}, err
	}
	if m.RegisteredAt, err = storage.ParseTime(registered); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

// getOne runs a single-row lookup by one column.
func (s *SQLiteStore) getOne(ctx context.Context, column, value string) (domain.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM member WHERE %s = ?", selectColumns, column)
	m, err := scanMember(s.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("%s %q: %w", column, value, domain.ErrNotFound)
	}
	return m, err
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return s.getOne(ctx, "id", id)
}

// GetByEmail retrieves a Member by email, compared case-insensitively.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	return s.getOne(ctx, "lower(email)", strings.ToLower(strings.TrimSpace(email)))
}

// GetByUniqueCode retrieves a Member by its GYM- code.
func (s *SQLiteStore) GetByUniqueCode(ctx context.Context, code string) (domain.Member, error) {
	return s.getOne(ctx, "unique_code", strings.ToUpper(strings.TrimSpace(code)))
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); registration order is kept on update
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	placeholders := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for i, c := range columns {
		placeholders[i] = "?"
		if c != "id" {
			updates = append(updates, c+"=excluded."+c)
		}
	}
	query := fmt.Sprintf(
		"INSERT INTO member (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		selectColumns,
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	selfRegistered := 0
	if m.SelfRegistered {
		selfRegistered = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.UniqueCode, m.FirstName, m.LastName, m.Age, m.Gender, m.MemberType,
		m.StudentNumber, m.GymPlan, storage.NullString(strings.ToLower(m.Email)), m.ContactNumber, m.Address, m.StartDate,
		m.EndDate, m.Status, m.PaymentStatus, m.PricePaid, storage.FormatTime(m.LastPaymentAt),
		storage.FormatTime(m.RegisteredAt), m.PasswordHash, selfRegistered,
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed, along with its renewal requests and attendance
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns every member in registration order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	return s.list(ctx, fmt.Sprintf("SELECT %s FROM member ORDER BY rowid", selectColumns))
}

// ListPastEnd returns members whose end date is before today and who are not yet Expired.
// PRE: today is YYYY-MM-DD
func (s *SQLiteStore) ListPastEnd(ctx context.Context, today string) ([]domain.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM member WHERE end_date < ? AND status != ? ORDER BY rowid", selectColumns)
	return s.list(ctx, query, today, domain.StatusExpired)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
