package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"memberdesk/internal/adapters/storage"
	domain "memberdesk/internal/domain/account"
)

const selectAccount = "SELECT id, email, password_hash, role, created_at, failed_logins, locked_until FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	entity, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("id %q: %w", id, domain.ErrNotFound)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email, compared case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	entity, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE email = ?", email).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("email %q: %w", email, domain.ErrNotFound)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, password_hash, role, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			password_hash=excluded.password_hash,
			role=excluded.role,
			failed_logins=excluded.failed_logins,
			locked_until=excluded.locked_until`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash, a.Role,
		storage.FormatTime(a.CreatedAt), a.FailedLogins, storage.FormatTime(a.LockedUntil),
	)
	return err
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt, lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if entity.LockedUntil, err = storage.ParseTime(lockedUntil); err != nil {
		return domain.Account{}, err
	}
	return entity, nil
}
