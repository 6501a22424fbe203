package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// TimeLayout is the storage format of timestamps.
const TimeLayout = time.RFC3339Nano

// InitDB opens the schema for use.
// PRE: db is a valid database connection
// POST: WAL mode and foreign keys enabled; schema at LatestSchemaVersion
func InitDB(db *sql.DB) error {
	// WAL keeps readers unblocked while the expiry worker writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return MigrateDB(db)
}

// migrations are applied in order; migration i brings the schema to version i+1.
// Never edit a released migration, append a new one.
var migrations = []func(tx *sql.Tx) error{
	migrateBaseline,
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		if err := migrations[i](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)", version, time.Now().UTC().Format(TimeLayout)); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
		slog.Info("schema_migrated", "version", version)
	}
	return nil
}

// migrateBaseline creates the initial tables.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		unique_code TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		age INTEGER NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		member_type TEXT NOT NULL,
		student_number TEXT NOT NULL DEFAULT '',
		gym_plan TEXT NOT NULL,
		email TEXT UNIQUE,
		contact_number TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		price_paid REAL NOT NULL DEFAULT 0,
		last_payment_at TEXT,
		registered_at TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		self_registered INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS membership_log (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		action_type TEXT NOT NULL,
		action_time TEXT NOT NULL,
		remarks TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS renewal_request (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		requested_plan TEXT NOT NULL,
		status TEXT NOT NULL,
		requested_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS gym_pricing (
		member_type TEXT NOT NULL,
		plan_type TEXT NOT NULL,
		price REAL NOT NULL,
		PRIMARY KEY (member_type, plan_type)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time_in TEXT NOT NULL,
		time_out TEXT,
		UNIQUE (member_id, date),
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_member_end_date ON member(end_date);
	CREATE INDEX IF NOT EXISTS idx_log_action_time ON membership_log(action_time);
	CREATE INDEX IF NOT EXISTS idx_renewal_member_status ON renewal_request(member_id, status);
	`

	_, err := tx.Exec(schema)
	return err
}

// WithTx runs fn inside one transaction on db.
// POST: committed when fn returns nil, rolled back otherwise
func WithTx(ctx context.Context, db SQLDB, fn func(Querier) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// FormatTime renders t for storage; the zero time is stored as NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp; NULL and empty values give the zero time.
func ParseTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimeLayout, s.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s.String, err)
	}
	return t, nil
}

// NullString stores the empty string as NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
