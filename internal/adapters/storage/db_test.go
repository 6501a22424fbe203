package storage

import (
	"database/sql"
	"slices"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
// A single connection keeps every statement on the same in-memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"account",
	"attendance",
	"gym_pricing",
	"member",
	"membership_log",
	"renewal_request",
	"schema_version",
}

// TestInitDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestInitDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed on fresh db: %v", err)
	}
	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}
	if tables := getTableNames(t, db); !slices.Equal(tables, expectedTables) {
		t.Errorf("tables = %v, want %v", tables, expectedTables)
	}
}

// TestMigrateDB_Idempotent verifies a second run is a no-op.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO gym_pricing (member_type, plan_type, price) VALUES ('Student', 'Daily', 50)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}

	var rowsApplied int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rowsApplied); err != nil {
		t.Fatal(err)
	}
	if rowsApplied != LatestSchemaVersion() {
		t.Errorf("schema_version rows = %d, want %d", rowsApplied, LatestSchemaVersion())
	}
	var price float64
	if err := db.QueryRow("SELECT price FROM gym_pricing").Scan(&price); err != nil || price != 50 {
		t.Errorf("data lost after second migration: price=%v err=%v", price, err)
	}
}

// TestMigrateDB_VersionProgression verifies SchemaVersion reports 0 before migration.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	if v, _ = SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestFormatParseTime verifies the NULL round trip for zero times.
func TestFormatParseTime(t *testing.T) {
	if FormatTime(time.Time{}) != nil {
		t.Error("zero time should be stored as NULL")
	}
	now := time.Date(2026, 2, 3, 4, 5, 6, 7, time.UTC)
	s, ok := FormatTime(now).(string)
	if !ok {
		t.Fatal("expected string")
	}
	got, err := ParseTime(sql.NullString{String: s, Valid: true})
	if err != nil || !got.Equal(now) {
		t.Errorf("ParseTime = %v, %v; want %v", got, err, now)
	}
	if got, err := ParseTime(sql.NullString{}); err != nil || !got.IsZero() {
		t.Errorf("NULL should parse to zero time, got %v %v", got, err)
	}
	if _, err := ParseTime(sql.NullString{String: "yesterday", Valid: true}); err == nil {
		t.Error("expected parse error")
	}
}
