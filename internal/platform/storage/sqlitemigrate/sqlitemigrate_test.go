package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}

func TestApplyRunsFilesInOrderOnce(t *testing.T) {
	db := openDB(t)
	migrations := fstest.MapFS{
		"migrations/002_rows.sql":   {Data: []byte("-- +migrate Up\nINSERT INTO sanctions(uid) VALUES ('p1');\n-- +migrate Down\nDELETE FROM sanctions;")},
		"migrations/001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE sanctions(uid TEXT PRIMARY KEY);")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}

	applied, err := Apply(context.Background(), db, migrations, "migrations")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(applied) != 2 || applied[0] != "migrations/001_create.sql" || applied[1] != "migrations/002_rows.sql" {
		t.Fatalf("applied = %v, want both files in order", applied)
	}

	again, err := Apply(context.Background(), db, migrations, "migrations")
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("re-applied = %v, want none", again)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM sanctions"); got != 1 {
		t.Fatalf("sanction rows = %d, want 1", got)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("history rows = %d, want 2", got)
	}
}

func TestApplyLeavesFailedMigrationUnrecorded(t *testing.T) {
	db := openDB(t)
	bad := fstest.MapFS{"001_bad.sql": {Data: []byte("-- +migrate Up\nCREAT TABLE things(id INT);")}}

	if _, err := Apply(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("history rows = %d, want 0", got)
	}

	good := fstest.MapFS{"001_bad.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE things(id INT);")}}
	if _, err := Apply(context.Background(), db, good, "."); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("history rows = %d, want 1", got)
	}
}

func TestApplyAdoptsExistingSchema(t *testing.T) {
	db := openDB(t)
	if _, err := db.Exec("CREATE TABLE events(seq INTEGER)"); err != nil {
		t.Fatalf("pre-create: %v", err)
	}
	migrations := fstest.MapFS{"001.sql": {Data: []byte("CREATE TABLE events(seq INTEGER);")}}
	applied, err := Apply(context.Background(), db, migrations, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("applied = %v, want 1 entry", applied)
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if _, err := Apply(context.Background(), nil, fstest.MapFS{}, ""); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("err = %v, want %v", err, ErrDBRequired)
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no markers", "CREATE TABLE a(x);", "CREATE TABLE a(x);"},
		{"up only", "-- +migrate Up\nCREATE TABLE a(x);", "\nCREATE TABLE a(x);"},
		{"up and down", "-- +migrate Up\nA;\n-- +migrate Down\nB;", "\nA;\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UpSection(tc.content); got != tc.want {
				t.Fatalf("UpSection = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if IsAlreadyExistsError(nil) {
		t.Fatal("nil error should not match")
	}
	if !IsAlreadyExistsError(errors.New("table events already exists")) {
		t.Fatal("expected already exists to match")
	}
	if !IsAlreadyExistsError(errors.New("duplicate column name: vekn")) {
		t.Fatal("expected duplicate column to match")
	}
	if IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("syntax error should not match")
	}
}
