package migrations

import (
	"io/fs"
	"sort"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	if len(files) < 2 || files[0] != "001_events.sql" || files[1] != "002_sanctions.sql" {
		t.Fatalf("migrations = %v, want 001_events.sql then 002_sanctions.sql", files)
	}
}
