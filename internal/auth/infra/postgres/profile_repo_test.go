package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Role lookup gates every admin route; if the queries name a column
// the shipped DDL does not create, RequireRole rejects real admins.
func TestProfileQueriesMatchSchema(t *testing.T) {
	cols := profileSchemaColumns(t)

	for _, c := range []string{"id", "email", "role"} {
		if !cols[c] {
			t.Errorf("queries use column %q, missing from the profiles DDL", c)
		}
	}
}

func profileSchemaColumns(t *testing.T) map[string]bool {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_schema.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	marker := "CREATE TABLE IF NOT EXISTS profiles ("
	start := strings.Index(string(raw), marker)
	if start < 0 {
		t.Fatal("no DDL for table profiles")
	}
	body := string(raw[start+len(marker):])
	end := strings.Index(body, ");")
	if end < 0 {
		t.Fatal("unterminated DDL for table profiles")
	}

	cols := make(map[string]bool)
	for _, line := range strings.Split(body[:end], "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		cols[fields[0]] = true
	}
	return cols
}
