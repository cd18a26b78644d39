package repository

import (
	"os"
	"strings"
	"testing"
)

// Columns the repositories bind from pointer fields. Postgres does not fall
// back to a column DEFAULT when handed an explicit NULL, so these must stay
// nullable or inserting an absent value fails with a not-null violation.
var pointerBoundColumns = []string{
	"start_code",
	"end_code",
	"client_push_token",
	"client_email",
	"bio",
	"push_token",
	"notify_email",
	"description",
}

func TestSchemaKeepsPointerColumnsNullable(t *testing.T) {
	raw, err := os.ReadFile("../../../migrations/00001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	lines := strings.Split(string(raw), "\n")
	for _, column := range pointerBoundColumns {
		found := false
		for i, line := range lines {
			fields := strings.Fields(line)
			if len(fields) < 2 || fields[0] != column {
				continue
			}
			found = true
			if strings.Contains(line, "NOT NULL") {
				t.Fatalf("migration line %d: column %s is bound from a pointer and must be nullable: %q",
					i+1, column, strings.TrimSpace(line))
			}
		}
		if !found {
			t.Fatalf("column %s not found in migration", column)
		}
	}
}
