package database

import (
	"strings"
	"testing"

	"github.com/Shimizu-Technology/ocr-api/internal/models"
)

// TestListQuery checks the generated SQL without a live database.
// Go Pattern: Pulling query building into a pure function keeps it testable.
func TestListQuery(t *testing.T) {
	tests := []struct {
		name      string
		params    models.ExtractionListParams
		wantWhere bool
		wantArgs  []interface{}
	}{
		{"defaults", models.ExtractionListParams{}, false, []interface{}{20}},
		{"limit kept", models.ExtractionListParams{Limit: 5}, false, []interface{}{5}},
		{"limit too large", models.ExtractionListParams{Limit: 1000}, false, []interface{}{20}},
		{"file type filter", models.ExtractionListParams{Limit: 3, FileType: "pdf"}, true, []interface{}{"pdf", 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := listQuery(tt.params)

			hasWhere := strings.Contains(query, "WHERE file_kind = $1")
			if hasWhere != tt.wantWhere {
				t.Errorf("WHERE present = %v, want %v (query: %s)", hasWhere, tt.wantWhere, query)
			}
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Errorf("query is not ordered newest first: %s", query)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestMigrationSource(t *testing.T) {
	if _, err := migrationSource(""); err == nil {
		t.Error("migrationSource(\"\") should fail")
	}

	got, err := migrationSource("/srv/ocr/migrations")
	if err != nil {
		t.Fatalf("migrationSource: %v", err)
	}
	if got != "file:///srv/ocr/migrations" {
		t.Errorf("migrationSource = %q, want file:///srv/ocr/migrations", got)
	}

	rel, err := migrationSource("migrations")
	if err != nil {
		t.Fatalf("migrationSource: %v", err)
	}
	if !strings.HasPrefix(rel, "file:///") || !strings.HasSuffix(rel, "/migrations") {
		t.Errorf("relative path resolved to %q", rel)
	}
}
