package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestErrorClassification(t *testing.T) {
	wrappedUnique := fmt.Errorf("create division: %w", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	undefinedTable := &pq.Error{Code: "42P01", Message: `relation "league_documents" does not exist`}

	tests := []struct {
		name           string
		err            error
		notFound       bool
		uniqueViolated bool
		tableMissing   bool
	}{
		{name: "wrapped no rows", err: fmt.Errorf("get division: %w", sql.ErrNoRows), notFound: true},
		{name: "wrapped unique violation", err: wrappedUnique, uniqueViolated: true},
		{name: "undefined table", err: undefinedTable, tableMissing: true},
		{name: "plain error", err: errors.New("pq: duplicate key")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFound(tt.err); got != tt.notFound {
				t.Fatalf("isNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := isUniqueViolation(tt.err); got != tt.uniqueViolated {
				t.Fatalf("isUniqueViolation() = %v, want %v", got, tt.uniqueViolated)
			}
			if got := isUndefinedTable(tt.err); got != tt.tableMissing {
				t.Fatalf("isUndefinedTable() = %v, want %v", got, tt.tableMissing)
			}
		})
	}
}
