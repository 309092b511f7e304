package crudmcp

import (
	"strconv"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
)

// nowStamp is the wall-clock timestamp stamped on every envelope,
// success or failure.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// normalizeMutation reshapes a driver result for a mutating operation.
// With a non-empty returning spec the driver rows pass through unchanged
// (for the supported operations rows == affected count). With an
// explicitly-empty spec the driver reports no rows, so a sequence of
// affected-count empty records is synthesized — callers that inspect shape
// rather than content still see "array length == affected count".
func normalizeMutation(res *dbResult, returning sqlbuild.Returning) (rows []map[string]any, affected int64) {
	affected = res.affected
	if !returning.Empty() {
		return res.rows, affected
	}
	rows = make([]map[string]any, affected)
	for i := range rows {
		rows[i] = map[string]any{}
	}
	return rows, affected
}

// coerceNumericRows applies best-effort numeric coercion to free-form
// execution results: every string field that parses fully as a number is
// replaced by its numeric value. Lossy for numeric-looking text (zip
// codes); this mirrors how untyped results were historically reported and
// is documented rather than silently changed.
func coerceNumericRows(rows []map[string]any) []map[string]any {
	for _, row := range rows {
		for k, v := range row {
			if s, ok := v.(string); ok {
				if n, ok := parseNumber(s); ok {
					row[k] = n
				}
			}
		}
	}
	return rows
}

// parseNumber reports whether s is entirely a number, preferring integer
// representation when exact.
func parseNumber(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

// parseReturning maps the wire-level returning field onto the builder's
// Returning spec: absent means all columns (*), an explicitly empty list
// suppresses the clause, a non-empty list is validated column by column.
func parseReturning(field *[]string) (sqlbuild.Returning, error) {
	if field == nil {
		return sqlbuild.ReturningAll(), nil
	}
	if len(*field) == 0 {
		return sqlbuild.ReturningNone(), nil
	}
	return sqlbuild.ReturningColumns(*field)
}
