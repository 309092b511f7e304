package crudmcp

import (
	"context"
	"time"
)

const listTablesSQL = `
SELECT
    n.nspname AS schema,
    c.relname AS name,
    CASE c.relkind
        WHEN 'r' THEN 'table'
        WHEN 'v' THEN 'view'
        WHEN 'm' THEN 'materialized_view'
        WHEN 'f' THEN 'foreign_table'
        WHEN 'p' THEN 'partitioned_table'
    END AS type,
    pg_catalog.pg_get_userbyid(c.relowner) AS owner
FROM pg_catalog.pg_class c
LEFT JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind IN ('r', 'v', 'm', 'f', 'p')
  AND n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
  AND has_table_privilege(c.oid, 'SELECT')
ORDER BY n.nspname, c.relname`

// ListTables returns all tables, views, materialized views, and foreign
// tables accessible to the current user. Fixed read-only catalog SQL — no
// dynamic construction and no guard checks.
func (c *CrudMcp) ListTables(ctx context.Context, input ListTablesInput) *ListTablesOutput {
	startTime := time.Now()
	out := &ListTablesOutput{Tables: []TableEntry{}}
	fail := func(err error) *ListTablesOutput {
		out.Error, out.ErrorCode = c.failure("list_tables", err)
		return out
	}

	if err := c.checkAvailable(); err != nil {
		return fail(err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, c.timeoutMgr.ForIntrospection())
	defer cancel()

	res, err := c.exec.run(queryCtx, listTablesSQL, nil)
	if err != nil {
		return fail(err)
	}
	for _, row := range res.rows {
		out.Tables = append(out.Tables, TableEntry{
			Schema: stringField(row, "schema"),
			Name:   stringField(row, "name"),
			Type:   stringField(row, "type"),
			Owner:  stringField(row, "owner"),
		})
	}

	c.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("table_count", len(out.Tables)).
		Msg("list_tables executed")
	return out
}

// stringField reads a string column from a collected row, tolerating NULL.
func stringField(row map[string]any, col string) string {
	if s, ok := row[col].(string); ok {
		return s
	}
	return ""
}

// boolField reads a boolean column from a collected row, tolerating NULL.
func boolField(row map[string]any, col string) bool {
	if b, ok := row[col].(bool); ok {
		return b
	}
	return false
}
