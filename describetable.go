package crudmcp

import (
	"context"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

const describeColumnsSQL = `
SELECT
    a.attname AS name,
    pg_catalog.format_type(a.atttypid, a.atttypmod) AS type,
    NOT a.attnotnull AS nullable,
    COALESCE(pg_catalog.pg_get_expr(d.adbin, d.adrelid), '') AS default_expr,
    COALESCE(ct.contype = 'p', false) AS is_primary_key
FROM pg_catalog.pg_attribute a
JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
LEFT JOIN pg_catalog.pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
LEFT JOIN pg_catalog.pg_constraint ct
    ON ct.conrelid = c.oid AND ct.contype = 'p' AND a.attnum = ANY(ct.conkey)
WHERE n.nspname = $1
  AND c.relname = $2
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

const describeIndexesSQL = `
SELECT
    i.relname AS name,
    pg_catalog.pg_get_indexdef(x.indexrelid) AS definition,
    x.indisunique AS is_unique,
    x.indisprimary AS is_primary
FROM pg_catalog.pg_index x
JOIN pg_catalog.pg_class c ON c.oid = x.indrelid
JOIN pg_catalog.pg_class i ON i.oid = x.indexrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1
  AND c.relname = $2
ORDER BY i.relname`

const describeForeignKeysSQL = `
SELECT
    con.conname AS name,
    pg_catalog.array_to_string(ARRAY(
        SELECT a.attname FROM pg_catalog.pg_attribute a
        WHERE a.attrelid = con.conrelid AND a.attnum = ANY(con.conkey)
    ), ', ') AS columns,
    confrel.relname AS referenced_table,
    pg_catalog.array_to_string(ARRAY(
        SELECT a.attname FROM pg_catalog.pg_attribute a
        WHERE a.attrelid = con.confrelid AND a.attnum = ANY(con.confkey)
    ), ', ') AS referenced_columns
FROM pg_catalog.pg_constraint con
JOIN pg_catalog.pg_class c ON c.oid = con.conrelid
JOIN pg_catalog.pg_class confrel ON confrel.oid = con.confrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1
  AND c.relname = $2
  AND con.contype = 'f'
ORDER BY con.conname`

// DescribeTable returns columns, indexes, and foreign keys for one table.
// Fixed read-only catalog SQL; the table and schema names are validated as
// identifiers and then bound as parameters, never embedded in the text.
func (c *CrudMcp) DescribeTable(ctx context.Context, input DescribeTableInput) *DescribeTableOutput {
	startTime := time.Now()
	out := &DescribeTableOutput{
		Columns:     []ColumnInfo{},
		Indexes:     []IndexInfo{},
		ForeignKeys: []ForeignKeyInfo{},
	}
	fail := func(err error) *DescribeTableOutput {
		out.Error, out.ErrorCode = c.failure("describe_table", err)
		return out
	}

	if err := c.checkAvailable(); err != nil {
		return fail(err)
	}

	schema := input.Schema
	if schema == "" {
		schema = "public"
	}
	schema, err := sqlident.Validate(schema)
	if err != nil {
		return fail(err)
	}
	table, err := sqlident.Validate(input.Table)
	if err != nil {
		return fail(err)
	}
	out.Schema = schema
	out.Name = table

	queryCtx, cancel := context.WithTimeout(ctx, c.timeoutMgr.ForIntrospection())
	defer cancel()
	params := []any{schema, table}

	colRes, err := c.exec.run(queryCtx, describeColumnsSQL, params)
	if err != nil {
		return fail(err)
	}
	for _, row := range colRes.rows {
		out.Columns = append(out.Columns, ColumnInfo{
			Name:         stringField(row, "name"),
			Type:         stringField(row, "type"),
			Nullable:     boolField(row, "nullable"),
			Default:      stringField(row, "default_expr"),
			IsPrimaryKey: boolField(row, "is_primary_key"),
		})
	}

	idxRes, err := c.exec.run(queryCtx, describeIndexesSQL, params)
	if err != nil {
		return fail(err)
	}
	for _, row := range idxRes.rows {
		out.Indexes = append(out.Indexes, IndexInfo{
			Name:       stringField(row, "name"),
			Definition: stringField(row, "definition"),
			IsUnique:   boolField(row, "is_unique"),
			IsPrimary:  boolField(row, "is_primary"),
		})
	}

	fkRes, err := c.exec.run(queryCtx, describeForeignKeysSQL, params)
	if err != nil {
		return fail(err)
	}
	for _, row := range fkRes.rows {
		out.ForeignKeys = append(out.ForeignKeys, ForeignKeyInfo{
			Name:              stringField(row, "name"),
			Columns:           stringField(row, "columns"),
			ReferencedTable:   stringField(row, "referenced_table"),
			ReferencedColumns: stringField(row, "referenced_columns"),
		})
	}

	c.logger.Info().
		Str("schema", schema).
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int("column_count", len(out.Columns)).
		Msg("describe_table executed")
	return out
}
