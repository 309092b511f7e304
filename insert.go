package crudmcp

import (
	"context"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// Insert executes the insert tool pipeline. Data may be one record or a
// batch; every record in a batch must share the first record's column set.
// Column order is fixed by the first record and reused for every row, with
// placeholders numbered sequentially in row-major order.
func (c *CrudMcp) Insert(ctx context.Context, input InsertInput) *InsertOutput {
	startTime := time.Now()
	out := &InsertOutput{Rows: []map[string]any{}, InsertedAt: nowStamp()}
	fail := func(err error) *InsertOutput {
		out.Error, out.ErrorCode = c.failure("insert", err)
		return out
	}

	if err := c.checkAvailable(); err != nil {
		return fail(err)
	}
	if c.config.ReadOnly {
		return fail(errReadOnly)
	}

	table, err := sqlident.Validate(input.Table)
	if err != nil {
		return fail(err)
	}
	if len(input.Data) == 0 {
		return fail(errNoData)
	}
	for i, rec := range input.Data {
		if len(rec) == 0 {
			return fail(argErrorf("record at index %d is empty", i))
		}
	}

	columns, rows, err := sqlbuild.BatchColumns(input.Data)
	if err != nil {
		return fail(err)
	}
	policy, err := parseConflictPolicy(input.OnConflict)
	if err != nil {
		return fail(err)
	}
	conflictCols, err := sqlident.ValidateAll(input.ConflictColumns)
	if err != nil {
		return fail(err)
	}
	returning, err := parseReturning(input.Returning)
	if err != nil {
		return fail(err)
	}

	sql, params := sqlbuild.BuildInsert(sqlbuild.InsertSpec{
		Table:           table,
		Columns:         columns,
		Rows:            rows,
		OnConflict:      policy,
		ConflictColumns: conflictCols,
		Returning:       returning,
	})

	res, err := c.exec.run(ctx, sql, params)
	if err != nil {
		return fail(err)
	}
	normRows, affected := normalizeMutation(res, returning)
	out.Rows = c.sanitizer.Rows(normRows)
	out.InsertedCount = affected

	c.logger.Info().
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int64("inserted_count", affected).
		Str("on_conflict", string(policy)).
		Msg("insert executed")
	return out
}

func parseConflictPolicy(raw string) (sqlbuild.ConflictPolicy, error) {
	switch raw {
	case "", string(sqlbuild.ConflictError):
		return sqlbuild.ConflictError, nil
	case string(sqlbuild.ConflictIgnore):
		return sqlbuild.ConflictIgnore, nil
	case string(sqlbuild.ConflictUpdate):
		return sqlbuild.ConflictUpdate, nil
	default:
		return "", argErrorf("on_conflict must be error, ignore, or update, got %q", raw)
	}
}
