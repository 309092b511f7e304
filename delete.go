package crudmcp

import (
	"context"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// Delete executes the delete tool pipeline. The WHERE clause is mandatory.
// Unless the confirm flag is set, the matching row count is estimated with
// a read-only COUNT(*) first: a zero estimate short-circuits to a
// zero-effect success without issuing the DELETE at all, and an estimate
// above the threshold aborts with a confirmation request before any
// mutation occurs. The estimate must complete before the destructive
// statement is issued — this ordering is a correctness requirement.
func (c *CrudMcp) Delete(ctx context.Context, input DeleteInput) *DeleteOutput {
	startTime := time.Now()
	out := &DeleteOutput{Rows: []map[string]any{}, DeletedAt: nowStamp()}
	fail := func(err error) *DeleteOutput {
		out.Error, out.ErrorCode = c.failure("delete", err)
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
	conds, err := sqlbuild.ConditionsFromMap(input.Where)
	if err != nil {
		return fail(err)
	}
	if err := c.guard.RequireWhere("DELETE", len(conds)); err != nil {
		return fail(err)
	}
	returning, err := parseReturning(input.Returning)
	if err != nil {
		return fail(err)
	}

	if !input.Confirm {
		countSQL, countParams := sqlbuild.BuildCount(table, conds)
		countRes, err := c.exec.run(ctx, countSQL, countParams)
		if err != nil {
			return fail(err)
		}
		estimated, err := scalarCount(countRes)
		if err != nil {
			return fail(err)
		}
		if estimated == 0 {
			c.logger.Info().
				Str("table", table).
				Dur("duration", time.Since(startTime)).
				Msg("delete matched no rows, skipped")
			return out
		}
		if err := c.guard.CheckImpact(estimated, false); err != nil {
			out.EstimatedRows = estimated
			return fail(err)
		}
	}

	sql, params := sqlbuild.BuildDelete(sqlbuild.DeleteSpec{
		Table:      table,
		Conditions: conds,
		Returning:  returning,
	})

	res, err := c.exec.run(ctx, sql, params)
	if err != nil {
		return fail(err)
	}
	normRows, affected := normalizeMutation(res, returning)
	out.Rows = c.sanitizer.Rows(normRows)
	out.DeletedCount = affected

	c.logger.Info().
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int64("deleted_count", affected).
		Bool("confirmed", input.Confirm).
		Msg("delete executed")
	return out
}
