package crudmcp

import (
	"context"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// Update executes the update tool pipeline. The WHERE clause is mandatory:
// an empty condition set is rejected before any SQL is constructed.
// SET-clause parameters are numbered before WHERE parameters.
func (c *CrudMcp) Update(ctx context.Context, input UpdateInput) *UpdateOutput {
	startTime := time.Now()
	out := &UpdateOutput{Rows: []map[string]any{}, UpdatedAt: nowStamp()}
	fail := func(err error) *UpdateOutput {
		out.Error, out.ErrorCode = c.failure("update", err)
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

	setColumns, setRows, err := sqlbuild.BatchColumns([]map[string]any{input.Data})
	if err != nil {
		return fail(err)
	}
	conds, err := sqlbuild.ConditionsFromMap(input.Where)
	if err != nil {
		return fail(err)
	}
	if err := c.guard.RequireWhere("UPDATE", len(conds)); err != nil {
		return fail(err)
	}
	returning, err := parseReturning(input.Returning)
	if err != nil {
		return fail(err)
	}

	sql, params := sqlbuild.BuildUpdate(sqlbuild.UpdateSpec{
		Table:      table,
		SetColumns: setColumns,
		SetValues:  setRows[0],
		Conditions: conds,
		Returning:  returning,
	})

	res, err := c.exec.run(ctx, sql, params)
	if err != nil {
		return fail(err)
	}
	normRows, affected := normalizeMutation(res, returning)
	out.Rows = c.sanitizer.Rows(normRows)
	out.UpdatedCount = affected

	c.logger.Info().
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int64("updated_count", affected).
		Msg("update executed")
	return out
}
