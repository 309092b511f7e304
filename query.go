package crudmcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// maxPageLimit bounds the pagination limit of the query tool.
const maxPageLimit = 1000

// Query executes the query tool pipeline: identifier validation, condition
// compilation, SELECT construction, execution, and result normalization.
// With pagination, a companion COUNT(*) statement (same WHERE fragment and
// parameters) computes the total for the pagination block. All failures are
// reported through the envelope, never as Go errors.
func (c *CrudMcp) Query(ctx context.Context, input QueryInput) *QueryOutput {
	startTime := time.Now()
	out := &QueryOutput{Rows: []map[string]any{}, QueriedAt: nowStamp()}
	fail := func(err error) *QueryOutput {
		out.Error, out.ErrorCode = c.failure("query", err)
		return out
	}

	if err := c.checkAvailable(); err != nil {
		return fail(err)
	}

	table, err := sqlident.Validate(input.Table)
	if err != nil {
		return fail(err)
	}
	columns, err := sqlident.ValidateAll(input.Columns)
	if err != nil {
		return fail(err)
	}
	conds, err := sqlbuild.ConditionsFromMap(input.Where)
	if err != nil {
		return fail(err)
	}

	var orderBy string
	orderDir := sqlbuild.SortAsc
	if input.OrderBy != "" {
		orderBy, err = sqlident.Validate(input.OrderBy)
		if err != nil {
			return fail(err)
		}
		orderDir, err = parseSortDir(input.OrderDir)
		if err != nil {
			return fail(err)
		}
	}

	var pagination *sqlbuild.Pagination
	if input.Pagination != nil {
		if input.Pagination.Limit < 1 || input.Pagination.Limit > maxPageLimit {
			return fail(argErrorf("pagination limit must be between 1 and %d, got %d", maxPageLimit, input.Pagination.Limit))
		}
		if input.Pagination.Offset < 0 {
			return fail(argErrorf("pagination offset must be >= 0, got %d", input.Pagination.Offset))
		}
		pagination = &sqlbuild.Pagination{Limit: input.Pagination.Limit, Offset: input.Pagination.Offset}
	}

	sql, params := sqlbuild.BuildSelect(sqlbuild.SelectSpec{
		Table:      table,
		Columns:    columns,
		Conditions: conds,
		OrderBy:    orderBy,
		OrderDir:   orderDir,
		Pagination: pagination,
	})

	res, err := c.exec.run(ctx, sql, params)
	if err != nil {
		return fail(err)
	}
	out.Rows = c.sanitizer.Rows(res.rows)
	out.RowCount = len(out.Rows)

	if input.Pagination != nil {
		countSQL, countParams := sqlbuild.BuildCount(table, conds)
		countRes, err := c.exec.run(ctx, countSQL, countParams)
		if err != nil {
			return fail(err)
		}
		total, err := scalarCount(countRes)
		if err != nil {
			return fail(err)
		}
		out.Pagination = &PageInfo{
			Total:   total,
			Limit:   input.Pagination.Limit,
			Offset:  input.Pagination.Offset,
			HasMore: input.Pagination.Offset+input.Pagination.Limit < total,
		}
	}

	c.logger.Info().
		Str("table", table).
		Dur("duration", time.Since(startTime)).
		Int("row_count", out.RowCount).
		Msg("query executed")
	return out
}

func parseSortDir(dir string) (sqlbuild.SortDir, error) {
	switch strings.ToUpper(dir) {
	case "", "ASC":
		return sqlbuild.SortAsc, nil
	case "DESC":
		return sqlbuild.SortDesc, nil
	default:
		return "", argErrorf("order_dir must be ASC or DESC, got %q", dir)
	}
}

// scalarCount extracts the single COUNT(*) value from a driver result.
func scalarCount(res *dbResult) (int, error) {
	if len(res.rows) == 0 || len(res.columns) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch n := res.rows[0][res.columns[0]].(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("count query returned unexpected type %T", n)
	}
}
