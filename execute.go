package crudmcp

import (
	"context"
	"fmt"
	"time"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Execute runs free-form SQL with optional positional parameters. Before
// execution the statement is matched against the dangerous-statement
// rejection list — a textual heuristic, so legitimate statements containing
// blocked substrings in string literals can be over-rejected, and
// obfuscated variants can slip through; it is best effort, not a security
// boundary. When the statement parses, multi-statement input is rejected
// and the read-only classification gates read_only mode; when it does not
// parse, the database reports the syntax error itself.
func (c *CrudMcp) Execute(ctx context.Context, input ExecuteInput) *ExecuteOutput {
	startTime := time.Now()
	out := &ExecuteOutput{Columns: []string{}, Rows: []map[string]any{}, ExecutedAt: nowStamp()}
	fail := func(err error) *ExecuteOutput {
		out.Error, out.ErrorCode = c.failure("execute", err)
		return out
	}

	if err := c.checkAvailable(); err != nil {
		return fail(err)
	}
	if err := c.guard.CheckStatement(input.SQL); err != nil {
		return fail(err)
	}

	readOnlyStmt, stmtCount := classifyStatement(input.SQL)
	if stmtCount > 1 {
		// Each tool invocation issues at most one primary statement.
		return fail(fmt.Errorf("multi-statement queries are not allowed: found %d statements", stmtCount))
	}
	if c.config.ReadOnly && !readOnlyStmt {
		return fail(errReadOnly)
	}

	res, err := c.exec.run(ctx, input.SQL, input.Params)
	if err != nil {
		return fail(err)
	}

	out.Columns = res.columns
	out.Rows = c.sanitizer.Rows(coerceNumericRows(res.rows))
	out.RowsAffected = res.affected

	c.logger.Info().
		Str("sql", truncateForLog(input.SQL, 200)).
		Dur("duration", time.Since(startTime)).
		Int("row_count", len(out.Rows)).
		Int64("rows_affected", out.RowsAffected).
		Bool("read_only_stmt", readOnlyStmt).
		Msg("execute ran")
	return out
}

// classifyStatement parses sql with the Postgres parser and reports whether
// the first statement is read-only, plus the statement count. When the
// parser rejects the text, classification defaults to "modifying" with a
// count of zero and the database reports the syntax error itself.
func classifyStatement(sql string) (readOnly bool, stmtCount int) {
	result, err := pg_query.Parse(sql)
	if err != nil || len(result.Stmts) == 0 {
		return false, 0
	}
	switch result.Stmts[0].Stmt.Node.(type) {
	case *pg_query.Node_SelectStmt, *pg_query.Node_ExplainStmt, *pg_query.Node_VariableShowStmt:
		return true, len(result.Stmts)
	default:
		return false, len(result.Stmts)
	}
}

// truncateForLog truncates a string for log output to avoid oversized
// log entries.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
