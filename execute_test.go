package crudmcp

import (
	"context"
	"testing"
)

func TestExecuteRunsSelect(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	fake.enqueue(&dbResult{
		columns: []string{"id", "name"},
		rows:    []map[string]any{{"id": int64(1), "name": "alice"}},
	})
	c := newTestEngine(t, testConfig(), fake)

	out := c.Execute(context.Background(), ExecuteInput{
		SQL:    "SELECT id, name FROM users WHERE id = $1",
		Params: []any{1},
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if len(out.Rows) != 1 || len(out.Columns) != 2 {
		t.Errorf("rows = %v, columns = %v", out.Rows, out.Columns)
	}
}

func TestExecuteRejectsDangerousStatements(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	c := newTestEngine(t, testConfig(), fake)

	cases := []string{
		"DROP TABLE users",
		"TRUNCATE TABLE users",
		"DELETE FROM users",
		"UPDATE users SET status = 'x'",
		"INSERT INTO users VALUES (1)",
		"",
	}
	for _, sql := range cases {
		out := c.Execute(context.Background(), ExecuteInput{SQL: sql})
		if out.ErrorCode != CodeDangerousStatement {
			t.Errorf("Execute(%q): ErrorCode = %q, want %q", sql, out.ErrorCode, CodeDangerousStatement)
		}
	}
	if len(fake.calls) != 0 {
		t.Error("rejected statements must never reach the executor")
	}
}

func TestExecuteAllowsBoundedMutations(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	fake.enqueue(&dbResult{affected: 2, rows: []map[string]any{}})
	c := newTestEngine(t, testConfig(), fake)

	out := c.Execute(context.Background(), ExecuteInput{
		SQL: "DELETE FROM users WHERE id = $1",
	})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if out.RowsAffected != 2 {
		t.Errorf("RowsAffected = %d", out.RowsAffected)
	}
}

func TestExecuteRejectsMultiStatement(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	c := newTestEngine(t, testConfig(), fake)

	out := c.Execute(context.Background(), ExecuteInput{
		SQL: "SELECT 1; SELECT 2",
	})
	if out.Error == "" {
		t.Fatal("expected rejection of multi-statement input")
	}
	if !containsStr(out.Error, "multi-statement") {
		t.Errorf("unexpected message: %q", out.Error)
	}
	if len(fake.calls) != 0 {
		t.Error("multi-statement input must never reach the executor")
	}
}

func TestExecuteReadOnlyBlocksWrites(t *testing.T) {
	t.Parallel()
	config := testConfig()
	config.ReadOnly = true
	fake := &fakeExecutor{}
	c := newTestEngine(t, config, fake)

	out := c.Execute(context.Background(), ExecuteInput{
		SQL: "UPDATE users SET status = 'x' WHERE id = 1",
	})
	if out.ErrorCode != CodeReadOnly {
		t.Errorf("ErrorCode = %q, want %q", out.ErrorCode, CodeReadOnly)
	}
	if len(fake.calls) != 0 {
		t.Error("writes must not reach the executor in read-only mode")
	}
}

func TestExecuteReadOnlyAllowsSelect(t *testing.T) {
	t.Parallel()
	config := testConfig()
	config.ReadOnly = true
	fake := &fakeExecutor{}
	fake.enqueue(&dbResult{columns: []string{"n"}, rows: []map[string]any{{"n": int64(1)}}})
	c := newTestEngine(t, config, fake)

	out := c.Execute(context.Background(), ExecuteInput{SQL: "SELECT 1 AS n"})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if len(fake.calls) != 1 {
		t.Error("SELECT should run in read-only mode")
	}
}

func TestExecuteCoercesNumericStrings(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	fake.enqueue(&dbResult{
		columns: []string{"total", "ratio", "name"},
		rows: []map[string]any{
			{"total": "42", "ratio": "3.14", "name": "abc"},
		},
	})
	c := newTestEngine(t, testConfig(), fake)

	out := c.Execute(context.Background(), ExecuteInput{SQL: "SELECT total, ratio, name FROM stats"})
	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	row := out.Rows[0]
	if row["total"] != int64(42) {
		t.Errorf("total = %v (%T), want int64 42", row["total"], row["total"])
	}
	if row["ratio"] != 3.14 {
		t.Errorf("ratio = %v (%T), want float64 3.14", row["ratio"], row["ratio"])
	}
	if row["name"] != "abc" {
		t.Errorf("name = %v, want untouched string", row["name"])
	}
}

func TestExecuteUnavailable(t *testing.T) {
	t.Parallel()
	fake := &fakeExecutor{}
	c := newTestEngine(t, testConfig(), fake)
	c.setStatus(StatusFailed)

	out := c.Execute(context.Background(), ExecuteInput{SQL: "SELECT 1"})
	if out.ErrorCode != CodeDatabaseUnavailable {
		t.Errorf("ErrorCode = %q, want %q", out.ErrorCode, CodeDatabaseUnavailable)
	}
}

func TestClassifyStatementReadOnly(t *testing.T) {
	t.Parallel()
	cases := []struct {
		sql      string
		readOnly bool
	}{
		{"SELECT 1", true},
		{"EXPLAIN SELECT * FROM users", true},
		{"SHOW search_path", true},
		{"DELETE FROM users WHERE id = 1", false},
		{"UPDATE users SET x = 1 WHERE id = 1", false},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
	}
	for _, tc := range cases {
		readOnly, count := classifyStatement(tc.sql)
		if readOnly != tc.readOnly {
			t.Errorf("classifyStatement(%q) readOnly = %v, want %v", tc.sql, readOnly, tc.readOnly)
		}
		if count != 1 {
			t.Errorf("classifyStatement(%q) count = %d, want 1", tc.sql, count)
		}
	}
}

func TestClassifyStatementUnparseable(t *testing.T) {
	t.Parallel()
	readOnly, count := classifyStatement("this is not sql")
	if readOnly {
		t.Error("unparseable input must classify as modifying")
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
