package sqlbuild

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildInsertSingleRow(t *testing.T) {
	t.Parallel()
	sql, params := BuildInsert(InsertSpec{
		Table:     "users",
		Columns:   []string{"age", "name"},
		Rows:      [][]any{{30, "alice"}},
		Returning: ReturningAll(),
	})
	want := "INSERT INTO users (age, name) VALUES ($1, $2) RETURNING *"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(params, []any{30, "alice"}) {
		t.Errorf("params = %v", params)
	}
}

func TestBuildInsertMultiRowRowMajorNumbering(t *testing.T) {
	t.Parallel()
	sql, params := BuildInsert(InsertSpec{
		Table:   "users",
		Columns: []string{"age", "name"},
		Rows:    [][]any{{30, "alice"}, {25, "bob"}, {41, "carol"}},
	})
	want := "INSERT INTO users (age, name) VALUES ($1, $2), ($3, $4), ($5, $6)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(params, []any{30, "alice", 25, "bob", 41, "carol"}) {
		t.Errorf("params = %v", params)
	}
}

func TestBuildInsertConflictErrorAppendsNothing(t *testing.T) {
	t.Parallel()
	sql, _ := BuildInsert(InsertSpec{
		Table:      "users",
		Columns:    []string{"name"},
		Rows:       [][]any{{"alice"}},
		OnConflict: ConflictError,
	})
	if sql != "INSERT INTO users (name) VALUES ($1)" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuildInsertConflictIgnore(t *testing.T) {
	t.Parallel()
	sql, _ := BuildInsert(InsertSpec{
		Table:      "users",
		Columns:    []string{"name"},
		Rows:       [][]any{{"alice"}},
		OnConflict: ConflictIgnore,
	})
	if sql != "INSERT INTO users (name) VALUES ($1) ON CONFLICT DO NOTHING" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuildInsertConflictIgnoreWithTarget(t *testing.T) {
	t.Parallel()
	sql, _ := BuildInsert(InsertSpec{
		Table:           "users",
		Columns:         []string{"email", "name"},
		Rows:            [][]any{{"a@x.io", "alice"}},
		OnConflict:      ConflictIgnore,
		ConflictColumns: []string{"email"},
	})
	want := "INSERT INTO users (email, name) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuildInsertConflictUpdateUsesExcluded(t *testing.T) {
	t.Parallel()
	sql, _ := BuildInsert(InsertSpec{
		Table:           "users",
		Columns:         []string{"email", "name", "score"},
		Rows:            [][]any{{"a@x.io", "alice", 10}},
		OnConflict:      ConflictUpdate,
		ConflictColumns: []string{"email"},
	})
	want := "INSERT INTO users (email, name, score) VALUES ($1, $2, $3)" +
		" ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, score = EXCLUDED.score"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuildInsertConflictUpdateAllColumnsConflictingFallsBack(t *testing.T) {
	t.Parallel()
	// Every inserted column is a conflict column: DO UPDATE would be empty,
	// so the clause degrades to DO NOTHING.
	sql, _ := BuildInsert(InsertSpec{
		Table:           "users",
		Columns:         []string{"email"},
		Rows:            [][]any{{"a@x.io"}},
		OnConflict:      ConflictUpdate,
		ConflictColumns: []string{"email"},
	})
	want := "INSERT INTO users (email) VALUES ($1) ON CONFLICT (email) DO NOTHING"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuildInsertReturningColumns(t *testing.T) {
	t.Parallel()
	ret, err := ReturningColumns([]string{"id", "created_at"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, _ := BuildInsert(InsertSpec{
		Table:     "users",
		Columns:   []string{"name"},
		Rows:      [][]any{{"alice"}},
		Returning: ret,
	})
	if sql != "INSERT INTO users (name) VALUES ($1) RETURNING id, created_at" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBatchColumnsSortedByFirstRecord(t *testing.T) {
	t.Parallel()
	cols, rows, err := BatchColumns([]map[string]any{
		{"name": "alice", "age": 30},
		{"age": 25, "name": "bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"age", "name"}) {
		t.Errorf("columns = %v", cols)
	}
	if !reflect.DeepEqual(rows, [][]any{{30, "alice"}, {25, "bob"}}) {
		t.Errorf("rows = %v", rows)
	}
}

func TestBatchColumnsMismatchMissingKey(t *testing.T) {
	t.Parallel()
	_, _, err := BatchColumns([]map[string]any{
		{"name": "alice", "age": 30},
		{"name": "bob"},
	})
	var mismatch *BatchMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *BatchMismatchError, got %v", err)
	}
	if mismatch.Index != 1 {
		t.Errorf("Index = %d, want 1", mismatch.Index)
	}
}

func TestBatchColumnsMismatchExtraKey(t *testing.T) {
	t.Parallel()
	_, _, err := BatchColumns([]map[string]any{
		{"name": "alice"},
		{"name": "bob", "age": 25},
	})
	var mismatch *BatchMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *BatchMismatchError, got %v", err)
	}
}

func TestBatchColumnsRejectsInvalidColumn(t *testing.T) {
	t.Parallel()
	_, _, err := BatchColumns([]map[string]any{{"bad col": 1}})
	if err == nil {
		t.Fatal("expected error for invalid column name")
	}
}

func TestBatchColumnsEmptyBatch(t *testing.T) {
	t.Parallel()
	cols, rows, err := BatchColumns(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols != nil || rows != nil {
		t.Errorf("expected nil results, got %v / %v", cols, rows)
	}
}
