package sqlbuild

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

func TestClassifyNull(t *testing.T) {
	t.Parallel()
	v := Classify(nil)
	if v.Kind != KindNull {
		t.Errorf("Classify(nil).Kind = %v, want KindNull", v.Kind)
	}
}

func TestClassifyList(t *testing.T) {
	t.Parallel()
	v := Classify([]any{1, 2, 3})
	if v.Kind != KindList {
		t.Errorf("Kind = %v, want KindList", v.Kind)
	}
	if len(v.List) != 3 {
		t.Errorf("len(List) = %d, want 3", len(v.List))
	}
}

func TestClassifyWildcard(t *testing.T) {
	t.Parallel()
	v := Classify("alice%")
	if v.Kind != KindWildcard {
		t.Errorf("Kind = %v, want KindWildcard", v.Kind)
	}
	if v.Scalar != "alice%" {
		t.Errorf("Scalar = %v, want raw string with marker", v.Scalar)
	}
}

func TestClassifyPlainStringIsScalar(t *testing.T) {
	t.Parallel()
	v := Classify("alice")
	if v.Kind != KindScalar {
		t.Errorf("Kind = %v, want KindScalar", v.Kind)
	}
}

func TestClassifyNumberIsScalar(t *testing.T) {
	t.Parallel()
	v := Classify(42.0)
	if v.Kind != KindScalar || v.Scalar != 42.0 {
		t.Errorf("unexpected Value: %+v", v)
	}
}

func TestCompileEquality(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	if sql != "status = $1" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(params, []any{"active"}) {
		t.Errorf("params = %v", params)
	}
}

func TestCompileIsNull(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"deleted_at": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	if sql != "deleted_at IS NULL" {
		t.Errorf("sql = %q", sql)
	}
	if len(params) != 0 {
		t.Errorf("IS NULL must consume no parameters, got %v", params)
	}
}

func TestCompileIn(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"id": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	if sql != "id IN ($1, $2, $3)" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(params, []any{1, 2, 3}) {
		t.Errorf("params = %v", params)
	}
}

func TestCompileEmptyIn(t *testing.T) {
	t.Parallel()
	// An empty list still compiles, to a clause that matches nothing.
	conds, err := ConditionsFromMap(map[string]any{"id": []any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	if sql != "id IN ()" {
		t.Errorf("sql = %q", sql)
	}
	if len(params) != 0 {
		t.Errorf("params = %v, want none", params)
	}
}

func TestCompileLike(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"name": "ali%"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	if sql != "name LIKE $1" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(params, []any{"ali%"}) {
		t.Errorf("params = %v, want raw pattern", params)
	}
}

func TestCompileMultipleConditionsSortedAndNumbered(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{
		"status":     "active",
		"age":        []any{30, 40},
		"deleted_at": nil,
		"name":       "a%",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := CompileConditions(conds)
	// Keys iterate in sorted order: age, deleted_at, name, status.
	want := "age IN ($1, $2) AND deleted_at IS NULL AND name LIKE $3 AND status = $4"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(params, []any{30, 40, "a%", "active"}) {
		t.Errorf("params = %v", params)
	}
}

func TestConditionsFromMapRejectsInvalidColumn(t *testing.T) {
	t.Parallel()
	_, err := ConditionsFromMap(map[string]any{"col; DROP TABLE x": 1})
	var invalidErr *sqlident.InvalidError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected *sqlident.InvalidError, got %v", err)
	}
}

func TestConditionsFromMapEmpty(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conds != nil {
		t.Errorf("expected nil conditions, got %v", conds)
	}
}

func TestPlaceholderNumberingIsContiguous(t *testing.T) {
	t.Parallel()
	var st Statement
	st.Raw("SELECT 1 WHERE a = ")
	st.Bind("x")
	st.Raw(" AND b = ")
	st.Bind("y")
	if st.NextIndex() != 3 {
		t.Errorf("NextIndex = %d, want 3", st.NextIndex())
	}
	if st.SQL() != "SELECT 1 WHERE a = $1 AND b = $2" {
		t.Errorf("sql = %q", st.SQL())
	}
	if len(st.Params()) != 2 {
		t.Errorf("params = %v", st.Params())
	}
}
