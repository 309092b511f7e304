package sqlbuild

import (
	"reflect"
	"testing"
)

func TestBuildSelectAllColumns(t *testing.T) {
	t.Parallel()
	sql, params := BuildSelect(SelectSpec{Table: "users"})
	if sql != "SELECT * FROM users" {
		t.Errorf("sql = %q", sql)
	}
	if len(params) != 0 {
		t.Errorf("params = %v", params)
	}
}

func TestBuildSelectExplicitColumns(t *testing.T) {
	t.Parallel()
	sql, _ := BuildSelect(SelectSpec{Table: "users", Columns: []string{"id", "name"}})
	if sql != "SELECT id, name FROM users" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuildSelectWithWhere(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := BuildSelect(SelectSpec{Table: "users", Conditions: conds})
	if sql != "SELECT * FROM users WHERE status = $1" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(params, []any{"active"}) {
		t.Errorf("params = %v", params)
	}
}

func TestBuildSelectOrderBy(t *testing.T) {
	t.Parallel()
	sql, _ := BuildSelect(SelectSpec{Table: "users", OrderBy: "created_at", OrderDir: SortDesc})
	if sql != "SELECT * FROM users ORDER BY created_at DESC" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuildSelectOrderByDefaultsAsc(t *testing.T) {
	t.Parallel()
	sql, _ := BuildSelect(SelectSpec{Table: "users", OrderBy: "name"})
	if sql != "SELECT * FROM users ORDER BY name ASC" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuildSelectPaginationNumbersAfterWhere(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"status": "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := BuildSelect(SelectSpec{
		Table:      "users",
		Conditions: conds,
		OrderBy:    "id",
		Pagination: &Pagination{Limit: 20, Offset: 40},
	})
	want := "SELECT * FROM users WHERE status = $1 ORDER BY id ASC LIMIT $2 OFFSET $3"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(params, []any{"active", 20, 40}) {
		t.Errorf("params = %v", params)
	}
}

func TestBuildCountSharesWhereFragment(t *testing.T) {
	t.Parallel()
	conds, err := ConditionsFromMap(map[string]any{"id": []any{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, params := BuildCount("users", conds)
	if sql != "SELECT COUNT(*) FROM users WHERE id IN ($1, $2)" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(params, []any{1, 2}) {
		t.Errorf("params = %v", params)
	}
}

func TestBuildCountNoConditions(t *testing.T) {
	t.Parallel()
	sql, params := BuildCount("users", nil)
	if sql != "SELECT COUNT(*) FROM users" {
		t.Errorf("sql = %q", sql)
	}
	if len(params) != 0 {
		t.Errorf("params = %v", params)
	}
}
