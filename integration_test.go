package crudmcp_test

import (
	"context"
	"os"
	"testing"

	crudmcp "github.com/tablecrud/postgres-crud-mcp"
	"github.com/rs/zerolog"
)

// Integration tests run against a real database when
// GOCRUDMCP_TEST_PG_CONNSTRING is set. The execute tool rejects DDL, so the
// fixture table is created out of band; tests skip when it is missing.

func integrationInstance(t *testing.T) *crudmcp.CrudMcp {
	t.Helper()
	connStr := os.Getenv("GOCRUDMCP_TEST_PG_CONNSTRING")
	if connStr == "" {
		t.Skip("GOCRUDMCP_TEST_PG_CONNSTRING not set")
	}
	ctx := context.Background()
	c, err := crudmcp.New(ctx, connStr, crudmcp.Config{
		Pool: crudmcp.PoolConfig{MaxConns: 5},
		Query: crudmcp.QueryConfig{
			DefaultTimeoutSeconds:       30,
			IntrospectionTimeoutSeconds: 10,
		},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create instance: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	return c
}

func TestCRUDRoundTrip(t *testing.T) {
	c := integrationInstance(t)
	ctx := context.Background()

	// The execute tool rejects DDL, so the fixture table must exist already:
	//   CREATE TABLE crudmcp_it (id serial primary key, name text, status text)
	probe := c.Query(ctx, crudmcp.QueryInput{Table: "crudmcp_it"})
	if probe.Error != "" {
		t.Skipf("fixture table crudmcp_it missing: %s", probe.Error)
	}

	ins := c.Insert(ctx, crudmcp.InsertInput{
		Table: "crudmcp_it",
		Data: []map[string]any{
			{"name": "alice", "status": "active"},
			{"name": "bob", "status": "inactive"},
		},
	})
	if ins.Error != "" {
		t.Fatalf("insert failed: %s", ins.Error)
	}
	if ins.InsertedCount != 2 {
		t.Fatalf("InsertedCount = %d", ins.InsertedCount)
	}

	q := c.Query(ctx, crudmcp.QueryInput{
		Table: "crudmcp_it",
		Where: map[string]any{"status": "active"},
	})
	if q.Error != "" {
		t.Fatalf("query failed: %s", q.Error)
	}
	if q.RowCount < 1 {
		t.Fatalf("expected at least one active row, got %d", q.RowCount)
	}

	up := c.Update(ctx, crudmcp.UpdateInput{
		Table: "crudmcp_it",
		Data:  map[string]any{"status": "archived"},
		Where: map[string]any{"name": "alice"},
	})
	if up.Error != "" {
		t.Fatalf("update failed: %s", up.Error)
	}

	del := c.Delete(ctx, crudmcp.DeleteInput{
		Table:   "crudmcp_it",
		Where:   map[string]any{"name": []any{"alice", "bob"}},
		Confirm: true,
	})
	if del.Error != "" {
		t.Fatalf("delete failed: %s", del.Error)
	}
}

func TestListTablesIntegration(t *testing.T) {
	c := integrationInstance(t)
	out := c.ListTables(context.Background(), crudmcp.ListTablesInput{})
	if out.Error != "" {
		t.Fatalf("list_tables failed: %s", out.Error)
	}
}
