package crudmcp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablecrud/postgres-crud-mcp/internal/errprompt"
	"github.com/tablecrud/postgres-crud-mcp/internal/guard"
	"github.com/tablecrud/postgres-crud-mcp/internal/sanitize"
	"github.com/tablecrud/postgres-crud-mcp/internal/timeout"
)

// fakeCall records one statement issued through the executor seam.
type fakeCall struct {
	sql    string
	params []any
}

// fakeExecutor satisfies executor without a database. Responses are consumed
// from a queue in order; an empty queue yields an empty result.
type fakeExecutor struct {
	calls []fakeCall
	queue []fakeResponse
}

type fakeResponse struct {
	res *dbResult
	err error
}

func (f *fakeExecutor) run(ctx context.Context, sql string, params []any) (*dbResult, error) {
	f.calls = append(f.calls, fakeCall{sql: sql, params: params})
	if len(f.queue) == 0 {
		return &dbResult{columns: []string{}, rows: []map[string]any{}}, nil
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.res, next.err
}

func (f *fakeExecutor) enqueue(res *dbResult) {
	f.queue = append(f.queue, fakeResponse{res: res})
}

func (f *fakeExecutor) enqueueErr(err error) {
	f.queue = append(f.queue, fakeResponse{err: err})
}

// errRelationMissing stands in for a driver-reported missing relation.
var errRelationMissing = errors.New(`relation "ghosts" does not exist`)

func containsStr(s, substr string) bool {
	return strings.Contains(s, substr)
}

// countResult shapes a COUNT(*) driver result.
func countResult(n int64) *dbResult {
	return &dbResult{
		columns: []string{"count"},
		rows:    []map[string]any{{"count": n}},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

func testConfig() Config {
	return Config{
		Pool: PoolConfig{MaxConns: 5},
		Query: QueryConfig{
			DefaultTimeoutSeconds:       30,
			IntrospectionTimeoutSeconds: 10,
		},
	}
}

// newTestEngine builds a CrudMcp around a fake executor, bypassing pool
// creation entirely. The connection status starts as connected.
func newTestEngine(t *testing.T, config Config, fake *fakeExecutor) *CrudMcp {
	t.Helper()

	san, err := sanitize.NewSanitizer(mapSanitizationRules(config.Sanitization))
	if err != nil {
		t.Fatalf("failed to build sanitizer: %v", err)
	}
	matcher, err := errprompt.NewMatcher(mapErrorPromptRules(config.ErrorPrompts))
	if err != nil {
		t.Fatalf("failed to build error prompt matcher: %v", err)
	}
	rules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		rules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	tmgr, err := timeout.NewManager(timeout.Config{
		Default:       time.Duration(config.Query.DefaultTimeoutSeconds) * time.Second,
		Introspection: time.Duration(config.Query.IntrospectionTimeoutSeconds) * time.Second,
		Rules:         rules,
	})
	if err != nil {
		t.Fatalf("failed to build timeout manager: %v", err)
	}

	c := &CrudMcp{
		config:     config,
		exec:       fake,
		guard:      guard.NewChecker(guard.Config{ConfirmThreshold: config.Safety.DeleteConfirmThreshold}),
		sanitizer:  san,
		errPrompts: matcher,
		timeoutMgr: tmgr,
		logger:     testLogger(),
	}
	c.status.Store(StatusConnected)
	return c
}
