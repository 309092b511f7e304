package crudmcp

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tablecrud/postgres-crud-mcp/internal/errprompt"
	"github.com/tablecrud/postgres-crud-mcp/internal/guard"
	"github.com/tablecrud/postgres-crud-mcp/internal/sanitize"
	"github.com/tablecrud/postgres-crud-mcp/internal/timeout"
)

// ConnStatus is the last known database connectivity state.
type ConnStatus string

const (
	StatusUnknown   ConnStatus = "unknown"
	StatusConnected ConnStatus = "connected"
	StatusFailed    ConnStatus = "failed"
)

// CrudMcp is the core engine behind the query, insert, update, delete,
// execute, list_tables, and describe_table tools. All exported methods are
// safe for concurrent use from multiple goroutines; the engine itself holds
// no per-request mutable state — the pool arbitrates physical connections.
type CrudMcp struct {
	config     Config
	pool       *pgxpool.Pool
	exec       executor
	guard      *guard.Checker
	sanitizer  *sanitize.Sanitizer
	errPrompts *errprompt.Matcher
	timeoutMgr *timeout.Manager
	logger     zerolog.Logger
	status     atomic.Value // ConnStatus
}

// New creates a new CrudMcp instance. connString is the PostgreSQL
// connection string (must include credentials). Panics on invalid config;
// returns an error only for runtime failures such as pool creation.
func New(ctx context.Context, connString string, config Config, logger zerolog.Logger) (*CrudMcp, error) {
	if connString == "" {
		panic("crudmcp: connString must be non-empty")
	}
	if config.Pool.MaxConns <= 0 {
		panic("crudmcp: pool.max_conns must be > 0")
	}
	if config.Query.DefaultTimeoutSeconds <= 0 {
		panic("crudmcp: query.default_timeout_seconds must be > 0")
	}
	if config.Safety.DeleteConfirmThreshold < 0 {
		panic("crudmcp: safety.delete_confirm_threshold must be >= 0")
	}
	for _, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			panic(fmt.Sprintf("crudmcp: timeout_rule with pattern %q has timeout_seconds <= 0", rule.Pattern))
		}
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = int32(config.Pool.MaxConns)
	poolConfig.MinConns = int32(config.Pool.MinConns)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	if config.Pool.MaxConnLifetime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnLifetime)
		if err != nil {
			panic(fmt.Sprintf("crudmcp: invalid pool.max_conn_lifetime %q: %v", config.Pool.MaxConnLifetime, err))
		}
		poolConfig.MaxConnLifetime = d
	}
	if config.Pool.MaxConnIdleTime != "" {
		d, err := time.ParseDuration(config.Pool.MaxConnIdleTime)
		if err != nil {
			panic(fmt.Sprintf("crudmcp: invalid pool.max_conn_idle_time %q: %v", config.Pool.MaxConnIdleTime, err))
		}
		poolConfig.MaxConnIdleTime = d
	}
	if config.Pool.HealthCheckPeriod != "" {
		d, err := time.ParseDuration(config.Pool.HealthCheckPeriod)
		if err != nil {
			panic(fmt.Sprintf("crudmcp: invalid pool.health_check_period %q: %v", config.Pool.HealthCheckPeriod, err))
		}
		poolConfig.HealthCheckPeriod = d
	}

	if config.ReadOnly || config.Timezone != "" {
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if config.ReadOnly {
				if _, err := conn.Exec(ctx, "SET default_transaction_read_only = on"); err != nil {
					return fmt.Errorf("failed to SET default_transaction_read_only: %w", err)
				}
			}
			if config.Timezone != "" {
				escaped := strings.ReplaceAll(config.Timezone, "'", "''")
				if _, err := conn.Exec(ctx, fmt.Sprintf("SET timezone = '%s'", escaped)); err != nil {
					return fmt.Errorf("failed to SET timezone: %w", err)
				}
			}
			return nil
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	san, err := sanitize.NewSanitizer(mapSanitizationRules(config.Sanitization))
	if err != nil {
		pool.Close()
		return nil, err
	}
	matcher, err := errprompt.NewMatcher(mapErrorPromptRules(config.ErrorPrompts))
	if err != nil {
		pool.Close()
		return nil, err
	}
	timeoutRules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		timeoutRules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	tmgr, err := timeout.NewManager(timeout.Config{
		Default:       time.Duration(config.Query.DefaultTimeoutSeconds) * time.Second,
		Introspection: time.Duration(config.Query.IntrospectionTimeoutSeconds) * time.Second,
		Rules:         timeoutRules,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	c := &CrudMcp{
		config:     config,
		pool:       pool,
		guard:      guard.NewChecker(guard.Config{ConfirmThreshold: config.Safety.DeleteConfirmThreshold}),
		sanitizer:  san,
		errPrompts: matcher,
		timeoutMgr: tmgr,
		logger:     logger,
	}
	c.status.Store(StatusUnknown)
	c.exec = &poolExecutor{
		pool:      pool,
		semaphore: make(chan struct{}, config.Pool.MaxConns),
		timeouts:  tmgr,
		status:    c,
	}
	return c, nil
}

// Close closes the connection pool.
func (c *CrudMcp) Close(ctx context.Context) {
	c.pool.Close()
}

// Ping verifies database connectivity and refreshes the connection status.
func (c *CrudMcp) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		c.setStatus(StatusFailed)
		return err
	}
	c.setStatus(StatusConnected)
	return nil
}

// ConnectionStatus returns the last known connectivity state.
func (c *CrudMcp) ConnectionStatus() ConnStatus {
	return c.status.Load().(ConnStatus)
}

func (c *CrudMcp) setStatus(s ConnStatus) {
	c.status.Store(s)
}

// checkAvailable gates every tool: when the last known status is failed, no
// SQL is constructed or issued and a standard unavailable envelope is
// returned instead.
func (c *CrudMcp) checkAvailable() error {
	if c.ConnectionStatus() == StatusFailed {
		return errUnavailable
	}
	return nil
}

// failure builds the message and code for a failure envelope: the error is
// classified, logged, and matched against error_prompts with any guidance
// appended. Raw credentials never appear in these messages — connection
// errors come from pgx already stripped of the connection string.
func (c *CrudMcp) failure(operation string, err error) (msg, code string) {
	code = classifyError(err)
	msg = fmt.Sprintf("%s failed: %v", operation, err)
	if code != CodeDriverError {
		// Pre-execution rejections keep their own phrasing.
		msg = err.Error()
	}

	logEvent := c.logger.Error().Str("operation", operation).Str("error_code", code).Err(err)
	if patterns := c.errPrompts.MatchedPatterns(msg); len(patterns) > 0 {
		logEvent = logEvent.Strs("error_prompts", patterns)
	}
	logEvent.Msg("operation failed")

	if prompt := c.errPrompts.Match(msg); prompt != "" {
		msg = msg + "\n\n" + prompt
	}
	return msg, code
}

func mapSanitizationRules(rules []SanitizationRule) []sanitize.Rule {
	result := make([]sanitize.Rule, len(rules))
	for i, r := range rules {
		result[i] = sanitize.Rule{Pattern: r.Pattern, Replacement: r.Replacement}
	}
	return result
}

func mapErrorPromptRules(rules []ErrorPromptRule) []errprompt.Rule {
	result := make([]errprompt.Rule, len(rules))
	for i, r := range rules {
		result[i] = errprompt.Rule{Pattern: r.Pattern, Message: r.Message}
	}
	return result
}
