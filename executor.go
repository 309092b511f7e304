package crudmcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablecrud/postgres-crud-mcp/internal/timeout"
)

// dbResult is the driver-shaped result every operation consumes: collected
// rows, column order, and the driver-reported affected-row count.
type dbResult struct {
	columns  []string
	rows     []map[string]any
	affected int64
}

// executor executes one parameterized statement. It is the explicitly
// passed database handle of the engine: New wires a pool-backed
// implementation, tests inject fakes for isolated instances.
type executor interface {
	run(ctx context.Context, sql string, params []any) (*dbResult, error)
}

// poolExecutor executes statements against a pgx pool. A semaphore bounded
// by the pool size keeps waiters on the context instead of inside pgx.
type poolExecutor struct {
	pool      *pgxpool.Pool
	semaphore chan struct{}
	timeouts  *timeout.Manager
	status    *CrudMcp
}

func (e *poolExecutor) run(ctx context.Context, sql string, params []any) (*dbResult, error) {
	select {
	case e.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to acquire query slot: all %d connection slots are in use, context cancelled while waiting: %w", cap(e.semaphore), ctx.Err())
	}
	defer func() { <-e.semaphore }()

	d, _ := e.timeouts.ForStatement(sql)
	queryCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	conn, err := e.pool.Acquire(queryCtx)
	if err != nil {
		e.status.setStatus(StatusFailed)
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(queryCtx, sql, params...)
	if err != nil {
		return nil, err
	}
	result, err := collectRows(rows)
	if err != nil {
		return nil, err
	}
	e.status.setStatus(StatusConnected)
	return result, nil
}

// collectRows drains pgx.Rows into a dbResult.
func collectRows(rows pgx.Rows) (*dbResult, error) {
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	collected := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = convertValue(values[i])
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &dbResult{
		columns:  columns,
		rows:     collected,
		affected: rows.CommandTag().RowsAffected(),
	}, nil
}

// convertValue converts a pgx-returned value to a JSON-friendly Go type.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float32:
		return convertFloat(float64(val))
	case float64:
		return convertFloat(val)
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if val.NaN {
			return "NaN"
		}
		b, err := val.MarshalJSON()
		if err != nil {
			return nil
		}
		return string(b)
	case [16]byte:
		// UUID
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []byte:
		// bytea — base64 encode
		return base64.StdEncoding.EncodeToString(val)
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, inner := range val {
			result[k] = convertValue(inner)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, inner := range val {
			result[i] = convertValue(inner)
		}
		return result
	default:
		return val
	}
}

func convertFloat(f float64) any {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return f
}
