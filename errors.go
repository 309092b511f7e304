package crudmcp

import (
	"errors"
	"fmt"

	"github.com/tablecrud/postgres-crud-mcp/internal/guard"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlbuild"
	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// Error codes carried in failure envelopes so callers can branch on shape
// rather than parse prose. Validation and guard failures are detected
// before any statement reaches the database; driver failures are passed
// through under CodeDriverError, never reinterpreted.
const (
	CodeInvalidIdentifier        = "invalid_identifier"
	CodeInvalidArgument          = "invalid_argument"
	CodeMissingWhereClause       = "missing_where_clause"
	CodeNoDataProvided           = "no_data_provided"
	CodeInconsistentBatchColumns = "inconsistent_batch_columns"
	CodeConfirmationRequired     = "confirmation_required"
	CodeDangerousStatement       = "dangerous_statement_rejected"
	CodeDatabaseUnavailable      = "database_unavailable"
	CodeReadOnly                 = "read_only_mode"
	CodeDriverError              = "driver_error"
)

// errNoData is returned when an insert payload or update set-data is empty.
var errNoData = errors.New("no data provided")

// errUnavailable is returned when the connection status is failed; no SQL
// is constructed or issued in that state.
var errUnavailable = errors.New("database unavailable: connection is down")

// errReadOnly is returned when a mutating tool is called in read-only mode.
var errReadOnly = errors.New("server is in read-only mode")

// argumentError marks a malformed parameter object (pagination bounds, sort
// direction, conflict policy) detected before statement construction.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func argErrorf(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}

// classifyError maps an error onto the envelope error-code taxonomy.
func classifyError(err error) string {
	var identErr *sqlident.InvalidError
	var argErr *argumentError
	var whereErr *guard.MissingWhereError
	var confirmErr *guard.ConfirmationError
	var dangerErr *guard.DangerousStatementError
	var batchErr *sqlbuild.BatchMismatchError

	switch {
	case errors.As(err, &identErr):
		return CodeInvalidIdentifier
	case errors.As(err, &argErr):
		return CodeInvalidArgument
	case errors.As(err, &whereErr):
		return CodeMissingWhereClause
	case errors.As(err, &confirmErr):
		return CodeConfirmationRequired
	case errors.As(err, &dangerErr):
		return CodeDangerousStatement
	case errors.As(err, &batchErr):
		return CodeInconsistentBatchColumns
	case errors.Is(err, errNoData):
		return CodeNoDataProvided
	case errors.Is(err, errUnavailable):
		return CodeDatabaseUnavailable
	case errors.Is(err, errReadOnly):
		return CodeReadOnly
	default:
		return CodeDriverError
	}
}
