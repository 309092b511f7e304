// Package guard holds the pre-execution safety policy for destructive
// operations: mandatory WHERE clauses, the delete confirmation threshold,
// and the free-form dangerous-statement rejection list. The policy is a
// plain value with no database access so it can be tightened and tested
// without touching statement-building logic.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultConfirmThreshold is the estimated-row count above which a delete
// requires an explicit confirmation flag.
const DefaultConfirmThreshold = 100

// Config configures a Checker.
type Config struct {
	// ConfirmThreshold overrides DefaultConfirmThreshold when > 0.
	ConfirmThreshold int
}

// Checker evaluates safety preconditions before a statement executes.
// Every failure is terminal for the current invocation — no guard step is
// retried or silently downgraded.
type Checker struct {
	threshold int
}

// NewChecker creates a Checker from config, applying defaults.
func NewChecker(config Config) *Checker {
	threshold := config.ConfirmThreshold
	if threshold <= 0 {
		threshold = DefaultConfirmThreshold
	}
	return &Checker{threshold: threshold}
}

// MissingWhereError is returned when an UPDATE or DELETE arrives with an
// empty condition set.
type MissingWhereError struct {
	Operation string
}

func (e *MissingWhereError) Error() string {
	return fmt.Sprintf("%s requires a WHERE clause: refusing to run an unbounded %s", e.Operation, e.Operation)
}

// ConfirmationError is returned when a delete's estimated impact exceeds
// the confirmation threshold and no override flag was supplied.
type ConfirmationError struct {
	EstimatedRows int
	Threshold     int
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("delete would affect an estimated %d rows, which exceeds the confirmation threshold of %d: set confirm to proceed", e.EstimatedRows, e.Threshold)
}

// DangerousStatementError is returned when free-form SQL matches the
// rejection list.
type DangerousStatementError struct {
	Reason string
}

func (e *DangerousStatementError) Error() string {
	return fmt.Sprintf("statement rejected: %s", e.Reason)
}

// RequireWhere rejects UPDATE/DELETE condition sets that are empty.
// This is the sole protection against unbounded mutation through the
// structured tools.
func (c *Checker) RequireWhere(operation string, conditionCount int) error {
	if conditionCount == 0 {
		return &MissingWhereError{Operation: operation}
	}
	return nil
}

// ConfirmThreshold returns the configured estimation threshold.
func (c *Checker) ConfirmThreshold() int {
	return c.threshold
}

// CheckImpact evaluates a delete's estimated row count against the
// threshold. confirmed is the caller's explicit override flag.
func (c *Checker) CheckImpact(estimatedRows int, confirmed bool) error {
	if confirmed {
		return nil
	}
	if estimatedRows > c.threshold {
		return &ConfirmationError{EstimatedRows: estimatedRows, Threshold: c.threshold}
	}
	return nil
}

// dangerousPatterns is the free-form rejection list. It is a textual
// heuristic, not a parser: it can over-reject statements containing these
// substrings inside string literals and under-reject obfuscated variants.
// Best effort, not a security boundary for arbitrary SQL.
var dangerousPatterns = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`(?i)\bdrop\s+table\b`), "DROP TABLE is not allowed"},
	{regexp.MustCompile(`(?i)\bdrop\s+database\b`), "DROP DATABASE is not allowed"},
	{regexp.MustCompile(`(?i)\bdrop\s+schema\b`), "DROP SCHEMA is not allowed"},
	{regexp.MustCompile(`(?i)\btruncate\s+table\b`), "TRUNCATE TABLE is not allowed"},
	{regexp.MustCompile(`(?i)\balter\s+table\s+\S+\s+add\b`), "ALTER TABLE ADD is not allowed"},
	{regexp.MustCompile(`(?i)\balter\s+table\s+\S+\s+drop\b`), "ALTER TABLE DROP is not allowed"},
	{regexp.MustCompile(`(?i)\bcreate\s+table\b`), "CREATE TABLE is not allowed"},
	{regexp.MustCompile(`(?i)\binsert\s+into\b`), "INSERT INTO is not allowed here: use the insert tool"},
}

var (
	deleteFromRe = regexp.MustCompile(`(?i)^delete\s+from\b`)
	updateSetRe  = regexp.MustCompile(`(?i)^update\s+[\s\S]+\bset\b`)
	whereTokenRe = regexp.MustCompile(`(?i)\bwhere\b`)
)

// CheckStatement pattern-matches trimmed free-form SQL against the
// rejection list, and additionally requires a WHERE token in statements
// beginning with DELETE FROM or UPDATE ... SET.
func (c *Checker) CheckStatement(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return &DangerousStatementError{Reason: "empty statement"}
	}
	for _, p := range dangerousPatterns {
		if p.re.MatchString(trimmed) {
			return &DangerousStatementError{Reason: p.reason}
		}
	}
	if deleteFromRe.MatchString(trimmed) && !whereTokenRe.MatchString(trimmed) {
		return &DangerousStatementError{Reason: "DELETE without WHERE clause is not allowed"}
	}
	if updateSetRe.MatchString(trimmed) && !whereTokenRe.MatchString(trimmed) {
		return &DangerousStatementError{Reason: "UPDATE without WHERE clause is not allowed"}
	}
	return nil
}
