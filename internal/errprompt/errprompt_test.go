package errprompt

import (
	"testing"
)

func TestMatchRelationNotExist(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `(?i)relation.*does not exist`, Message: "The table does not exist. Use list_tables to see available tables."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.Match(`relation "foo" does not exist`)
	if got != "The table does not exist. Use list_tables to see available tables." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestNoMatch(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `(?i)permission denied`, Message: "You do not have sufficient privileges."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Match("some other error"); got != "" {
		t.Fatalf("expected empty string for non-matching error, got: %q", got)
	}
}

func TestMultipleMatchesJoined(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `(?i)permission denied`, Message: "Check your privileges."},
		{Pattern: `(?i)denied.*table`, Message: "Verify table access grants."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.Match("permission denied for table users")
	expected := "Check your privileges.\nVerify table access grants."
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestMatchedPatterns(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher([]Rule{
		{Pattern: `(?i)permission denied`, Message: "Check your privileges."},
		{Pattern: `timeout`, Message: "Narrow the query."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := m.MatchedPatterns("permission denied for table users")
	if len(got) != 1 || got[0] != `(?i)permission denied` {
		t.Fatalf("unexpected patterns: %v", got)
	}
}

func TestEmptyRules(t *testing.T) {
	t.Parallel()
	m, err := NewMatcher(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Match("any error at all"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestInvalidRegex(t *testing.T) {
	t.Parallel()
	_, err := NewMatcher([]Rule{{Pattern: "[invalid(regex", Message: "x"}})
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}
