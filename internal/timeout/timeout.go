// Package timeout resolves per-statement execution deadlines. Generated
// statements and free-form SQL share a default; catalog introspection gets
// its own budget; pattern rules override the default for statements known
// to be slow or fast.
package timeout

import (
	"fmt"
	"regexp"
	"time"
)

// Rule maps a SQL regex pattern to a specific timeout.
type Rule struct {
	Pattern string
	Timeout time.Duration
}

// Config configures a Manager.
type Config struct {
	Default       time.Duration
	Introspection time.Duration
	Rules         []Rule
}

type compiledRule struct {
	pattern *regexp.Regexp
	timeout time.Duration
}

// Manager resolves statement timeouts. Safe for concurrent use.
type Manager struct {
	rules         []compiledRule
	defaultTO     time.Duration
	introspection time.Duration
}

// NewManager compiles the rule patterns. Returns an error on invalid regex.
func NewManager(config Config) (*Manager, error) {
	compiled := make([]compiledRule, len(config.Rules))
	for i, r := range config.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("timeout: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, timeout: r.Timeout}
	}
	return &Manager{
		rules:         compiled,
		defaultTO:     config.Default,
		introspection: config.Introspection,
	}, nil
}

// ForStatement returns the timeout for the given SQL and the pattern of the
// rule that matched, if any. First matching rule wins; falls back to the
// default with an empty pattern.
func (m *Manager) ForStatement(sql string) (time.Duration, string) {
	for _, rule := range m.rules {
		if rule.pattern.MatchString(sql) {
			return rule.timeout, rule.pattern.String()
		}
	}
	return m.defaultTO, ""
}

// ForIntrospection returns the timeout for catalog queries (list tables,
// describe table). Falls back to the default when unset.
func (m *Manager) ForIntrospection() time.Duration {
	if m.introspection > 0 {
		return m.introspection
	}
	return m.defaultTO
}
