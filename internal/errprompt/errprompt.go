// Package errprompt maps error messages to caller guidance. When a failure
// envelope is built, its message is matched against configured patterns and
// any matching guidance is appended, steering the caller toward a fix
// (e.g. "use the insert tool instead of execute").
package errprompt

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule appends Message to errors whose text matches Pattern.
type Rule struct {
	Pattern string
	Message string
}

type compiledRule struct {
	pattern *regexp.Regexp
	message string
}

// Matcher checks error messages against guidance rules.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the rule patterns. Returns an error on invalid regex.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("errprompt: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, message: r.Message}
	}
	return &Matcher{rules: compiled}, nil
}

// Match returns all matching guidance messages joined with newlines, top to
// bottom. Empty string when nothing matches.
func (m *Matcher) Match(errMsg string) string {
	var matches []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			matches = append(matches, rule.message)
		}
	}
	return strings.Join(matches, "\n")
}

// MatchedPatterns returns the patterns that matched, for logging.
func (m *Matcher) MatchedPatterns(errMsg string) []string {
	var patterns []string
	for _, rule := range m.rules {
		if rule.pattern.MatchString(errMsg) {
			patterns = append(patterns, rule.pattern.String())
		}
	}
	return patterns
}
