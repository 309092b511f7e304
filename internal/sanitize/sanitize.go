// Package sanitize applies regex-based redaction to result row values
// before they leave the server. Rules run on every string field of every
// row the normalizer produces, recursing into JSONB objects and arrays.
package sanitize

import (
	"fmt"
	"regexp"
)

// Rule replaces every match of Pattern with Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Sanitizer applies redaction rules to normalized result rows.
type Sanitizer struct {
	rules []compiledRule
}

// NewSanitizer compiles the rule patterns. Returns an error on invalid regex.
func NewSanitizer(rules []Rule) (*Sanitizer, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("sanitize: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, replacement: r.Replacement}
	}
	return &Sanitizer{rules: compiled}, nil
}

// HasRules reports whether any rules are configured.
func (s *Sanitizer) HasRules() bool {
	return len(s.rules) > 0
}

// Rows applies all rules to every field of every row and returns rows.
// Rows synthesized by the normalizer (no columns) pass through untouched.
func (s *Sanitizer) Rows(rows []map[string]any) []map[string]any {
	if !s.HasRules() {
		return rows
	}
	for _, row := range rows {
		for k, v := range row {
			row[k] = s.value(v)
		}
	}
	return rows
}

func (s *Sanitizer) value(v any) any {
	switch val := v.(type) {
	case string:
		out := val
		for _, rule := range s.rules {
			out = rule.pattern.ReplaceAllString(out, rule.replacement)
		}
		return out
	case map[string]any:
		for k, inner := range val {
			val[k] = s.value(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = s.value(inner)
		}
		return val
	default:
		// Numbers, bools, nil, timestamps: nothing to redact.
		return v
	}
}
