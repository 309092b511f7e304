package sqlbuild

import (
	"strconv"
	"strings"
)

// Statement accumulates SQL text and positional parameters. Every bound
// value allocates the next placeholder, so numbering is strictly increasing
// and contiguous within one statement — including VALUES and LIMIT/OFFSET
// parameters appended after WHERE parameters.
type Statement struct {
	text   strings.Builder
	params []any
}

// Raw appends SQL text verbatim. Only validated identifiers and fixed
// keywords may pass through here.
func (s *Statement) Raw(text string) {
	s.text.WriteString(text)
}

// Bind appends value to the parameter list and writes its "$n" placeholder.
func (s *Statement) Bind(value any) {
	s.params = append(s.params, value)
	s.text.WriteString("$")
	s.text.WriteString(strconv.Itoa(len(s.params)))
}

// NextIndex returns the placeholder index the next Bind call will use.
func (s *Statement) NextIndex() int {
	return len(s.params) + 1
}

// SQL returns the accumulated statement text.
func (s *Statement) SQL() string {
	return s.text.String()
}

// Params returns the accumulated parameter list, positionally aligned with
// the placeholders in SQL().
func (s *Statement) Params() []any {
	return s.params
}
