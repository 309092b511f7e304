// Package sqlbuild turns structured filter, record, and pagination
// specifications into parameterized Postgres SQL. All placeholder numbering
// goes through a single Statement accumulator so that "$n count == parameter
// count, contiguous from the starting index" holds by construction rather
// than by convention.
//
// Identifier validation happens at this package's boundary: every table or
// column name entering a builder has either passed sqlident.Validate or is
// the literal "*" sentinel. Values are never interpolated into SQL text.
package sqlbuild

import "strings"

// ValueKind tags the closed set of condition value variants. The kind is
// decided once, at the compiler boundary, instead of re-inspecting the raw
// value in every builder.
type ValueKind int

const (
	// KindNull compiles to "col IS NULL" and consumes no parameter.
	KindNull ValueKind = iota
	// KindScalar compiles to "col = $n".
	KindScalar
	// KindList compiles to "col IN ($n, ...)", one placeholder per element.
	// An empty list compiles to "IN ()", which matches nothing.
	KindList
	// KindWildcard is a string containing '%'; compiles to "col LIKE $n"
	// with the raw string (markers included) bound as one parameter.
	KindWildcard
)

// Value is the tagged variant of a caller-supplied condition value.
type Value struct {
	Kind   ValueKind
	Scalar any
	List   []any
}

// Classify maps a raw caller value onto the closed Value variant.
// Wildcard detection is purely "string contains %" — escaping is delegated
// to the database's LIKE operator, never done here.
func Classify(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}
	case []any:
		return Value{Kind: KindList, List: v}
	case string:
		if strings.Contains(v, "%") {
			return Value{Kind: KindWildcard, Scalar: v}
		}
		return Value{Kind: KindScalar, Scalar: v}
	default:
		return Value{Kind: KindScalar, Scalar: raw}
	}
}
