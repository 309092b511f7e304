package sqlbuild

import (
	"sort"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// Condition is one validated column → classified value pair.
type Condition struct {
	Column string
	Value  Value
}

// ConditionsFromMap validates every key of a caller-supplied where-map and
// classifies every value. JSON objects arrive as unordered Go maps, so keys
// are iterated in sorted order — the order changes the generated SQL text
// verbatim but not its meaning, and sorting keeps statements deterministic.
// The first invalid key aborts the whole request.
func ConditionsFromMap(where map[string]any) ([]Condition, error) {
	if len(where) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, k := range keys {
		col, err := sqlident.Validate(k)
		if err != nil {
			return nil, err
		}
		conds = append(conds, Condition{Column: col, Value: Classify(where[k])})
	}
	return conds, nil
}

// appendConditions compiles conditions into st, joining per-column fragments
// with " AND ". Conditions are always conjunctive — there is no OR
// composition. An empty condition list writes nothing; whether that is
// permitted is the guard's decision, not the compiler's.
func appendConditions(st *Statement, conds []Condition) {
	for i, c := range conds {
		if i > 0 {
			st.Raw(" AND ")
		}
		switch c.Value.Kind {
		case KindNull:
			st.Raw(c.Column)
			st.Raw(" IS NULL")
		case KindList:
			st.Raw(c.Column)
			st.Raw(" IN (")
			for j, elem := range c.Value.List {
				if j > 0 {
					st.Raw(", ")
				}
				st.Bind(elem)
			}
			st.Raw(")")
		case KindWildcard:
			st.Raw(c.Column)
			st.Raw(" LIKE ")
			st.Bind(c.Value.Scalar)
		default:
			st.Raw(c.Column)
			st.Raw(" = ")
			st.Bind(c.Value.Scalar)
		}
	}
}

// appendWhere writes " WHERE <conditions>" if any conditions are present.
func appendWhere(st *Statement, conds []Condition) {
	if len(conds) == 0 {
		return
	}
	st.Raw(" WHERE ")
	appendConditions(st, conds)
}

// CompileConditions compiles conds into a standalone boolean fragment with
// placeholders numbered from 1. Used by tests and by callers that need the
// fragment without a surrounding statement.
func CompileConditions(conds []Condition) (sql string, params []any) {
	var st Statement
	appendConditions(&st, conds)
	return st.SQL(), st.Params()
}
