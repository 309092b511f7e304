package sqlbuild

import "github.com/tablecrud/postgres-crud-mcp/internal/sqlident"

// Returning specifies which columns a mutating statement reports back.
// Three states: all columns (*), nothing (clause suppressed, shape still
// reported via affected count), or an explicit ordered column list.
type Returning struct {
	All     bool
	Columns []string
}

// ReturningAll requests RETURNING *.
func ReturningAll() Returning {
	return Returning{All: true}
}

// ReturningNone suppresses the RETURNING clause.
func ReturningNone() Returning {
	return Returning{}
}

// ReturningColumns validates cols and requests an explicit RETURNING list.
// An empty cols slice is equivalent to ReturningNone.
func ReturningColumns(cols []string) (Returning, error) {
	validated, err := sqlident.ValidateAll(cols)
	if err != nil {
		return Returning{}, err
	}
	return Returning{Columns: validated}, nil
}

// Empty reports whether the clause is suppressed entirely.
func (r Returning) Empty() bool {
	return !r.All && len(r.Columns) == 0
}

// appendReturning writes " RETURNING ..." unless r suppresses the clause.
func appendReturning(st *Statement, r Returning) {
	if r.Empty() {
		return
	}
	st.Raw(" RETURNING ")
	if r.All {
		st.Raw("*")
		return
	}
	for i, col := range r.Columns {
		if i > 0 {
			st.Raw(", ")
		}
		st.Raw(col)
	}
}
