package sqlbuild

// UpdateSpec describes one UPDATE statement. Table and SetColumns must
// already be validated identifiers; SetValues is aligned with SetColumns.
// Conditions must be non-empty — the guard rejects empty condition sets
// before this builder runs.
type UpdateSpec struct {
	Table      string
	SetColumns []string
	SetValues  []any
	Conditions []Condition
	Returning  Returning
}

// BuildUpdate composes:
//
//	UPDATE <table> SET <col> = $1, ... WHERE <conditions> [RETURNING ...]
//
// SET-clause parameters are numbered before WHERE parameters.
func BuildUpdate(spec UpdateSpec) (sql string, params []any) {
	var st Statement
	st.Raw("UPDATE ")
	st.Raw(spec.Table)
	st.Raw(" SET ")
	for i, col := range spec.SetColumns {
		if i > 0 {
			st.Raw(", ")
		}
		st.Raw(col)
		st.Raw(" = ")
		st.Bind(spec.SetValues[i])
	}
	appendWhere(&st, spec.Conditions)
	appendReturning(&st, spec.Returning)
	return st.SQL(), st.Params()
}
