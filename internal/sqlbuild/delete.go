package sqlbuild

// DeleteSpec describes one DELETE statement. Table must already be a
// validated identifier. Conditions must be non-empty — the guard rejects
// empty condition sets before this builder runs.
type DeleteSpec struct {
	Table      string
	Conditions []Condition
	Returning  Returning
}

// BuildDelete composes:
//
//	DELETE FROM <table> WHERE <conditions> [RETURNING ...]
func BuildDelete(spec DeleteSpec) (sql string, params []any) {
	var st Statement
	st.Raw("DELETE FROM ")
	st.Raw(spec.Table)
	appendWhere(&st, spec.Conditions)
	appendReturning(&st, spec.Returning)
	return st.SQL(), st.Params()
}
