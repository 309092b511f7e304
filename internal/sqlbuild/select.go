package sqlbuild

// SortDir is an ORDER BY direction.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// SelectSpec describes one SELECT statement. Table, Columns, and OrderBy
// must already be validated identifiers.
type SelectSpec struct {
	Table      string
	Columns    []string // empty → *
	Conditions []Condition
	OrderBy    string // "" → no ORDER BY
	OrderDir   SortDir
	Pagination *Pagination
}

// Pagination limits a SELECT. Limit and Offset are always bound as the last
// two placeholders of the statement.
type Pagination struct {
	Limit  int
	Offset int
}

// BuildSelect composes:
//
//	SELECT <cols|*> FROM <table> [WHERE ...] [ORDER BY <col> <dir>] [LIMIT $n OFFSET $m]
func BuildSelect(spec SelectSpec) (sql string, params []any) {
	var st Statement
	st.Raw("SELECT ")
	if len(spec.Columns) == 0 {
		st.Raw("*")
	} else {
		for i, col := range spec.Columns {
			if i > 0 {
				st.Raw(", ")
			}
			st.Raw(col)
		}
	}
	st.Raw(" FROM ")
	st.Raw(spec.Table)
	appendWhere(&st, spec.Conditions)

	if spec.OrderBy != "" {
		st.Raw(" ORDER BY ")
		st.Raw(spec.OrderBy)
		if spec.OrderDir == SortDesc {
			st.Raw(" DESC")
		} else {
			st.Raw(" ASC")
		}
	}

	if spec.Pagination != nil {
		st.Raw(" LIMIT ")
		st.Bind(spec.Pagination.Limit)
		st.Raw(" OFFSET ")
		st.Bind(spec.Pagination.Offset)
	}
	return st.SQL(), st.Params()
}

// BuildCount composes the companion total-count statement for a paginated
// SELECT: same WHERE fragment and parameters, pagination excluded.
// Also used for delete impact estimation.
func BuildCount(table string, conds []Condition) (sql string, params []any) {
	var st Statement
	st.Raw("SELECT COUNT(*) FROM ")
	st.Raw(table)
	appendWhere(&st, conds)
	return st.SQL(), st.Params()
}
