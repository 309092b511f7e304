package sqlbuild

// ConflictPolicy selects the ON CONFLICT clause of an INSERT.
type ConflictPolicy string

const (
	// ConflictError appends nothing — the database raises on conflict.
	ConflictError ConflictPolicy = "error"
	// ConflictIgnore appends ON CONFLICT [(cols)] DO NOTHING.
	ConflictIgnore ConflictPolicy = "ignore"
	// ConflictUpdate appends ON CONFLICT [(cols)] DO UPDATE SET
	// col = EXCLUDED.col for every inserted column except the conflict
	// columns. If no columns remain it falls back to DO NOTHING.
	ConflictUpdate ConflictPolicy = "update"
)

// InsertSpec describes one multi-row INSERT statement. Table, Columns, and
// ConflictColumns must already be validated identifiers; Rows is row-major
// and aligned with Columns (see BatchColumns).
type InsertSpec struct {
	Table           string
	Columns         []string
	Rows            [][]any
	OnConflict      ConflictPolicy
	ConflictColumns []string
	Returning       Returning
}

// BuildInsert composes:
//
//	INSERT INTO <table> (<cols>) VALUES ($1, ...), (...) [ON CONFLICT ...] [RETURNING ...]
//
// Placeholders are numbered sequentially across all rows in row-major order.
func BuildInsert(spec InsertSpec) (sql string, params []any) {
	var st Statement
	st.Raw("INSERT INTO ")
	st.Raw(spec.Table)
	st.Raw(" (")
	for i, col := range spec.Columns {
		if i > 0 {
			st.Raw(", ")
		}
		st.Raw(col)
	}
	st.Raw(") VALUES ")
	for i, row := range spec.Rows {
		if i > 0 {
			st.Raw(", ")
		}
		st.Raw("(")
		for j, v := range row {
			if j > 0 {
				st.Raw(", ")
			}
			st.Bind(v)
		}
		st.Raw(")")
	}

	appendConflict(&st, spec)
	appendReturning(&st, spec.Returning)
	return st.SQL(), st.Params()
}

func appendConflict(st *Statement, spec InsertSpec) {
	switch spec.OnConflict {
	case ConflictIgnore:
		st.Raw(" ON CONFLICT")
		appendConflictTarget(st, spec.ConflictColumns)
		st.Raw(" DO NOTHING")
	case ConflictUpdate:
		updatable := excludeColumns(spec.Columns, spec.ConflictColumns)
		st.Raw(" ON CONFLICT")
		appendConflictTarget(st, spec.ConflictColumns)
		if len(updatable) == 0 {
			// Every inserted column is a conflict column: nothing to update.
			st.Raw(" DO NOTHING")
			return
		}
		st.Raw(" DO UPDATE SET ")
		for i, col := range updatable {
			if i > 0 {
				st.Raw(", ")
			}
			st.Raw(col)
			st.Raw(" = EXCLUDED.")
			st.Raw(col)
		}
	}
}

func appendConflictTarget(st *Statement, cols []string) {
	if len(cols) == 0 {
		return
	}
	st.Raw(" (")
	for i, col := range cols {
		if i > 0 {
			st.Raw(", ")
		}
		st.Raw(col)
	}
	st.Raw(")")
}

func excludeColumns(cols, excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		skip[c] = true
	}
	var out []string
	for _, c := range cols {
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out
}
