package sqlbuild

import (
	"fmt"
	"sort"

	"github.com/tablecrud/postgres-crud-mcp/internal/sqlident"
)

// BatchMismatchError reports the first record in a batch whose key set
// differs from the first record's.
type BatchMismatchError struct {
	Index int
}

func (e *BatchMismatchError) Error() string {
	return fmt.Sprintf("record at index %d has different columns than the first record: all records in a batch must share the same column set", e.Index)
}

// BatchColumns validates a record batch for insertion. The column order is
// fixed by the first record (sorted keys, since JSON objects are unordered)
// and reused for every record; each later record must have exactly the same
// key set, in any order. Returns the validated column list and row-major
// value matrix aligned with it.
func BatchColumns(records []map[string]any) (columns []string, rows [][]any, err error) {
	if len(records) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns, err = sqlident.ValidateAll(keys)
	if err != nil {
		return nil, nil, err
	}

	rows = make([][]any, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, nil, &BatchMismatchError{Index: i}
		}
		row := make([]any, len(columns))
		for j, col := range columns {
			v, ok := rec[col]
			if !ok {
				return nil, nil, &BatchMismatchError{Index: i}
			}
			row[j] = v
		}
		rows[i] = row
	}
	return columns, rows, nil
}
