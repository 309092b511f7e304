package crudmcp

// QueryInput is the input for the query tool.
type QueryInput struct {
	Table      string         `json:"table"`
	Columns    []string       `json:"columns,omitempty"`
	Where      map[string]any `json:"where,omitempty"`
	OrderBy    string         `json:"order_by,omitempty"`
	OrderDir   string         `json:"order_dir,omitempty"` // ASC (default) or DESC
	Pagination *PageSpec      `json:"pagination,omitempty"`
}

// PageSpec limits a query. Limit must be in [1,1000], offset >= 0.
// Absent pagination means no limiting and no total count computed.
type PageSpec struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageInfo is the pagination block of a paginated query result.
type PageInfo struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// QueryOutput is the envelope for the query tool. Failures are reported in
// Error/ErrorCode, never as Go errors across the tool boundary.
type QueryOutput struct {
	Rows       []map[string]any `json:"rows"`
	RowCount   int              `json:"row_count"`
	Pagination *PageInfo        `json:"pagination,omitempty"`
	QueriedAt  string           `json:"queried_at"`
	Error      string           `json:"error,omitempty"`
	ErrorCode  string           `json:"error_code,omitempty"`
}

// InsertInput is the input for the insert tool. Data holds one record or a
// batch; all records in a batch must share the same column set.
type InsertInput struct {
	Table           string           `json:"table"`
	Data            []map[string]any `json:"data"`
	OnConflict      string           `json:"on_conflict,omitempty"` // error (default), ignore, update
	ConflictColumns []string         `json:"conflict_columns,omitempty"`
	Returning       *[]string        `json:"returning,omitempty"` // nil → *, empty → none
}

// InsertOutput is the envelope for the insert tool.
type InsertOutput struct {
	Rows          []map[string]any `json:"rows"`
	InsertedCount int64            `json:"inserted_count"`
	InsertedAt    string           `json:"inserted_at"`
	Error         string           `json:"error,omitempty"`
	ErrorCode     string           `json:"error_code,omitempty"`
}

// UpdateInput is the input for the update tool. Where is mandatory.
type UpdateInput struct {
	Table     string         `json:"table"`
	Data      map[string]any `json:"data"`
	Where     map[string]any `json:"where"`
	Returning *[]string      `json:"returning,omitempty"`
}

// UpdateOutput is the envelope for the update tool.
type UpdateOutput struct {
	Rows         []map[string]any `json:"rows"`
	UpdatedCount int64            `json:"updated_count"`
	UpdatedAt    string           `json:"updated_at"`
	Error        string           `json:"error,omitempty"`
	ErrorCode    string           `json:"error_code,omitempty"`
}

// DeleteInput is the input for the delete tool. Where is mandatory.
// Confirm overrides the impact-estimation threshold.
type DeleteInput struct {
	Table     string         `json:"table"`
	Where     map[string]any `json:"where"`
	Confirm   bool           `json:"confirm,omitempty"`
	Returning *[]string      `json:"returning,omitempty"`
}

// DeleteOutput is the envelope for the delete tool. EstimatedRows is set
// when the delete was aborted pending confirmation.
type DeleteOutput struct {
	Rows          []map[string]any `json:"rows"`
	DeletedCount  int64            `json:"deleted_count"`
	EstimatedRows int              `json:"estimated_rows,omitempty"`
	DeletedAt     string           `json:"deleted_at"`
	Error         string           `json:"error,omitempty"`
	ErrorCode     string           `json:"error_code,omitempty"`
}

// ExecuteInput is the input for the free-form execute tool.
type ExecuteInput struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params,omitempty"`
}

// ExecuteOutput is the envelope for the execute tool. String fields that
// parse fully as numbers are coerced to numeric values — lossy for
// numeric-looking text such as zip codes; documented, not hidden.
type ExecuteOutput struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	RowsAffected int64            `json:"rows_affected"`
	ExecutedAt   string           `json:"executed_at"`
	Error        string           `json:"error,omitempty"`
	ErrorCode    string           `json:"error_code,omitempty"`
}

// ListTablesInput is the input for the list_tables tool.
type ListTablesInput struct{}

// TableEntry is a single table/view in the list_tables output.
type TableEntry struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	Type   string `json:"type"` // "table", "view", "materialized_view", "foreign_table", "partitioned_table"
	Owner  string `json:"owner"`
}

// ListTablesOutput is the envelope for the list_tables tool.
type ListTablesOutput struct {
	Tables    []TableEntry `json:"tables"`
	Error     string       `json:"error,omitempty"`
	ErrorCode string       `json:"error_code,omitempty"`
}

// DescribeTableInput is the input for the describe_table tool.
type DescribeTableInput struct {
	Table  string `json:"table"`
	Schema string `json:"schema,omitempty"` // defaults to "public"
}

// ColumnInfo describes a single column.
type ColumnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Nullable     bool   `json:"nullable"`
	Default      string `json:"default,omitempty"`
	IsPrimaryKey bool   `json:"is_primary_key"`
}

// IndexInfo describes a single index.
type IndexInfo struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
	IsUnique   bool   `json:"is_unique"`
	IsPrimary  bool   `json:"is_primary"`
}

// ForeignKeyInfo describes a single foreign key.
type ForeignKeyInfo struct {
	Name              string `json:"name"`
	Columns           string `json:"columns"`
	ReferencedTable   string `json:"referenced_table"`
	ReferencedColumns string `json:"referenced_columns"`
}

// DescribeTableOutput is the envelope for the describe_table tool.
type DescribeTableOutput struct {
	Schema      string           `json:"schema"`
	Name        string           `json:"name"`
	Columns     []ColumnInfo     `json:"columns"`
	Indexes     []IndexInfo      `json:"indexes"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys"`
	Error       string           `json:"error,omitempty"`
	ErrorCode   string           `json:"error_code,omitempty"`
}
