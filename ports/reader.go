package ports

import (
	"context"

	"paperkit/domain/table"
)

// Source formats understood by a TableLoader
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
	FormatSQL   = "sql"
)

// TableSource describes where a table comes from
type TableSource struct {
	Path            string   // file path or sqlite:// / postgres:// DSN
	Format          string   // empty means infer from Path
	Sheet           string   // Excel sheet name or zero-based index; SQL table name
	RecordPath      string   // gjson path to the record array inside a JSON document
	Query           string   // SQL query, overrides Sheet
	RequiredColumns []string // validated after loading
}

// TableLoader reads a tabular source into memory
type TableLoader interface {
	Load(ctx context.Context, src TableSource) (*table.Table, error)
}
