package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paperkit/domain/table"
	"paperkit/internal/errors"
	"paperkit/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func isDSN(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "sqlite://") ||
		strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://")
}

// driverFor maps a source path onto a database/sql driver name and DSN.
// Bare .db/.sqlite paths open as SQLite files.
func driverFor(path string) (string, string) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", path
	case strings.HasPrefix(lower, "sqlite://"):
		return "sqlite", path[len("sqlite://"):]
	default:
		return "sqlite", path
	}
}

// readSQL runs src.Query, or selects every row of the table named by
// src.Sheet, and returns the result set as a table.
func (l *Loader) readSQL(ctx context.Context, src ports.TableSource) (*table.Table, error) {
	query := strings.TrimSpace(src.Query)
	if query == "" {
		if strings.TrimSpace(src.Sheet) == "" {
			return nil, errors.InvalidInput("SQL source needs a query or a table name")
		}
		query = fmt.Sprintf("SELECT * FROM %s", quoteIdent(src.Sheet))
	}

	driver, dsn := driverFor(src.Path)
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", driver)
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "query failed: %s", query))
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read result columns")
	}

	var out [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = sqlText(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration failed")
	}

	l.log.Debug("[Loader] %s query returned %d rows", driver, len(out))
	return table.New(headers, out), nil
}

func sqlText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
