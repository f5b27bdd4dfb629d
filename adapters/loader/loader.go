package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paperkit/domain/table"
	"paperkit/internal"
	"paperkit/internal/errors"
	"paperkit/ports"
)

// Loader reads CSV, Excel, JSON and SQL sources into tables
type Loader struct {
	log *internal.Logger
}

// New creates a loader; a nil logger falls back to the default logger
func New(log *internal.Logger) *Loader {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Loader{log: log}
}

var _ ports.TableLoader = (*Loader)(nil)

// DetectFormat infers the source format from the URL scheme or file extension
func DetectFormat(path string) (string, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "sqlite://"),
		strings.HasPrefix(lower, "postgres://"),
		strings.HasPrefix(lower, "postgresql://"):
		return ports.FormatSQL, nil
	}

	switch ext := filepath.Ext(lower); ext {
	case ".csv", ".tsv", ".txt":
		return ports.FormatCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ports.FormatExcel, nil
	case ".json":
		return ports.FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return ports.FormatSQL, nil
	default:
		if ext == "" {
			ext = path
		}
		return "", errors.UnsupportedFormat(ext)
	}
}

// Load reads src and validates its required columns
func (l *Loader) Load(ctx context.Context, src ports.TableSource) (*table.Table, error) {
	format := strings.ToLower(strings.TrimSpace(src.Format))
	if format == "" {
		detected, err := DetectFormat(src.Path)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	if format == "xlsx" {
		format = ports.FormatExcel
	}

	if path, local := localFile(format, src.Path); local {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.Newf(errors.CodeNotFound, "%s file not found: %s", formatLabel(format), path)
		}
	}

	start := time.Now()
	l.log.Debug("[Loader] reading %s source: %s", format, src.Path)

	var (
		t   *table.Table
		err error
	)
	switch format {
	case ports.FormatCSV:
		t, err = l.readCSV(src.Path)
	case ports.FormatExcel:
		t, err = l.readExcel(src.Path, src.Sheet)
	case ports.FormatJSON:
		t, err = l.readJSON(src.Path, src.RecordPath)
	case ports.FormatSQL:
		t, err = l.readSQL(ctx, src)
	default:
		return nil, errors.UnsupportedFormat(format)
	}
	if err != nil {
		return nil, err
	}

	rows, cols := t.Shape()
	l.log.Info("[Loader] %s loaded in %.2fms (%d rows, %d columns)",
		src.Path, float64(time.Since(start).Nanoseconds())/1e6, rows, cols)

	if err := t.Require(src.RequiredColumns...); err != nil {
		return nil, err
	}
	return t, nil
}

// localFile returns the on-disk path behind a source. Server DSNs and
// in-memory SQLite databases have none. The SQLite driver creates missing
// files on connect, so sqlite:// sources are checked like bare paths.
func localFile(format, path string) (string, bool) {
	if format != ports.FormatSQL || !isDSN(path) {
		return path, true
	}
	driver, dsn := driverFor(path)
	if driver != "sqlite" {
		return "", false
	}
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	dsn = strings.TrimPrefix(dsn, "file:")
	if dsn == "" || dsn == ":memory:" {
		return "", false
	}
	return dsn, true
}

func formatLabel(format string) string {
	switch format {
	case ports.FormatExcel:
		return "Excel"
	case ports.FormatSQL:
		return "database"
	default:
		return strings.ToUpper(format)
	}
}
