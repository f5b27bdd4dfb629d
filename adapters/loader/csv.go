package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"paperkit/domain/table"
	"paperkit/internal/errors"
)

// readCSV reads a comma (or, for .tsv, tab) separated file with a header row
func (l *Loader) readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "error reading CSV file %s", path))
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("CSV file " + path + " has no header row")
	}

	// A UTF-8 BOM survives encoding/csv and would end up in the first header.
	rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")

	return table.New(rows[0], rows[1:]), nil
}
