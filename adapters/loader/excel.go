package loader

import (
	"strconv"
	"strings"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// readExcel reads one sheet of a workbook. sheet is a sheet name or a
// zero-based index; empty means the first sheet.
func (l *Loader) readExcel(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "error reading Excel file %s", path))
	}
	defer f.Close()

	name, err := resolveSheet(f.GetSheetList(), sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to read sheet %s", name))
	}
	l.log.Debug("[Loader] sheet %s read (%d rows)", name, len(rows))

	if len(rows) == 0 {
		return nil, errors.InvalidInput("sheet " + name + " has no header row")
	}
	return table.New(rows[0], rows[1:]), nil
}

func resolveSheet(sheets []string, sheet string) (string, error) {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = "0"
	}
	for _, s := range sheets {
		if s == sheet {
			return s, nil
		}
	}
	if idx, err := strconv.Atoi(sheet); err == nil {
		if idx >= 0 && idx < len(sheets) {
			return sheets[idx], nil
		}
		return "", errors.NotFound("sheet index " + sheet)
	}
	return "", errors.NotFound("sheet " + strconv.Quote(sheet))
}
