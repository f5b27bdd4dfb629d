package loader

import (
	"fmt"
	"os"

	"paperkit/domain/table"
	"paperkit/internal/errors"

	"github.com/tidwall/gjson"
)

// readJSON reads an array of flat records. recordPath selects the array
// inside a wrapping document; nested values are kept as raw JSON text.
func (l *Loader) readJSON(path, recordPath string) (*table.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read JSON file %s", path)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.InvalidInput("invalid JSON in file " + path)
	}

	records := gjson.ParseBytes(raw)
	if recordPath != "" {
		records = records.Get(recordPath)
		if !records.Exists() {
			return nil, errors.NotFound("record path '" + recordPath + "' in " + path)
		}
	}
	if !records.IsArray() {
		return nil, errors.InvalidInput("JSON source " + path + " is not an array of records")
	}

	var headers []string
	index := make(map[string]int)
	var cells []map[string]string

	for i, rec := range records.Array() {
		if !rec.IsObject() {
			return nil, errors.InvalidInput(fmt.Sprintf("JSON record %d in %s is not an object", i, path))
		}
		row := make(map[string]string)
		rec.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if _, ok := index[name]; !ok {
				index[name] = len(headers)
				headers = append(headers, name)
			}
			row[name] = cellText(value)
			return true
		})
		cells = append(cells, row)
	}

	rows := make([][]string, len(cells))
	for i, c := range cells {
		row := make([]string, len(headers))
		for name, v := range c {
			row[index[name]] = v
		}
		rows[i] = row
	}
	l.log.Debug("[Loader] JSON records parsed (%d records, %d keys)", len(rows), len(headers))
	return table.New(headers, rows), nil
}

func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.String()
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return v.Raw
	}
}

// LoadJSON reads an arbitrary JSON document into maps, slices and scalars
func LoadJSON(path string) (interface{}, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Newf(errors.CodeNotFound, "JSON file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading JSON file %s", path)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.InvalidInput("invalid JSON in file " + path)
	}
	return gjson.ParseBytes(raw).Value(), nil
}
