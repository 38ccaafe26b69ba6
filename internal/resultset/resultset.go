// Package resultset loads the CSV files the collection tooling produces and
// extracts named numeric samples from them. Rows are kept as ordered
// column-keyed records so the same file can feed several metrics (for example
// latency.csv filtered per scenario).
package resultset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Row is one CSV record keyed by header column.
type Row map[string]string

// Load reads a result CSV from disk. A missing file yields no rows rather
// than an error: result directories legitimately lack files for metrics that
// were not collected.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Read decodes header-keyed rows from r, preserving record order.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Column extracts the float values of one column in row order. When scenario
// is non-empty only rows whose "scenario" column matches are used. Blank and
// unparsable cells are skipped, so partially collected files still produce a
// usable sample.
func Column(rows []Row, name, scenario string) []float64 {
	var out []float64
	for _, row := range rows {
		if scenario != "" && row["scenario"] != scenario {
			continue
		}
		cell := row[name]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
