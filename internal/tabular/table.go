package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Table is an in-memory CSV: an ordered header plus rows of string values.
// All statement and warehouse data flows through string tables so that
// numeric formatting from upstream exports is preserved untouched.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

func New(headers ...string) *Table {
	return &Table{Headers: append([]string{}, headers...)}
}

// Read loads a CSV file. Ragged rows are tolerated: short rows leave the
// missing columns empty, long rows drop the excess.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: no header row", filepath.Base(path))
	}

	t := New(records[0]...)
	for _, record := range records[1:] {
		row := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write materialises the table to disk in one pass.
func (t *Table) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (t *Table) AddRow(row map[string]string) {
	t.Rows = append(t.Rows, row)
}

// Rename applies a static column rename map; unknown columns pass through.
func (t *Table) Rename(mapping map[string]string) {
	for i, h := range t.Headers {
		if renamed, ok := mapping[h]; ok {
			t.Headers[i] = renamed
		}
	}
	for ri, row := range t.Rows {
		renamedRow := make(map[string]string, len(row))
		for k, v := range row {
			if renamed, ok := mapping[k]; ok {
				k = renamed
			}
			renamedRow[k] = v
		}
		t.Rows[ri] = renamedRow
	}
}

// EnsureColumn appends a column if the table does not already have it.
func (t *Table) EnsureColumn(name string) {
	for _, h := range t.Headers {
		if h == name {
			return
		}
	}
	t.Headers = append(t.Headers, name)
}

// Append concatenates another table, extending the header to the union of
// both column sets. Rows keep empty strings for columns they lack.
func (t *Table) Append(other *Table) {
	for _, h := range other.Headers {
		t.EnsureColumn(h)
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// SortBy sorts rows with a stable comparison.
func (t *Table) SortBy(less func(a, b map[string]string) bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return less(t.Rows[i], t.Rows[j])
	})
}

// Transform rewrites one column in place.
func (t *Table) Transform(column string, fn func(string) string) {
	for _, row := range t.Rows {
		row[column] = fn(row[column])
	}
}
