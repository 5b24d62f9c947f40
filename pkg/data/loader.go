// Package data reads delimited wine-measurement files into in-memory tables.
package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deyachatterjee/data-science-toolkit/pkg/logging"
)

// Table is an ordered collection of raw records sharing one header.
type Table struct {
	Header []string
	Rows   [][]string

	// Skipped counts malformed rows dropped during load.
	Skipped int
}

// LoadCSV reads a delimited file with a header row. Rows whose field count
// does not match the header are skipped and counted, not fatal.
func LoadCSV(path string, delim rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("data: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("data: read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.Trim(header[i], `"`))
	}

	t := &Table{Header: header}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Skipped++
			logging.Warn().Str("path", path).Err(err).Msg("skipping unreadable record")
			continue
		}
		if len(rec) != len(header) {
			t.Skipped++
			logging.Warn().Str("path", path).Int("fields", len(rec)).Msg("skipping record with wrong field count")
			continue
		}
		row := make([]string, len(rec))
		for i, f := range rec {
			row[i] = strings.TrimSpace(f)
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("data: %s has no data rows", path)
	}
	return t, nil
}

// Tagged pairs a table with the source category of its records.
type Tagged struct {
	Tag   string
	Table *Table
}

// Concat merges tagged tables into one, appending a column named tagColumn
// that holds each record's source category. All parts must share the header.
func Concat(tagColumn string, parts ...Tagged) (*Table, error) {
	if len(parts) == 0 {
		return nil, errors.New("data: nothing to concatenate")
	}
	header := parts[0].Table.Header
	for _, p := range parts[1:] {
		if !equalHeaders(header, p.Table.Header) {
			return nil, fmt.Errorf("data: header mismatch between sources (%v vs %v)", header, p.Table.Header)
		}
	}

	out := &Table{Header: append(append([]string(nil), header...), tagColumn)}
	for _, p := range parts {
		out.Skipped += p.Table.Skipped
		for _, row := range p.Table.Rows {
			out.Rows = append(out.Rows, append(append([]string(nil), row...), p.Tag))
		}
	}
	return out, nil
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	j := t.ColumnIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("data: no column %q", name)
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col, nil
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for j, h := range t.Header {
		if h == name {
			return j
		}
	}
	return -1
}

func equalHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
