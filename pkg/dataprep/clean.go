// Package dataprep turns raw wine tables into model-ready feature matrices:
// name cleaning, empty-row/column removal, numeric coercion, imputation,
// category encoding and outcome derivation.
package dataprep

import (
	"strings"

	"github.com/deyachatterjee/data-science-toolkit/pkg/data"
	"github.com/deyachatterjee/data-science-toolkit/pkg/logging"
)

// IsMissing reports whether a raw field is a missing-value marker.
func IsMissing(v string) bool {
	return v == "" || v == "NA" || v == "NaN"
}

// CleanNames standardizes column names to lower snake_case: lowercase,
// non-alphanumeric runs collapsed to a single underscore, no leading or
// trailing underscores. "fixed acidity" becomes "fixed_acidity".
func CleanNames(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		var b strings.Builder
		lastUnderscore := true // suppress leading underscore
		for _, r := range strings.ToLower(h) {
			alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			if alnum {
				b.WriteRune(r)
				lastUnderscore = false
			} else if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
		out[i] = strings.TrimRight(b.String(), "_")
	}
	return out
}

// DropEmpty removes rows and columns whose fields are all missing markers.
// It returns a new table plus the counts of dropped rows and columns.
func DropEmpty(t *data.Table) (*data.Table, int, int) {
	rows, cols := len(t.Rows), len(t.Header)

	keepCol := make([]bool, cols)
	for c := range keepCol {
		for r := 0; r < rows; r++ {
			if !IsMissing(t.Rows[r][c]) {
				keepCol[c] = true
				break
			}
		}
	}

	out := &data.Table{Skipped: t.Skipped}
	droppedCols := 0
	for c, keep := range keepCol {
		if keep {
			out.Header = append(out.Header, t.Header[c])
		} else {
			droppedCols++
			logging.Debug().Str("column", t.Header[c]).Msg("dropping empty column")
		}
	}

	droppedRows := 0
	for _, row := range t.Rows {
		empty := true
		for c, v := range row {
			if keepCol[c] && !IsMissing(v) {
				empty = false
				break
			}
		}
		if empty {
			droppedRows++
			continue
		}
		kept := make([]string, 0, len(out.Header))
		for c, v := range row {
			if keepCol[c] {
				kept = append(kept, v)
			}
		}
		out.Rows = append(out.Rows, kept)
	}
	return out, droppedRows, droppedCols
}
