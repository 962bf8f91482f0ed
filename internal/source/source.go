// Package source loads vendor export tables from disk. It is a thin
// collaborator: everything after the Table leaves this package.
package source

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agentperf-cli/internal/extract"
)

// ReadTable loads a CSV or XLSX export, chosen by file extension.
// The first row is the header; header cells and fields are trimmed
// because vendors pad column names inconsistently.
func ReadTable(path string) (extract.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return extract.Table{}, eris.Errorf("source: unsupported file type %q", path)
	}
}

// buildTable zips a header row and data rows into a Table. Rows longer
// than the header are truncated; shorter rows leave the missing
// columns empty.
func buildTable(headers []string, rows [][]string) extract.Table {
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	tbl := extract.Table{Headers: headers}
	for _, row := range rows {
		rec := make(extract.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl
}
