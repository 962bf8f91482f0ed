package source

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/agentperf-cli/internal/extract"
)

// ReadXLSX loads an XLSX export. An empty sheet name selects the first
// sheet. The first row is the header.
func ReadXLSX(path, sheetName string) (extract.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return extract.Table{}, eris.Wrap(err, "source: open xlsx")
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return extract.Table{}, err
	}

	var headers []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	if headers == nil {
		return extract.Table{}, eris.Errorf("source: xlsx sheet in %s is empty", path)
	}

	return buildTable(headers, rows), nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("source: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("source: xlsx file has no sheets")
	}
	return f.Sheets[0], nil
}
