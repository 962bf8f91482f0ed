package source

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agentperf-cli/internal/extract"
)

// ReadCSV loads a CSV export. Vendors disagree on quoting and trailing
// columns, so parsing is lenient: lazy quotes, variable field counts.
func ReadCSV(path string) (extract.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return extract.Table{}, eris.Wrap(err, "source: open csv")
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads CSV rows from r. The first record is the header.
func ParseCSV(r io.Reader) (extract.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var headers []string
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return extract.Table{}, eris.Wrap(err, "source: read csv row")
		}
		if headers == nil {
			headers = record
			continue
		}
		rows = append(rows, record)
	}

	if headers == nil {
		return extract.Table{}, eris.New("source: csv has no header row")
	}

	return buildTable(headers, rows), nil
}
