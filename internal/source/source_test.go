package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestParseCSV(t *testing.T) {
	data := ` Name , Duration ,Disposition
Jane Doe,10:00,ANSWERED
Sam Roe ,1:00:00,NO ANSWER
Short,0:30
`
	tbl, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Duration", "Disposition"}, tbl.Headers)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "Jane Doe", tbl.Rows[0]["Name"])
	assert.Equal(t, "10:00", tbl.Rows[0]["Duration"])
	assert.Equal(t, "Sam Roe", tbl.Rows[1]["Name"])
	// Short rows leave missing columns empty.
	assert.Equal(t, "", tbl.Rows[2]["Disposition"])
}

func TestParseCSV_NoHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadTable_Dispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "calls.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Agent,Talk\nAnn,1:30\n"), 0o644))

	tbl, err := ReadTable(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "1:30", tbl.Rows[0]["Talk"])

	_, err = ReadTable(filepath.Join(dir, "calls.txt"))
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowVals := range [][]string{
		{"AGENTNAME", "DESK", "DEPARTMENT"},
		{" Jane Doe ", "Team A", "1"},
		{"Bob", "Japan Team", "2"},
	} {
		row := sheet.AddRow()
		for _, v := range rowVals {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))

	tbl, err := ReadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AGENTNAME", "DESK", "DEPARTMENT"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Jane Doe", tbl.Rows[0]["AGENTNAME"])
	assert.Equal(t, "2", tbl.Rows[1]["DEPARTMENT"])

	_, err = ReadXLSX(path, "Missing Sheet")
	assert.Error(t, err)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}
