// Package report renders a reconciliation result as a styled workbook
// and a terminal summary. Presentation only: it never mutates the
// result.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/agentperf-cli/internal/duration"
	"github.com/sells-group/agentperf-cli/internal/recon"
	"github.com/sells-group/agentperf-cli/internal/roster"
	"github.com/sells-group/agentperf-cli/internal/target"
)

// Options controls workbook layout.
type Options struct {
	// Desk display order per department. Desks not listed sort last.
	ConversionDeskOrder []string
	RetentionDeskOrder  []string
}

var header = []string{
	"Desk", "Agent Name", "Total Time", "Call Attempts", "Unique",
	"Time %", "Attempts %", "Unique %", "Sources",
}

// Desk fill colors carried over from the legacy report sheets.
var deskColors = map[string]string{
	"Team Elly":        "FFCCCC",
	"Team Vincent":     "FFEBEE",
	"Team Rahul":       "FAE1C4",
	"Team Sameer":      "F4BD7D",
	"Team Eden":        "E8F0FE",
	"Team Elena":       "E8F0FE",
	"Team Larisa":      "FFEDD5",
	"Japan Team":       "FFEBEE",
	"Korean Team":      "FFE4E1",
	"Aarav Team":       "FAE1C4",
	"Ajay Team":        "FFF9DB",
	"AKA Team":         "E6FFE6",
	"French Maxime":    "E8F0FE",
	"Spanish Andres":   "FFEDD5",
	"Portuguese Pedro": "D4EFD4",
}

const greyColor = "D3D3D3"

var titleCaser = cases.Title(language.English)

// WriteWorkbook writes the Conversion Agents, Retention Agents, and
// Unmatched Agents sheets to path.
func WriteWorkbook(path string, res *recon.Result, opts Options) error {
	f := xlsx.NewFile()

	if err := addDepartmentSheet(f, "Conversion Agents", res, res.Conversion, res.Targets.Conversion, opts.ConversionDeskOrder); err != nil {
		return err
	}
	if err := addDepartmentSheet(f, "Retention Agents", res, res.Retention, res.Targets.Retention, opts.RetentionDeskOrder); err != nil {
		return err
	}
	if err := addUnmatchedSheet(f, res.Unmatched); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

func addDepartmentSheet(f *xlsx.File, name string, res *recon.Result, agents []roster.MatchedAgent, dt target.DepartmentTargets, deskOrder []string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(borderedStyle(""))
	}

	for _, ma := range sortedAgents(agents, deskOrder) {
		results, err := target.Compute(dt, ma.TotalSeconds, ma.TotalAttempts, ma.TotalUnique())
		if err != nil {
			return err
		}

		values := []string{
			ma.Desk,
			titleCaser.String(ma.Key),
			duration.FormatSeconds(ma.TotalSeconds),
			fmt.Sprintf("%d", ma.TotalAttempts),
			fmt.Sprintf("%d", ma.TotalUnique()),
			formatPercent(results[0].Percentage),
			formatPercent(results[1].Percentage),
			formatPercent(results[2].Percentage),
			formatSources(ma),
		}

		row := sheet.AddRow()
		for _, v := range values {
			cell := row.AddCell()
			cell.SetString(v)
			fill := deskColors[ma.Desk]
			if isZeroValue(v) {
				fill = greyColor
			}
			cell.SetStyle(borderedStyle(fill))
		}
	}

	return nil
}

func addUnmatchedSheet(f *xlsx.File, unmatched roster.UnmatchedSet) error {
	sheet, err := f.AddSheet("Unmatched Agents")
	if err != nil {
		return eris.Wrap(err, "report: add unmatched sheet")
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().SetString("Source")
	headerRow.AddCell().SetString("Agent")

	for _, src := range unmatched.Sources() {
		for _, key := range unmatched.Keys(src) {
			row := sheet.AddRow()
			row.AddCell().SetString(src)
			row.AddCell().SetString(titleCaser.String(key))
		}
	}

	return nil
}

// sortedAgents orders a department bucket by configured desk order,
// then total seconds descending, then key.
func sortedAgents(agents []roster.MatchedAgent, deskOrder []string) []roster.MatchedAgent {
	rank := make(map[string]int, len(deskOrder))
	for i, desk := range deskOrder {
		rank[desk] = i
	}
	deskRank := func(desk string) int {
		if r, ok := rank[desk]; ok {
			return r
		}
		return len(deskOrder)
	}

	out := make([]roster.MatchedAgent, len(agents))
	copy(out, agents)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := deskRank(out[i].Desk), deskRank(out[j].Desk)
		if ri != rj {
			return ri < rj
		}
		if out[i].TotalSeconds != out[j].TotalSeconds {
			return out[i].TotalSeconds > out[j].TotalSeconds
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

func formatSources(ma roster.MatchedAgent) string {
	ids := ma.SourceIDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %d s", id, ma.PerSource[id].Seconds))
	}
	if len(parts) == 0 {
		return "No sources"
	}
	return strings.Join(parts, "; ")
}

func isZeroValue(v string) bool {
	switch v {
	case "0", "0 s", "0.00%":
		return true
	}
	return false
}

func borderedStyle(fillColor string) *xlsx.Style {
	style := xlsx.NewStyle()
	style.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	style.ApplyBorder = true
	if fillColor != "" {
		style.Fill = *xlsx.NewFill("solid", fillColor, fillColor)
		style.ApplyFill = true
	}
	return style
}
