// Package extract turns one source's raw rows into normalized
// per-agent contributions, applying the source's schema: status
// filtering, duration parsing, identity normalization, and attempt and
// unique-contact extraction.
package extract

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agentperf-cli/internal/duration"
	"github.com/sells-group/agentperf-cli/internal/identity"
	"github.com/sells-group/agentperf-cli/internal/schema"
)

// RawRecord is one row of a vendor export, keyed by column name.
// Ephemeral: it exists only during extraction.
type RawRecord map[string]string

// Table is an already-loaded vendor export.
type Table struct {
	Headers []string
	Rows    []RawRecord
}

// Contribution is one row's normalized yield: every listed agent is
// credited with the row's seconds and attempts.
type Contribution struct {
	SourceID string
	Agents   []string
	Seconds  int
	Attempts int
}

// Issue records a recovered data-quality problem. Issues are collected
// and surfaced, not just logged, so callers can judge output trust.
type Issue struct {
	SourceID string
	Row      int // 1-based data row, header excluded
	Field    string
	Value    string
	Reason   string
}

// Extraction is the full normalized yield of one source.
type Extraction struct {
	SourceID      string
	Contributions []Contribution
	// Unique maps agent key to the source's unique-contact count,
	// pre-aggregated per source per the schema's unique mode.
	Unique map[string]int
	Issues []Issue
}

// Run extracts a source table using its schema. A missing column is a
// schema mismatch and returns an error: the whole source must be
// skipped. Row-level problems never fail the run; they default the
// affected value to zero and are reported as Issues.
func Run(tbl Table, sc schema.Schema) (Extraction, error) {
	if err := sc.Validate(tbl.Headers); err != nil {
		return Extraction{}, err
	}

	ex := Extraction{
		SourceID: sc.SourceID,
		Unique:   make(map[string]int),
	}

	// Distinct unique-contact values per agent, for UniqueDistinct sources.
	distinct := make(map[string]map[string]struct{})

	for i, row := range tbl.Rows {
		rowNum := i + 1

		if sc.StatusField != "" && row[sc.StatusField] != sc.StatusAccept {
			continue
		}

		agents := creditedAgents(row[sc.AgentField], sc.AgentList)
		if len(agents) == 0 {
			continue
		}

		seconds, err := duration.ParseSeconds(row[sc.DurationField], sc.DurationConvention)
		if err != nil {
			ex.Issues = append(ex.Issues, newIssue(sc, rowNum, sc.DurationField, row[sc.DurationField], err))
			seconds = 0
		}

		attempts := 1
		if sc.AttemptsField != "" {
			attempts, err = parseCount(row[sc.AttemptsField])
			if err != nil {
				ex.Issues = append(ex.Issues, newIssue(sc, rowNum, sc.AttemptsField, row[sc.AttemptsField], err))
				attempts = 0
			}
		}

		ex.Contributions = append(ex.Contributions, Contribution{
			SourceID: sc.SourceID,
			Agents:   agents,
			Seconds:  seconds,
			Attempts: attempts,
		})

		switch sc.UniqueMode {
		case schema.UniqueDistinct:
			val := strings.TrimSpace(row[sc.UniqueField])
			if val == "" {
				break
			}
			for _, a := range agents {
				if distinct[a] == nil {
					distinct[a] = make(map[string]struct{})
				}
				distinct[a][val] = struct{}{}
			}
		case schema.UniqueReported:
			n, err := parseCount(row[sc.UniqueField])
			if err != nil {
				ex.Issues = append(ex.Issues, newIssue(sc, rowNum, sc.UniqueField, row[sc.UniqueField], err))
				break
			}
			for _, a := range agents {
				// First reported value wins; the count is already
				// aggregated per source.
				if _, ok := ex.Unique[a]; !ok {
					ex.Unique[a] = n
				}
			}
		}
	}

	for agent, vals := range distinct {
		ex.Unique[agent] = len(vals)
	}

	if len(ex.Issues) > 0 {
		zap.L().Warn("extract: data-quality issues in source",
			zap.String("source", sc.SourceID),
			zap.Int("issues", len(ex.Issues)),
			zap.Int("rows", len(tbl.Rows)),
		)
	}

	return ex, nil
}

// creditedAgents normalizes the agent field and drops empty keys, which
// represent "no agent" and must never be aggregated.
func creditedAgents(raw string, list bool) []string {
	keys := identity.Keys(raw, list)
	agents := keys[:0]
	for _, k := range keys {
		if k != "" {
			agents = append(agents, k)
		}
	}
	return agents
}

func newIssue(sc schema.Schema, row int, field, value string, err error) Issue {
	zap.L().Warn("extract: bad value, defaulting to zero",
		zap.String("source", sc.SourceID),
		zap.Int("row", row),
		zap.String("field", field),
		zap.String("value", value),
		zap.Error(err),
	)
	return Issue{
		SourceID: sc.SourceID,
		Row:      row,
		Field:    field,
		Value:    value,
		Reason:   err.Error(),
	}
}

// parseCount parses a numeric cell. Vendors export counts as integers,
// floats ("3.0"), or with thousands separators.
func parseCount(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, eris.New("empty count")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, eris.Errorf("negative count %q", raw)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, eris.Errorf("non-numeric count %q", raw)
	}
	return int(f), nil
}
