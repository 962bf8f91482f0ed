// Package roster holds the agent roster and matches aggregated
// activity against it.
package roster

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agentperf-cli/internal/extract"
)

// Department is the organizational bucket an agent reports to.
type Department int

const (
	// None covers department codes outside {1, 2}; such entries stay in
	// the roster (so their agents are never "unmatched") but belong to
	// neither reporting bucket.
	None Department = 0

	Conversion Department = 1
	Retention  Department = 2
)

// String returns the report name of the department.
func (d Department) String() string {
	switch d {
	case Conversion:
		return "Conversion"
	case Retention:
		return "Retention"
	default:
		return "None"
	}
}

// Entry is one roster row. Key is the case-normalized agent name;
// roster matching is exact string equality on it, nothing fuzzier.
type Entry struct {
	Key        string
	Desk       string
	Department Department
}

// Roster is the read-only set of known agents for a run.
type Roster struct {
	entries map[string]Entry
	order   []string // roster file order, for stable output
}

// New builds a roster from entries. A duplicate key is a configuration
// error: the roster is hand-maintained and a repeat means two rows
// claim the same agent.
func New(entries []Entry) (*Roster, error) {
	r := &Roster{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Key == "" {
			return nil, eris.New("roster: entry with empty agent name")
		}
		if _, ok := r.entries[e.Key]; ok {
			return nil, eris.Errorf("roster: duplicate agent %q", e.Key)
		}
		r.entries[e.Key] = e
		r.order = append(r.order, e.Key)
	}
	return r, nil
}

// Roster table column names, as exported by HR.
const (
	colAgentName  = "AGENTNAME"
	colDesk       = "DESK"
	colDepartment = "DEPARTMENT"
)

// ParseTable builds a roster from the HR export table. Agent names are
// trimmed and lowercased; desks are trimmed. Unknown department codes
// load as None.
func ParseTable(tbl extract.Table) (*Roster, error) {
	for _, col := range []string{colAgentName, colDesk, colDepartment} {
		found := false
		for _, h := range tbl.Headers {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			return nil, eris.Errorf("roster: missing column %q", col)
		}
	}

	entries := make([]Entry, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		key := strings.ToLower(strings.TrimSpace(row[colAgentName]))
		if key == "" {
			continue
		}
		dept := None
		if code, err := strconv.Atoi(strings.TrimSpace(row[colDepartment])); err == nil {
			switch Department(code) {
			case Conversion:
				dept = Conversion
			case Retention:
				dept = Retention
			}
		}
		if dept == None {
			zap.L().Debug("roster: agent outside reporting departments",
				zap.String("agent", key),
				zap.String("code", row[colDepartment]),
			)
		}
		entries = append(entries, Entry{
			Key:        key,
			Desk:       strings.TrimSpace(row[colDesk]),
			Department: dept,
		})
	}

	return New(entries)
}

// Lookup returns the entry for a canonical key.
func (r *Roster) Lookup(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Entries returns all roster entries in file order.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Len returns the number of roster entries.
func (r *Roster) Len() int { return len(r.entries) }
