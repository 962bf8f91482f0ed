// Package schema declares the per-source column layout of vendor call
// exports. Adding support for a new vendor means adding one registry
// entry; no extraction code changes.
package schema

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agentperf-cli/internal/duration"
)

// UniqueMode says how a source reports unique-contact counts.
type UniqueMode int

const (
	// UniqueNone: the source carries no unique-contact information.
	UniqueNone UniqueMode = iota

	// UniqueDistinct: count distinct values of UniqueField per agent.
	UniqueDistinct

	// UniqueReported: UniqueField already holds a pre-aggregated count.
	UniqueReported
)

// Schema describes one source's column roles.
type Schema struct {
	SourceID string

	// AgentField holds the agent identity. When AgentList is true the
	// field is "; "-joined and credits every listed agent.
	AgentField string
	AgentList  bool

	DurationField      string
	DurationConvention duration.Convention

	// AttemptsField, when set, holds a pre-aggregated attempt count.
	// When empty each row counts as one attempt.
	AttemptsField string

	UniqueField string
	UniqueMode  UniqueMode

	// StatusField/StatusAccept, when set, drop every row whose status
	// does not equal the accepted value before any aggregation.
	StatusField  string
	StatusAccept string
}

// Columns returns every column the schema requires of a source table.
func (s Schema) Columns() []string {
	cols := []string{s.AgentField, s.DurationField}
	if s.AttemptsField != "" {
		cols = append(cols, s.AttemptsField)
	}
	if s.UniqueField != "" {
		cols = append(cols, s.UniqueField)
	}
	if s.StatusField != "" {
		cols = append(cols, s.StatusField)
	}
	return cols
}

// Validate checks that every required column is present in the table
// header. A missing column means the whole source must be skipped.
func (s Schema) Validate(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range s.Columns() {
		if !present[col] {
			return eris.Errorf("schema: source %s: missing column %q", s.SourceID, col)
		}
	}
	return nil
}

// Registry is a lookup table of source schemas, keyed by source ID.
type Registry struct {
	byID map[string]Schema
}

// NewRegistry builds a registry from the given schemas. Duplicate
// source IDs are a configuration error.
func NewRegistry(schemas []Schema) (*Registry, error) {
	r := &Registry{byID: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		if s.SourceID == "" {
			return nil, eris.New("schema: entry with empty source id")
		}
		if _, ok := r.byID[s.SourceID]; ok {
			return nil, eris.Errorf("schema: duplicate source id %q", s.SourceID)
		}
		if s.AgentField == "" || s.DurationField == "" {
			return nil, eris.Errorf("schema: source %s: agent and duration fields are required", s.SourceID)
		}
		if s.StatusField != "" && s.StatusAccept == "" {
			return nil, eris.Errorf("schema: source %s: status filter declared without accepted value", s.SourceID)
		}
		if s.UniqueMode != UniqueNone && s.UniqueField == "" {
			return nil, eris.Errorf("schema: source %s: unique mode declared without field", s.SourceID)
		}
		r.byID[s.SourceID] = s
	}
	return r, nil
}

// Lookup returns the schema for a source ID.
func (r *Registry) Lookup(id string) (Schema, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// IDs returns all registered source IDs, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns the registry for the seven production sources.
func Builtin() *Registry {
	voiso := func(id string) Schema {
		return Schema{
			SourceID:      id,
			AgentField:    "Agent(s)",
			AgentList:     true,
			DurationField: "Talk time",
			UniqueField:   "DNIS/To",
			UniqueMode:    UniqueDistinct,
		}
	}
	coperato := func(id string) Schema {
		return Schema{
			SourceID:      id,
			AgentField:    "Name",
			DurationField: "Duration",
			AttemptsField: "Call Attempts",
			UniqueField:   "Unique",
			UniqueMode:    UniqueReported,
			StatusField:   "Disposition",
			StatusAccept:  "ANSWERED",
		}
	}

	r, err := NewRegistry([]Schema{
		voiso("voiso-summitlife"),
		voiso("voiso-traling"),
		voiso("voiso-24x"),
		coperato("coperato-traling"),
		coperato("coperato-signix"),
		coperato("coperato-24x"),
		{
			SourceID:           "voicespin",
			AgentField:         "AGENT",
			DurationField:      "BILLSEC",
			DurationConvention: duration.TrailingZero,
			UniqueField:        "CALL ID",
			UniqueMode:         UniqueDistinct,
			StatusField:        "CALL STATUS",
			StatusAccept:       "ANSWERED",
		},
	})
	if err != nil {
		// Built-in entries are static; a failure here is a programming error.
		panic(err)
	}
	return r
}
