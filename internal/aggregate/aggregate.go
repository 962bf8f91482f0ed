// Package aggregate folds extraction output into per-agent totals.
//
// The Store is the single writer of AgentAggregate values during a run;
// everything downstream treats them as read-only. Accumulation is
// associative and commutative per agent, so sources may be extracted in
// parallel into partial stores and merged afterwards.
package aggregate

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agentperf-cli/internal/extract"
)

// SourceTotals is one agent's activity within one source.
type SourceTotals struct {
	Seconds  int
	Attempts int
	Unique   int
}

// AgentAggregate is one agent's activity across all sources.
type AgentAggregate struct {
	Key           string
	TotalSeconds  int
	TotalAttempts int
	PerSource     map[string]SourceTotals
}

// TotalUnique is the sum of per-source unique-contact counts. Unique
// counts are pre-aggregated per source and never added across rows.
func (a *AgentAggregate) TotalUnique() int {
	var n int
	for _, st := range a.PerSource {
		n += st.Unique
	}
	return n
}

// SourceIDs returns the sources this agent appeared in, sorted.
func (a *AgentAggregate) SourceIDs() []string {
	ids := make([]string, 0, len(a.PerSource))
	for id := range a.PerSource {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store accumulates AgentAggregate entries.
type Store struct {
	agents map[string]*AgentAggregate
	// sources seen by this store; guards against applying one source twice.
	sources map[string]bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		agents:  make(map[string]*AgentAggregate),
		sources: make(map[string]bool),
	}
}

// Apply folds one source's extraction into the store. Applying the same
// source twice would double-count and is rejected.
func (s *Store) Apply(ex extract.Extraction) error {
	if s.sources[ex.SourceID] {
		return eris.Errorf("aggregate: source %s already applied", ex.SourceID)
	}
	s.sources[ex.SourceID] = true

	for _, c := range ex.Contributions {
		for _, key := range c.Agents {
			agg := s.get(key)
			st := agg.PerSource[c.SourceID]
			st.Seconds += c.Seconds
			st.Attempts += c.Attempts
			agg.PerSource[c.SourceID] = st
			agg.TotalSeconds += c.Seconds
			agg.TotalAttempts += c.Attempts
		}
	}

	for key, unique := range ex.Unique {
		agg := s.get(key)
		st := agg.PerSource[ex.SourceID]
		// Set, not add: the count is already aggregated per source.
		st.Unique = unique
		agg.PerSource[ex.SourceID] = st
	}

	return nil
}

// Merge folds a partial store into this one. Partials built from
// disjoint source sets merge without conflict; overlapping sources are
// rejected for the same reason Apply rejects a repeat.
func (s *Store) Merge(other *Store) error {
	for src := range other.sources {
		if s.sources[src] {
			return eris.Errorf("aggregate: source %s present in both stores", src)
		}
	}
	for src := range other.sources {
		s.sources[src] = true
	}

	for key, oa := range other.agents {
		agg := s.get(key)
		agg.TotalSeconds += oa.TotalSeconds
		agg.TotalAttempts += oa.TotalAttempts
		for src, st := range oa.PerSource {
			cur := agg.PerSource[src]
			cur.Seconds += st.Seconds
			cur.Attempts += st.Attempts
			cur.Unique += st.Unique
			agg.PerSource[src] = cur
		}
	}

	return nil
}

// Get returns the aggregate for a key, if any.
func (s *Store) Get(key string) (*AgentAggregate, bool) {
	agg, ok := s.agents[key]
	return agg, ok
}

// Agents returns all aggregates, sorted by key.
func (s *Store) Agents() []*AgentAggregate {
	out := make([]*AgentAggregate, 0, len(s.agents))
	for _, agg := range s.agents {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Sources returns the source IDs applied to this store, sorted.
func (s *Store) Sources() []string {
	ids := make([]string, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) get(key string) *AgentAggregate {
	agg, ok := s.agents[key]
	if !ok {
		agg = &AgentAggregate{
			Key:       key,
			PerSource: make(map[string]SourceTotals),
		}
		s.agents[key] = agg
	}
	return agg
}
