package roster

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/agentperf-cli/internal/aggregate"
)

// MatchedAgent is an agent aggregate annotated with its roster entry.
type MatchedAgent struct {
	aggregate.AgentAggregate

	Desk       string
	Department Department
}

// UnmatchedSet collects, per source, every canonical key that had
// activity but no roster entry. It is a first-class output for human
// review, never silently dropped.
type UnmatchedSet map[string]map[string]struct{}

func (u UnmatchedSet) add(sourceID, key string) {
	if u[sourceID] == nil {
		u[sourceID] = make(map[string]struct{})
	}
	u[sourceID][key] = struct{}{}
}

// Sources returns the source IDs with unmatched agents, sorted.
func (u UnmatchedSet) Sources() []string {
	ids := make([]string, 0, len(u))
	for id := range u {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Keys returns the unmatched keys for a source, sorted.
func (u UnmatchedSet) Keys(sourceID string) []string {
	keys := make([]string, 0, len(u[sourceID]))
	for k := range u[sourceID] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of unmatched (source, key) pairs.
func (u UnmatchedSet) Total() int {
	var n int
	for _, keys := range u {
		n += len(keys)
	}
	return n
}

// MatchResult partitions aggregated activity by roster membership.
type MatchResult struct {
	Conversion []MatchedAgent
	Retention  []MatchedAgent
	Unmatched  UnmatchedSet
}

// Match files every roster agent into its department bucket — seeded
// with zero totals when the agent had no activity — and collects keys
// that appeared in sources but not in the roster. Department buckets
// are sorted by key; presentation reorders as it likes.
func Match(store *aggregate.Store, r *Roster) MatchResult {
	res := MatchResult{Unmatched: make(UnmatchedSet)}

	for _, e := range r.Entries() {
		agg, ok := store.Get(e.Key)
		if !ok {
			agg = &aggregate.AgentAggregate{
				Key:       e.Key,
				PerSource: make(map[string]aggregate.SourceTotals),
			}
		}
		ma := MatchedAgent{AgentAggregate: *agg, Desk: e.Desk, Department: e.Department}
		switch e.Department {
		case Conversion:
			res.Conversion = append(res.Conversion, ma)
		case Retention:
			res.Retention = append(res.Retention, ma)
		}
	}

	sort.Slice(res.Conversion, func(i, j int) bool { return res.Conversion[i].Key < res.Conversion[j].Key })
	sort.Slice(res.Retention, func(i, j int) bool { return res.Retention[i].Key < res.Retention[j].Key })

	for _, agg := range store.Agents() {
		if _, ok := r.Lookup(agg.Key); ok {
			continue
		}
		for src, st := range agg.PerSource {
			if st.Seconds > 0 || st.Attempts > 0 || st.Unique > 0 {
				res.Unmatched.add(src, agg.Key)
			}
		}
	}

	if n := res.Unmatched.Total(); n > 0 {
		zap.L().Warn("roster: unmatched agents",
			zap.Int("count", n),
			zap.Strings("sources", res.Unmatched.Sources()),
		)
	}

	return res
}
