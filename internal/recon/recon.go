// Package recon runs the reconciliation pipeline: per-source
// extraction fans out across workers, partial aggregates merge into one
// store, and the roster match produces the department views.
package recon

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/agentperf-cli/internal/aggregate"
	"github.com/sells-group/agentperf-cli/internal/extract"
	"github.com/sells-group/agentperf-cli/internal/roster"
	"github.com/sells-group/agentperf-cli/internal/schema"
	"github.com/sells-group/agentperf-cli/internal/target"
)

const defaultWorkers = 4

// SourceTable pairs a loaded vendor table with its schema.
type SourceTable struct {
	Schema schema.Schema
	Table  extract.Table
}

// SkippedSource records a source dropped for a schema mismatch. Other
// sources are unaffected.
type SkippedSource struct {
	SourceID string
	Reason   string
}

// Result is the finalized output of one reconciliation run.
type Result struct {
	RunID      string
	Targets    target.Targets
	Conversion []roster.MatchedAgent
	Retention  []roster.MatchedAgent
	Unmatched  roster.UnmatchedSet
	Issues     []extract.Issue
	Skipped    []SkippedSource
	Sources    []string // sources that contributed, sorted
}

// Run reconciles the given source tables against the roster.
// Configuration problems (bad targets, duplicate source IDs) abort the
// run; row- and source-level data problems are collected on the Result
// instead.
func Run(ctx context.Context, sources []SourceTable, ros *roster.Roster, targets target.Targets, workers int) (*Result, error) {
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if seen[s.Schema.SourceID] {
			return nil, eris.Errorf("recon: source %s listed twice", s.Schema.SourceID)
		}
		seen[s.Schema.SourceID] = true
	}
	if workers <= 0 {
		workers = defaultWorkers
	}

	runID := uuid.NewString()
	zap.L().Info("recon: run started",
		zap.String("run_id", runID),
		zap.Int("sources", len(sources)),
		zap.Int("roster_agents", ros.Len()),
		zap.Int("workers", workers),
	)

	// Extract each source into its own partial store, then reduce. The
	// fold is commutative per agent, so worker order doesn't matter.
	partials := make([]*aggregate.Store, len(sources))
	var mu sync.Mutex
	var issues []extract.Issue
	var skipped []SkippedSource

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "recon: cancelled")
			}

			ex, err := extract.Run(src.Table, src.Schema)
			if err != nil {
				// Schema mismatch: skip this source, keep the run alive.
				zap.L().Warn("recon: skipping source",
					zap.String("run_id", runID),
					zap.String("source", src.Schema.SourceID),
					zap.Error(err),
				)
				mu.Lock()
				skipped = append(skipped, SkippedSource{SourceID: src.Schema.SourceID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}

			partial := aggregate.NewStore()
			if err := partial.Apply(ex); err != nil {
				return err
			}

			mu.Lock()
			partials[i] = partial
			issues = append(issues, ex.Issues...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := aggregate.NewStore()
	for _, partial := range partials {
		if partial == nil {
			continue
		}
		if err := store.Merge(partial); err != nil {
			return nil, err
		}
	}

	match := roster.Match(store, ros)

	res := &Result{
		RunID:      runID,
		Targets:    targets,
		Conversion: match.Conversion,
		Retention:  match.Retention,
		Unmatched:  match.Unmatched,
		Issues:     issues,
		Skipped:    skipped,
		Sources:    store.Sources(),
	}

	zap.L().Info("recon: run complete",
		zap.String("run_id", runID),
		zap.Int("conversion_agents", len(res.Conversion)),
		zap.Int("retention_agents", len(res.Retention)),
		zap.Int("unmatched", res.Unmatched.Total()),
		zap.Int("issues", len(res.Issues)),
		zap.Int("skipped_sources", len(res.Skipped)),
	)

	return res, nil
}

// AgentTargets computes the per-metric achievement for one matched
// agent against its department's targets. Derived on demand, never
// stored on the Result.
func (r *Result) AgentTargets(ma roster.MatchedAgent) ([]target.Result, error) {
	var dt target.DepartmentTargets
	switch ma.Department {
	case roster.Conversion:
		dt = r.Targets.Conversion
	case roster.Retention:
		dt = r.Targets.Retention
	default:
		return nil, eris.Errorf("recon: agent %q has no reporting department", ma.Key)
	}
	return target.Compute(dt, ma.TotalSeconds, ma.TotalAttempts, ma.TotalUnique())
}
