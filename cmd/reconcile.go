package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agentperf-cli/internal/recon"
	"github.com/sells-group/agentperf-cli/internal/report"
	"github.com/sells-group/agentperf-cli/internal/roster"
	"github.com/sells-group/agentperf-cli/internal/schema"
	"github.com/sells-group/agentperf-cli/internal/source"
	"github.com/sells-group/agentperf-cli/internal/target"
)

var (
	reconcileRoster  string
	reconcileSources []string
	reconcileOut     string
	reconcileWorkers int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile vendor exports into the agent performance report",
	Long: `Loads the agent roster and one table per vendor source, aggregates
talk time, call attempts, and unique contacts per agent, and writes the
styled department report plus the unmatched-agent listing.

Each --source takes the form <source-id>=<path>, e.g.
  agentperf reconcile --roster agents.xlsx --source voicespin=voicespin.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rosterPath := reconcileRoster
		if rosterPath == "" {
			rosterPath = cfg.Roster.Path
		}
		if rosterPath == "" {
			return eris.New("reconcile: no roster file (set --roster or roster.path)")
		}
		if len(reconcileSources) == 0 {
			return eris.New("reconcile: no sources given")
		}

		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		rosterTbl, err := source.ReadTable(rosterPath)
		if err != nil {
			return eris.Wrap(err, "reconcile: load roster")
		}
		ros, err := roster.ParseTable(rosterTbl)
		if err != nil {
			return err
		}

		tables := make([]recon.SourceTable, 0, len(reconcileSources))
		for _, spec := range reconcileSources {
			id, path, err := splitSourceSpec(spec)
			if err != nil {
				return err
			}
			sc, ok := registry.Lookup(id)
			if !ok {
				return eris.Errorf("reconcile: unknown source id %q (see 'agentperf sources')", id)
			}
			tbl, err := source.ReadTable(path)
			if err != nil {
				return eris.Wrapf(err, "reconcile: load source %s", id)
			}
			tables = append(tables, recon.SourceTable{Schema: sc, Table: tbl})
		}

		workers := reconcileWorkers
		if workers == 0 {
			workers = cfg.Reconcile.Workers
		}

		res, err := recon.Run(cmd.Context(), tables, ros, configuredTargets(), workers)
		if err != nil {
			return err
		}

		out := reconcileOut
		if out == "" {
			out = cfg.Report.Output
		}
		if err := report.WriteWorkbook(out, res, report.Options{
			ConversionDeskOrder: cfg.Report.ConversionDeskOrder,
			RetentionDeskOrder:  cfg.Report.RetentionDeskOrder,
		}); err != nil {
			return err
		}

		zap.L().Info("reconcile: report written",
			zap.String("run_id", res.RunID),
			zap.String("path", out),
		)
		fmt.Print(report.FormatSummary(res))

		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileRoster, "roster", "", "roster file (xlsx or csv)")
	reconcileCmd.Flags().StringArrayVar(&reconcileSources, "source", nil, "source table as <source-id>=<path> (repeatable)")
	reconcileCmd.Flags().StringVar(&reconcileOut, "out", "", "output workbook path")
	reconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", 0, "concurrent source extractions")

	rootCmd.AddCommand(reconcileCmd)
}

func loadRegistry() (*schema.Registry, error) {
	if cfg.Schema.File != "" {
		return schema.LoadFile(cfg.Schema.File)
	}
	return schema.Builtin(), nil
}

func configuredTargets() target.Targets {
	return target.Targets{
		Conversion: target.DepartmentTargets{
			DurationSeconds: cfg.Targets.Conversion.DurationSeconds,
			Attempts:        cfg.Targets.Conversion.Attempts,
			Unique:          cfg.Targets.Conversion.Unique,
		},
		Retention: target.DepartmentTargets{
			DurationSeconds: cfg.Targets.Retention.DurationSeconds,
			Attempts:        cfg.Targets.Retention.Attempts,
			Unique:          cfg.Targets.Retention.Unique,
		},
	}
}

// splitSourceSpec parses a "<source-id>=<path>" flag value.
func splitSourceSpec(spec string) (id, path string, err error) {
	id, path, ok := strings.Cut(spec, "=")
	id = strings.TrimSpace(id)
	path = strings.TrimSpace(path)
	if !ok || id == "" || path == "" {
		return "", "", eris.Errorf("reconcile: malformed --source %q, want <source-id>=<path>", spec)
	}
	return id, path, nil
}
