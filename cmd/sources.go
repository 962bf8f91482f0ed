package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/agentperf-cli/internal/schema"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured source schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		for _, id := range registry.IDs() {
			sc, _ := registry.Lookup(id)
			fmt.Println(formatSchema(sc))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func formatSchema(sc schema.Schema) string {
	agent := sc.AgentField
	if sc.AgentList {
		agent += " (list)"
	}
	line := fmt.Sprintf("%-18s agent=%-14s duration=%s (%s)",
		sc.SourceID, agent, sc.DurationField, sc.DurationConvention)
	if sc.AttemptsField != "" {
		line += fmt.Sprintf(" attempts=%s", sc.AttemptsField)
	}
	if sc.UniqueField != "" {
		mode := "distinct"
		if sc.UniqueMode == schema.UniqueReported {
			mode = "reported"
		}
		line += fmt.Sprintf(" unique=%s (%s)", sc.UniqueField, mode)
	}
	if sc.StatusField != "" {
		line += fmt.Sprintf(" filter=%s:%s", sc.StatusField, sc.StatusAccept)
	}
	return line
}
