package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/agentperf-cli/internal/duration"
	"github.com/sells-group/agentperf-cli/internal/target"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show the effective department targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := configuredTargets()
		if err := t.Validate(); err != nil {
			return err
		}

		printDepartment("Conversion", t.Conversion)
		printDepartment("Retention", t.Retention)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func printDepartment(name string, dt target.DepartmentTargets) {
	fmt.Printf("%s:\n", name)
	fmt.Printf("  duration: %s\n", duration.FormatSeconds(dt.DurationSeconds))
	fmt.Printf("  attempts: %d\n", dt.Attempts)
	fmt.Printf("  unique contacts: %d\n", dt.Unique)
}
