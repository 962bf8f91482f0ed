package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/agentperf-cli/internal/recon"
)

// FormatSummary renders the terminal summary: run stats, skipped
// sources, and the unmatched-agent listing reviewers act on.
func FormatSummary(res *recon.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", res.RunID)
	fmt.Fprintf(&b, "Sources processed: %d (%s)\n", len(res.Sources), strings.Join(res.Sources, ", "))
	fmt.Fprintf(&b, "Conversion agents: %d\n", len(res.Conversion))
	fmt.Fprintf(&b, "Retention agents: %d\n", len(res.Retention))
	fmt.Fprintf(&b, "Data-quality issues: %d\n", len(res.Issues))

	if len(res.Skipped) > 0 {
		b.WriteString("\nSkipped sources:\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(&b, "  %s: %s\n", s.SourceID, s.Reason)
		}
	}

	if res.Unmatched.Total() == 0 {
		b.WriteString("\nNo unmatched agents.\n")
		return b.String()
	}

	b.WriteString("\nUnmatched agents:\n")
	for _, src := range res.Unmatched.Sources() {
		fmt.Fprintf(&b, "  %s:\n", src)
		for _, key := range res.Unmatched.Keys(src) {
			fmt.Fprintf(&b, "    %s\n", titleCaser.String(key))
		}
	}

	return b.String()
}
