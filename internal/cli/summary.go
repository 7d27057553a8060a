package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/payments-engine/internal/runner"
)

// RenderSummary renders the outcome of a run as a boxed table.
func RenderSummary(stats runner.Stats, accounts, open int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  • Records processed: %d\n", stats.Processed)
	b.WriteString(FormatSuccess(fmt.Sprintf("Applied: %d", stats.Applied)) + "\n")

	if rejected := stats.RejectedTotal(); rejected > 0 {
		b.WriteString(FormatWarning(fmt.Sprintf("Rejected: %d", rejected)) + "\n")
		for _, kind := range stats.RejectedKinds() {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf("    %s: %d", kind, stats.Rejected[kind])) + "\n")
		}
	}
	if stats.Malformed > 0 {
		b.WriteString(FormatError(fmt.Sprintf("Malformed rows skipped: %d", stats.Malformed)) + "\n")
	}

	fmt.Fprintf(&b, "  • Accounts: %d\n", accounts)
	fmt.Fprintf(&b, "  • Open transactions: %d", open)

	return RenderBox(ChartIcon+" Run Summary", b.String())
}
