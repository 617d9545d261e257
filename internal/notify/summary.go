package notify

import (
	"fmt"
	"strings"

	"github.com/Veraticus/recon-agent/internal/model"
)

// RunSummary renders a run as a short Slack message.
func RunSummary(run model.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reconciliation run %s %s\n", shortID(run.ID), strings.ToLower(string(run.Status)))
	fmt.Fprintf(&b, "Input: %s\n", run.InputPath)
	fmt.Fprintf(&b, "Cases: %d (resolved %d, unresolved %d)\n", run.Total, run.Resolved, run.Unresolved)
	fmt.Fprintf(&b, "Auto-closed: %d, new patterns: %d", run.AutoClosed, run.NewPatterns)
	if run.ClassifierErrors > 0 {
		fmt.Fprintf(&b, "\nCases with classifier errors: %d", run.ClassifierErrors)
	}
	if run.Error != "" {
		fmt.Fprintf(&b, "\nError: %s", run.Error)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
