package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/recon-agent/internal/model"
)

// RunOutputs names where a run's results went.
type RunOutputs struct {
	ResolvedPath   string
	UnresolvedPath string
	PatternLog     string
}

// RenderRunSummary renders the counts of a finished run in a box.
func RenderRunSummary(run model.Run, outputs RunOutputs) string {
	var b strings.Builder

	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", BoldStyle.Render(fmt.Sprintf("%-22s", label)), value)
	}
	row("Input", run.InputPath)
	if run.Encoding != "" {
		row("Encoding", run.Encoding)
	}
	row("Cases", run.Total)
	row("Resolved", run.Resolved)
	row("Auto-closed", run.AutoClosed)
	row("Unresolved", run.Unresolved)
	row("New patterns", run.NewPatterns)
	if run.ClassifierErrors > 0 {
		row("Classifier errors", WarningStyle.Render(fmt.Sprint(run.ClassifierErrors)))
	}
	if d := run.Duration(); d > 0 {
		row("Duration", d.Round(time.Millisecond))
	}

	if run.Resolved > 0 {
		row("Resolved cases", outputs.ResolvedPath)
	}
	if run.Unresolved > 0 {
		row("Unresolved cases", outputs.UnresolvedPath)
	}
	if run.NewPatterns > 0 {
		row("Pattern log", outputs.PatternLog)
	}

	content := strings.TrimRight(b.String(), "\n")
	if run.Status == model.RunStatusFailed {
		content += "\n\n" + FormatError(run.Error)
	}
	return RenderBox(ChartIcon+" Resolution Summary", content)
}
