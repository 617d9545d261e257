package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Veraticus/recon-agent/internal/model"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// WriteRunHistory prints runs as an aligned table.
func WriteRunHistory(w io.Writer, runs []model.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "STARTED\tSTATUS\tCASES\tRESOLVED\tAUTO-CLOSED\tUNRESOLVED\tNEW PATTERNS\tINPUT"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, run := range runs {
		status := SuccessStyle.Render(string(run.Status))
		if run.Status == model.RunStatusFailed {
			status = ErrorStyle.Render(string(run.Status))
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Local().Format(historyTimeLayout),
			status,
			run.Total, run.Resolved, run.AutoClosed, run.Unresolved, run.NewPatterns,
			run.InputPath,
		); err != nil {
			return fmt.Errorf("failed to write run: %w", err)
		}
	}
	return tw.Flush()
}

// WriteArchiveHistory prints archived uploads as an aligned table.
func WriteArchiveHistory(w io.Writer, archives []model.Archive) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "ARCHIVED\tDELIVERED\tSOURCE\tDESTINATION"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range archives {
		delivered := "no"
		if a.Delivered {
			delivered = "yes"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			a.ArchivedAt.Local().Format(historyTimeLayout), delivered, a.SourcePath, a.Destination); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
	}
	return tw.Flush()
}
