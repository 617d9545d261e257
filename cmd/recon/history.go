package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recon-agent/internal/cli"
)

func historyCmd() *cobra.Command {
	var (
		limit    int
		archives bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent resolution runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open run ledger: %w", err)
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if archives {
				list, err := store.ListArchives(ctx, limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(out, cli.FormatInfo("No uploads recorded yet."))
					return nil
				}
				fmt.Fprintln(out, cli.FormatTitle("Recent uploads"))
				return cli.WriteArchiveHistory(out, list)
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No runs recorded yet."))
				return nil
			}
			fmt.Fprintln(out, cli.FormatTitle("Recent resolution runs"))
			return cli.WriteRunHistory(out, runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&archives, "archives", false, "list archived uploads instead of runs")

	return cmd
}
