package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/recon-agent/internal/cli"
	"github.com/Veraticus/recon-agent/internal/config"
	"github.com/Veraticus/recon-agent/internal/preprocess"
)

func preprocessCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Extract unmatched transactions from the raw reconciliation export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreprocess(cmd, input, output)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "raw input CSV (e.g. data/recon_data_raw.csv)")
	cmd.Flags().StringVar(&output, "output", "", "cleaned output CSV (e.g. data/recon_data_processed.csv)")
	cmd.Flags().String("status", config.DefaultStatusFilter, "recon_status value to keep")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	_ = viper.BindPFlag("preprocess.status", cmd.Flags().Lookup("status"))

	return cmd
}

func runPreprocess(cmd *cobra.Command, input, output string) error {
	input = config.ExpandPath(input)
	output = config.ExpandPath(output)

	result, err := preprocess.ProcessFile(input, output, preprocess.Options{
		Logger:        slog.Default(),
		Status:        viper.GetString("preprocess.status"),
		MinConfidence: viper.GetInt("resolution.min_confidence"),
	})
	if err != nil {
		return inputError(input, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Processed file saved as: %s (%d of %d rows kept)", output, result.Kept, result.Read)))
	if result.ParseFailures > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(
			fmt.Sprintf("%d rows had an unreadable recon_sub_status; their amount and fee are empty", result.ParseFailures)))
	}
	return nil
}
