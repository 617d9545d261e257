package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recon-agent/internal/common"
)

// Flow steps and the paths each one works on.
const (
	stepPreprocessing = "preprocessing"
	stepUpload        = "upload"
	stepResolution    = "resolution"

	flowRawPath        = "data/recon_data_raw.csv"
	flowProcessedPath  = "data/recon_data_processed.csv"
	flowResolutionPath = "data/resolution_data.csv"
)

func flowCmd() *cobra.Command {
	var step string

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Run one stage of the reconciliation workflow on the standard data paths",
		Long: `Runs a single stage with the standard file layout:

  preprocessing   data/recon_data_raw.csv -> data/recon_data_processed.csv
  upload          data/recon_data_processed.csv -> upload folder
  resolution      data/resolution_data.csv -> resolved and unresolved reports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlow(cmd, step)
		},
	}

	cmd.Flags().StringVar(&step, "step", "", "stage to run (preprocessing, upload, resolution)")
	_ = cmd.MarkFlagRequired("step")

	return cmd
}

func runFlow(cmd *cobra.Command, step string) error {
	switch strings.ToLower(strings.TrimSpace(step)) {
	case stepPreprocessing:
		return runPreprocess(cmd, flowRawPath, flowProcessedPath)
	case stepUpload:
		var deliverer fileDeliverer
		if n := slackNotifier(); n != nil {
			deliverer = n
		}
		_, err := uploadFile(cmd.Context(), flowProcessedPath, archiveFolder(), deliverer, cmd.OutOrStdout())
		return err
	case stepResolution:
		return resolveWithConfiguredModel(cmd.Context(), resolveOptionsFromConfig(flowResolutionPath), cmd.OutOrStdout(), cmd.ErrOrStderr())
	default:
		return common.NewUserError(
			fmt.Sprintf("unknown step %q (want %s, %s or %s)", step, stepPreprocessing, stepUpload, stepResolution),
			common.ErrInvalidConfig)
	}
}
