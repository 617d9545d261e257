package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/recon-agent/internal/archive"
	"github.com/Veraticus/recon-agent/internal/cli"
	"github.com/Veraticus/recon-agent/internal/config"
	"github.com/Veraticus/recon-agent/internal/model"
)

// fileDeliverer shares an archived file with someone.
type fileDeliverer interface {
	UploadFile(ctx context.Context, path, title, comment string) error
}

func uploadCmd() *cobra.Command {
	var (
		file      string
		noDeliver bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Move a processed file into the upload folder and deliver it",
		Long: `Moves the file into the upload folder. A file of the same name already in the folder
is kept, and the new one is stored with a timestamp prefix. When notify.slack.token and
notify.slack.channel are set, the archived file is also shared to Slack.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var deliverer fileDeliverer
			if !noDeliver {
				if n := slackNotifier(); n != nil {
					deliverer = n
				}
			}
			_, err := uploadFile(cmd.Context(), config.ExpandPath(file), archiveFolder(), deliverer, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "file to upload (e.g. data/recon_data_processed.csv)")
	cmd.Flags().String("folder", config.DefaultUploadFolder, "destination folder")
	cmd.Flags().BoolVar(&noDeliver, "no-deliver", false, "archive only, skip Slack delivery")
	_ = cmd.MarkFlagRequired("file")

	_ = viper.BindPFlag("upload.folder", cmd.Flags().Lookup("folder"))

	return cmd
}

func archiveFolder() string {
	return config.ExpandPath(viper.GetString("upload.folder"))
}

// uploadFile archives path and, when a deliverer is given, shares the archived copy.
// Delivery failures are reported but do not fail the upload.
func uploadFile(ctx context.Context, path, folder string, deliverer fileDeliverer, out io.Writer) (*model.Archive, error) {
	archived, err := archive.New(folder, archive.WithLogger(slog.Default())).Move(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("File uploaded to: "+archived.Destination))

	if deliverer != nil {
		name := filepath.Base(archived.Destination)
		if err := deliverer.UploadFile(ctx, archived.Destination, name, "Processed reconciliation data: "+name); err != nil {
			slog.Warn("delivery failed, file remains archived", "path", archived.Destination, "error", err)
			fmt.Fprintln(out, cli.FormatWarning("Delivery failed: "+err.Error()))
		} else {
			archived.Delivered = true
			fmt.Fprintln(out, cli.FormatSuccess("File delivered"))
		}
	}

	recordArchive(ctx, &archived)
	return &archived, nil
}
