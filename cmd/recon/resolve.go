package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/recon-agent/internal/casefile"
	"github.com/Veraticus/recon-agent/internal/cli"
	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/config"
	"github.com/Veraticus/recon-agent/internal/model"
	"github.com/Veraticus/recon-agent/internal/notify"
	"github.com/Veraticus/recon-agent/internal/pattern"
	"github.com/Veraticus/recon-agent/internal/resolution"
)

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <cases.csv>",
		Short: "Classify reconciliation cases and route them into resolved and unresolved reports",
		Long: `Reads a case table with "Transaction ID", "amount" and "Comments" columns, asks the
configured language model about every case, and writes:

  resolved_cases/resolved_cases.csv       cases the model considers resolved, with their pattern
  unresolved_cases/unresolved_cases.csv   open cases, with a summary and next steps
  resolution_patterns.csv                 newly seen resolution patterns, appended

Resolved cases whose pattern is already in the pattern log are marked as auto-closed.`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}

	cmd.Flags().String("resolved-dir", config.DefaultResolvedDir, "directory for the resolved cases report")
	cmd.Flags().String("unresolved-dir", config.DefaultUnresolvedDir, "directory for the unresolved cases report")
	cmd.Flags().String("patterns", config.DefaultPatternLog, "pattern log file")
	cmd.Flags().String("fail-safe", "resolved", "where ambiguous or failed status answers go (resolved, unresolved)")
	cmd.Flags().Int("min-confidence", 30, "minimum encoding detection confidence (0-100)")
	cmd.Flags().Bool("notify", false, "post the run summary to Slack")

	_ = viper.BindPFlag("resolution.resolved_dir", cmd.Flags().Lookup("resolved-dir"))
	_ = viper.BindPFlag("resolution.unresolved_dir", cmd.Flags().Lookup("unresolved-dir"))
	_ = viper.BindPFlag("resolution.patterns", cmd.Flags().Lookup("patterns"))
	_ = viper.BindPFlag("resolution.fail_safe", cmd.Flags().Lookup("fail-safe"))
	_ = viper.BindPFlag("resolution.min_confidence", cmd.Flags().Lookup("min-confidence"))
	_ = viper.BindPFlag("resolution.notify", cmd.Flags().Lookup("notify"))

	return cmd
}

// resolveOptions collects the resolution.* settings for one run.
type resolveOptions struct {
	Input         string
	ResolvedDir   string
	UnresolvedDir string
	PatternLog    string
	FailSafe      string
	MinConfidence int
	Notify        bool
}

func resolveOptionsFromConfig(input string) resolveOptions {
	return resolveOptions{
		Input:         input,
		ResolvedDir:   config.ExpandPath(viper.GetString("resolution.resolved_dir")),
		UnresolvedDir: config.ExpandPath(viper.GetString("resolution.unresolved_dir")),
		PatternLog:    config.ExpandPath(viper.GetString("resolution.patterns")),
		FailSafe:      viper.GetString("resolution.fail_safe"),
		MinConfidence: viper.GetInt("resolution.min_confidence"),
		Notify:        viper.GetBool("resolution.notify"),
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	return resolveWithConfiguredModel(cmd.Context(), resolveOptionsFromConfig(args[0]), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func resolveWithConfiguredModel(ctx context.Context, opts resolveOptions, out, progressOut io.Writer) error {
	classifier, err := createClassifier()
	if err != nil {
		return err
	}
	defer classifier.Close()

	_, err = resolveCases(ctx, opts, classifier, out, progressOut)
	return err
}

// resolveCases runs the pipeline over one input file, records the run, and prints its summary.
func resolveCases(ctx context.Context, opts resolveOptions, classifier resolution.Classifier, out, progressOut io.Writer) (*model.Run, error) {
	policy, err := resolution.PolicyByName(opts.FailSafe)
	if err != nil {
		return nil, common.NewUserError("invalid resolution.fail_safe", err)
	}

	table, err := casefile.ReadCases(opts.Input, opts.MinConfidence)
	if err != nil {
		return nil, inputError(opts.Input, err)
	}

	sink := casefile.NewFileSink(opts.ResolvedDir, opts.UnresolvedDir)
	pipeline, err := resolution.NewPipeline(classifier,
		pattern.NewFileStore(opts.PatternLog, slog.Default()),
		sink,
		resolution.Options{
			Policy:   policy,
			Logger:   slog.Default(),
			Progress: cli.NewProgress(progressOut, "Resolving cases..."),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	run := &model.Run{
		ID:        uuid.NewString(),
		InputPath: opts.Input,
		Encoding:  table.Encoding.Charset,
		StartedAt: time.Now(),
	}
	slog.Info("resolving cases", "run_id", run.ID, "input", opts.Input, "cases", len(table.Cases), "encoding", run.Encoding)

	result, runErr := pipeline.Run(ctx, table.Cases)
	run.FinishedAt = time.Now()
	run.Status = model.RunStatusCompleted
	if result != nil {
		run.Total = result.Total()
		run.Resolved = len(result.Resolved)
		run.Unresolved = len(result.Unresolved)
		run.AutoClosed = result.AutoClosed
		run.NewPatterns = len(result.NewPatterns)
		run.ClassifierErrors = result.ClassifierErrors
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
	}

	recordRun(ctx, run)

	if result != nil {
		fmt.Fprintln(out, cli.RenderRunSummary(*run, cli.RunOutputs{
			ResolvedPath:   sink.ResolvedPath,
			UnresolvedPath: sink.UnresolvedPath,
			PatternLog:     opts.PatternLog,
		}))
	}

	if opts.Notify {
		postRunSummary(ctx, run)
	}

	if runErr != nil {
		if failed := resolution.FailedPartitions(runErr); len(failed) > 0 {
			slog.Error("some outputs were not written", "outputs", failed)
		}
		return run, fmt.Errorf("resolution run failed: %w", runErr)
	}
	return run, nil
}

func postRunSummary(ctx context.Context, run *model.Run) {
	notifier := slackNotifier()
	if notifier == nil {
		slog.Warn("summary notification requested but notify.slack.token or notify.slack.channel is unset")
		return
	}
	if err := notifier.PostSummary(context.WithoutCancel(ctx), notify.RunSummary(*run)); err != nil {
		slog.Warn("failed to post run summary", "error", err)
	}
}

// inputError turns input problems the operator can fix into user errors.
func inputError(path string, err error) error {
	switch {
	case errors.Is(err, common.ErrInputNotFound):
		return common.NewUserError(fmt.Sprintf("input file %s does not exist", path), err)
	case errors.Is(err, casefile.ErrUndetectableEncoding):
		return common.NewUserError(fmt.Sprintf("could not detect the text encoding of %s", path), err)
	case errors.Is(err, casefile.ErrMissingColumn):
		return common.NewUserError(fmt.Sprintf("%s is missing a required column", path), err)
	default:
		return err
	}
}
