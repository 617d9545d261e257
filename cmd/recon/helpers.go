package main

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/recon-agent/internal/config"
	"github.com/Veraticus/recon-agent/internal/model"
	"github.com/Veraticus/recon-agent/internal/notify"
	"github.com/Veraticus/recon-agent/internal/storage"
)

// initStorage opens the run ledger with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}
	return storage.Open(ctx, config.ExpandPath(dbPath))
}

// withLedger runs fn against the ledger when history is enabled.
// Ledger failures are logged and never fail the command.
func withLedger(ctx context.Context, fn func(context.Context, *storage.SQLiteStorage) error) {
	if !viper.GetBool("history.enabled") {
		return
	}
	ctx = context.WithoutCancel(ctx)

	store, err := initStorage(ctx)
	if err != nil {
		slog.Warn("run ledger unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := fn(ctx, store); err != nil {
		slog.Warn("failed to update run ledger", "error", err)
	}
}

func recordRun(ctx context.Context, run *model.Run) {
	withLedger(ctx, func(ctx context.Context, store *storage.SQLiteStorage) error {
		return store.SaveRun(ctx, run)
	})
}

func recordArchive(ctx context.Context, archive *model.Archive) {
	withLedger(ctx, func(ctx context.Context, store *storage.SQLiteStorage) error {
		return store.SaveArchive(ctx, archive)
	})
}

// slackNotifier returns nil when Slack delivery is not configured.
func slackNotifier() *notify.Slack {
	token := viper.GetString("notify.slack.token")
	channel := viper.GetString("notify.slack.channel")
	if token == "" || channel == "" {
		return nil
	}

	notifier, err := notify.NewSlack(token, channel, slog.Default())
	if err != nil {
		slog.Warn("slack notifier unavailable", "error", err)
		return nil
	}
	return notifier
}
