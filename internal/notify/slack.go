// Package notify delivers archived files and run summaries to Slack.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/slack-go/slack"

	"github.com/Veraticus/recon-agent/internal/common"
)

// slackAPI is the part of the Slack client used here.
type slackAPI interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts to a single channel.
type Slack struct {
	api     slackAPI
	logger  *slog.Logger
	channel string
}

// NewSlack creates a notifier for channel. Extra options are passed to the Slack client.
func NewSlack(token, channel string, logger *slog.Logger, opts ...slack.Option) (*Slack, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: notify.slack.token", common.ErrMissingConfig)
	}
	if channel == "" {
		return nil, fmt.Errorf("%w: notify.slack.channel", common.ErrMissingConfig)
	}

	return &Slack{
		api:     slack.New(token, opts...),
		channel: channel,
		logger:  common.LoggerOrDefault(logger),
	}, nil
}

// Channel returns the destination channel.
func (s *Slack) Channel() string {
	return s.channel
}

// UploadFile shares the file at path with the channel.
func (s *Slack) UploadFile(ctx context.Context, path, title, comment string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if fi.Size() <= 0 {
		return fmt.Errorf("cannot upload empty file %s", path)
	}

	summary, err := s.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		File:           path,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(path),
		Channel:        s.channel,
		Title:          title,
		InitialComment: comment,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to slack: %w", path, err)
	}

	s.logger.Info("file delivered to slack", "channel", s.channel, "file_id", summary.ID, "path", path)
	return nil
}

// PostSummary posts a plain-text message to the channel.
func (s *Slack) PostSummary(ctx context.Context, text string) error {
	_, ts, err := s.api.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	s.logger.Debug("summary posted to slack", "channel", s.channel, "ts", ts)
	return nil
}
