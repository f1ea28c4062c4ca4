package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackNotifier posts to a Slack incoming webhook
type SlackNotifier struct {
	cfg        config.SlackConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSlackNotifier creates a notifier for the configured webhook
func NewSlackNotifier(cfg config.SlackConfig, logger *zap.Logger) (*SlackNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("slack: webhook URL is required")
	}
	return &SlackNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}, nil
}

func (n *SlackNotifier) Enabled() bool { return true }

// Notify posts msg as a header, a text section, a field grid and an optional link button
func (n *SlackNotifier) Notify(ctx context.Context, msg shared.ChatMessage) error {
	payload := n.buildMessage(msg)

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.cfg.WebhookURL, n.httpClient, payload); err != nil {
		n.logger.Error("Failed to post Slack notification",
			zap.String("title", msg.Title),
			zap.Error(err))
		return fmt.Errorf("slack: failed to post webhook: %w", err)
	}

	n.logger.Debug("Slack notification posted", zap.String("title", msg.Title))
	return nil
}

func (n *SlackNotifier) buildMessage(msg shared.ChatMessage) *slack.WebhookMessage {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, msg.Title, false, false)),
	}
	if msg.Text != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, msg.Text, false, false), nil, nil))
	}

	// Slack allows at most 10 fields per section
	for start := 0; start < len(msg.Fields); start += 10 {
		end := min(start+10, len(msg.Fields))
		fields := make([]*slack.TextBlockObject, 0, end-start)
		for _, f := range msg.Fields[start:end] {
			fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s*\n%s", f.Label, f.Value), false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if msg.LinkURL != "" {
		button := slack.NewButtonBlockElement("open", "open",
			slack.NewTextBlockObject(slack.PlainTextType, "Open in back office", false, false))
		button.URL = msg.LinkURL
		blocks = append(blocks, slack.NewActionBlock("links", button))
	}

	return &slack.WebhookMessage{
		Channel:   n.cfg.Channel,
		Username:  n.cfg.Username,
		IconEmoji: n.cfg.IconEmoji,
		// Text is the fallback shown in push notifications
		Text:   msg.Title,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

// NoopNotifier drops chat notifications when Slack is not configured
type NoopNotifier struct{}

func (NoopNotifier) Enabled() bool { return false }

func (NoopNotifier) Notify(context.Context, shared.ChatMessage) error {
	return shared.ErrChannelDisabled
}

// NewChatNotifier picks Slack when enabled and a noop otherwise
func NewChatNotifier(cfg config.SlackConfig, logger *zap.Logger) (shared.ChatNotifier, error) {
	if !cfg.Enabled {
		logger.Info("Slack notifications disabled")
		return NoopNotifier{}, nil
	}
	return NewSlackNotifier(cfg, logger)
}

var (
	_ shared.ChatNotifier = (*SlackNotifier)(nil)
	_ shared.ChatNotifier = NoopNotifier{}
)
