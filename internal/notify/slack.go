package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// SlackSender delivers notifications via a Slack incoming webhook.
type SlackSender struct {
	webhookURL string
	client     *http.Client
}

// NewSlackSender creates a SlackSender for the given incoming-webhook URL.
func NewSlackSender(webhookURL string) *SlackSender {
	return &SlackSender{webhookURL: webhookURL, client: newHTTPClient()}
}

// Send posts the title as a bold header line above the message.
func (s *SlackSender) Send(ctx context.Context, title, message string) error {
	msg := &slack.WebhookMessage{
		Username: "kalshiedge",
		Text:     fmt.Sprintf("*%s*\n%s", title, message),
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.client, msg); err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (s *SlackSender) Name() string {
	return "slack"
}
