package notify

import (
	"context"
	"net/http"
)

// DiscordSender posts one embed per notification to a Discord webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{webhookURL: webhookURL, client: newHTTPClient()}
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type discordPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

// Send posts the notification. Discord answers 204 on success.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	return postJSON(ctx, d.client, "discord", d.webhookURL, discordPayload{
		Username: "kalshiedge",
		Embeds:   []discordEmbed{{Title: title, Description: message}},
	}, false)
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string { return "discord" }
