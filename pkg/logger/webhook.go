package logger

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Webhook delivers embeds to a Discord webhook URL.
type Webhook struct {
	session *discordgo.Session
	id      string
	token   string
}

// NewWebhook parses a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func NewWebhook(rawURL string) (*Webhook, error) {
	id, token, err := parseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("")
	if err != nil {
		return nil, err
	}

	return &Webhook{session: session, id: id, token: token}, nil
}

func parseWebhookURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook url: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid webhook url: %q", rawURL)
}

// Send executes the webhook with a single embed.
func (w *Webhook) Send(embed *discordgo.MessageEmbed) error {
	if w == nil {
		return nil
	}
	_, err := w.session.WebhookExecute(w.id, w.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}
