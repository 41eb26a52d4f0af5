// Package discord provides a minimal REST client for posting channel
// messages with embeds.
//
// Only the create-message endpoint is implemented; gateway features are out
// of scope. Auth is the bot token header, and a token bucket keeps the
// client under Discord's per-route message limit.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Embed is the subset of Discord's embed object the alert service uses.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// EmbedFooter is the embed footer object.
type EmbedFooter struct {
	Text string `json:"text"`
}

// allowedMentions restricts which mentions in content actually ping.
type allowedMentions struct {
	Roles []string `json:"roles"`
}

type messagePayload struct {
	Content         string           `json:"content,omitempty"`
	Embeds          []Embed          `json:"embeds"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

// Client is a rate-limited Discord REST client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// NewClient creates a client against baseURL (normally the v10 API root;
// overridable for tests).
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		token:      token,
		logger:     logger,
		// 5 messages / 5s is the documented per-channel write limit.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// SendEmbed posts a message with a single embed to the channel. content may
// carry a role mention; mentionRoleID scopes allowed_mentions so nothing
// else in the message pings.
func (c *Client) SendEmbed(ctx context.Context, channelID, content, mentionRoleID string, embed Embed) error {
	if channelID == "" {
		return fmt.Errorf("no destination channel configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload := messagePayload{
		Content: content,
		Embeds:  []Embed{embed},
	}
	if mentionRoleID != "" {
		payload.AllowedMentions = &allowedMentions{Roles: []string{mentionRoleID}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	u := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug("discord message sent", "channel_id", channelID, "status", resp.StatusCode)
	return nil
}
