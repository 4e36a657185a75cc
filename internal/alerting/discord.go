package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DiscordOptions configures the webhook transport.
type DiscordOptions struct {
	Username   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Discord delivers payloads as webhook embeds. Destination ids are webhook URLs.
type Discord struct {
	username string
	client   *http.Client
	logger   zerolog.Logger
}

// NewDiscord builds the webhook transport.
func NewDiscord(opts DiscordOptions, logger zerolog.Logger) *Discord {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	username := opts.Username
	if username == "" {
		username = "Floor Price Tracker"
	}
	return &Discord{
		username: username,
		client:   client,
		logger:   logger.With().Str("component", "alert_discord").Logger(),
	}
}

type discordWebhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChannelID string `json:"channel_id"`
}

type discordMessage struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Thumbnail   *discordImage  `json:"thumbnail,omitempty"`
	Footer      *discordFooter `json:"footer,omitempty"`
}

type discordImage struct {
	URL string `json:"url"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// ResolveDestination fetches the webhook object. Unknown or revoked webhooks
// are reported as ErrDestinationUnavailable.
func (d *Discord) ResolveDestination(ctx context.Context, id string) (Destination, error) {
	endpoint, err := webhookURL(id)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Destination{}, fmt.Errorf("create discord request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: discord webhook: %v", ErrDestinationUnavailable, redactURL(err))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Destination{}, fmt.Errorf("%w: discord webhook status %d: %s", ErrDestinationUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var hook discordWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return Destination{}, fmt.Errorf("%w: decode discord webhook: %v", ErrDestinationUnavailable, err)
	}
	return Destination{ID: id, Name: hook.Name}, nil
}

// Send executes the webhook with wait=true so delivery failures surface.
func (d *Discord) Send(ctx context.Context, dest Destination, payload Payload) error {
	endpoint, err := webhookURL(dest.ID)
	if err != nil {
		return err
	}
	u, _ := url.Parse(endpoint)
	q := u.Query()
	q.Set("wait", "true")
	u.RawQuery = q.Encode()

	body, err := json.Marshal(discordMessage{Username: d.username, Embeds: []discordEmbed{renderEmbed(payload)}})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord request: %w", redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: discord webhook status %d", ErrDestinationUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("discord webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	d.logger.Info().
		Str("webhook", dest.Name).
		Str("direction", string(payload.Direction)).
		Str("floor", payload.FloorPrice.String()).
		Msg("alert sent (discord)")
	return nil
}

func webhookURL(id string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(id))
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return "", fmt.Errorf("invalid discord webhook url %q", MaskDestination(id))
	}
	if !strings.Contains(u.Path, "/webhooks/") {
		return "", fmt.Errorf("not a discord webhook url %q", MaskDestination(id))
	}
	return u.String(), nil
}

// redactURL drops the request URL, which carries the webhook token, from
// client errors while keeping the cause for errors.Is.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

func renderEmbed(p Payload) discordEmbed {
	desc := "```\n" + renderBlock(p.Fields) + "\n```"
	if len(p.Extra) > 0 {
		desc += "\n**Extra Stats**\n```\n" + renderBlock(p.Extra) + "\n```"
	}
	e := discordEmbed{
		Title:       p.Title,
		URL:         p.URL,
		Description: desc,
		Color:       p.Color,
		Footer:      &discordFooter{Text: "Floor Price Tracker"},
	}
	if !p.Timestamp.IsZero() {
		e.Timestamp = p.Timestamp.UTC().Format(time.RFC3339)
	}
	if p.ImageURL != "" {
		e.Thumbnail = &discordImage{URL: p.ImageURL}
	}
	return e
}

var _ Transport = (*Discord)(nil)
