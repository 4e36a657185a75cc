package alerting

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram rejects photo captions above this many characters.
const telegramCaptionLimit = 1024

// TelegramOptions configures the Telegram transport.
type TelegramOptions struct {
	BotToken string
	APIBase  string
	Timeout  time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Telegram delivers payloads through the Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger zerolog.Logger
}

// NewTelegram authenticates the bot with getMe and returns the transport.
func NewTelegram(opts TelegramOptions, logger zerolog.Logger) (*Telegram, error) {
	if strings.TrimSpace(opts.BotToken) == "" {
		return nil, errors.New("telegram bot token is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(opts.APIBase, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	api, err := tgbotapi.NewBotAPIWithClient(opts.BotToken, base+"/bot%s/%s", client)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}

	l := logger.With().Str("component", "alert_telegram").Logger()
	l.Debug().Str("bot", api.Self.UserName).Msg("telegram bot authorized")
	return &Telegram{api: api, logger: l}, nil
}

// ResolveDestination looks the chat up with getChat. Ids are numeric chat
// ids or @channel usernames.
func (t *Telegram) ResolveDestination(ctx context.Context, id string) (Destination, error) {
	if err := ctx.Err(); err != nil {
		return Destination{}, err
	}
	base, err := telegramChat(id)
	if err != nil {
		return Destination{}, fmt.Errorf("%w: %v", ErrDestinationUnavailable, err)
	}

	chat, err := t.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: base.ChatID, SuperGroupUsername: base.ChannelUsername},
	})
	if err != nil {
		return Destination{}, fmt.Errorf("%w: telegram chat %s: %v", ErrDestinationUnavailable, id, err)
	}

	name := chat.Title
	if name == "" {
		name = chat.UserName
	}
	return Destination{ID: id, Name: name}, nil
}

// Send posts the payload as a photo with caption when an image is known and
// the caption fits, otherwise as an HTML text message.
func (t *Telegram) Send(ctx context.Context, dest Destination, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	base, err := telegramChat(dest.ID)
	if err != nil {
		return err
	}

	text := renderHTML(payload)
	var msg tgbotapi.Chattable
	if payload.ImageURL != "" && len([]rune(text)) <= telegramCaptionLimit {
		msg = tgbotapi.PhotoConfig{
			BaseFile:  tgbotapi.BaseFile{BaseChat: base, File: tgbotapi.FileURL(payload.ImageURL)},
			Caption:   text,
			ParseMode: tgbotapi.ModeHTML,
		}
	} else {
		msg = tgbotapi.MessageConfig{
			BaseChat:              base,
			Text:                  text,
			ParseMode:             tgbotapi.ModeHTML,
			DisableWebPagePreview: true,
		}
	}

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %s: %w", dest.ID, err)
	}

	t.logger.Info().
		Str("chat", dest.ID).
		Str("direction", string(payload.Direction)).
		Str("floor", payload.FloorPrice.String()).
		Msg("alert sent (telegram)")
	return nil
}

func telegramChat(id string) (tgbotapi.BaseChat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tgbotapi.BaseChat{}, errors.New("empty telegram chat id")
	}
	if strings.HasPrefix(id, "@") {
		return tgbotapi.BaseChat{ChannelUsername: id}, nil
	}
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return tgbotapi.BaseChat{}, fmt.Errorf("invalid telegram chat id %q", id)
	}
	return tgbotapi.BaseChat{ChatID: chatID}, nil
}

func renderHTML(p Payload) string {
	var b strings.Builder
	title := html.EscapeString(p.Title)
	if p.URL != "" {
		fmt.Fprintf(&b, "<b><a href=\"%s\">%s</a></b>\n", html.EscapeString(p.URL), title)
	} else {
		fmt.Fprintf(&b, "<b>%s</b>\n", title)
	}
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(renderBlock(p.Fields)))
	b.WriteString("</pre>")
	if len(p.Extra) > 0 {
		b.WriteString("\n<b>Extra Stats</b>\n<pre>")
		b.WriteString(html.EscapeString(renderBlock(p.Extra)))
		b.WriteString("</pre>")
	}
	if !p.Timestamp.IsZero() {
		fmt.Fprintf(&b, "\n<i>%s UTC</i>", p.Timestamp.UTC().Format(time.RFC3339))
	}
	return b.String()
}

var _ Transport = (*Telegram)(nil)
