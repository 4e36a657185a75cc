package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscordResolveAndSend(t *testing.T) {
	var got discordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/webhooks/1/live" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"1","name":"floor-bot","channel_id":"99"}`))
		case r.URL.Path == "/api/webhooks/1/live" && r.Method == http.MethodPost:
			require.Equal(t, "true", r.URL.Query().Get("wait"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"id":"500"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Unknown Webhook","code":10015}`))
		}
	}))
	defer srv.Close()

	d := NewDiscord(DiscordOptions{}, testLogger())

	dest, err := d.ResolveDestination(context.Background(), srv.URL+"/api/webhooks/1/live")
	require.NoError(t, err)
	require.Equal(t, "floor-bot", dest.Name)

	payload := samplePayload("https://img.example/okay.png")
	require.NoError(t, d.Send(context.Background(), dest, payload))

	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	require.Equal(t, payload.Title, embed.Title)
	require.Equal(t, payload.URL, embed.URL)
	require.Equal(t, 0x00ff00, embed.Color)
	require.Contains(t, embed.Description, "1.5 → 2.5 SOL")
	require.NotNil(t, embed.Thumbnail)
	require.Equal(t, "https://img.example/okay.png", embed.Thumbnail.URL)
	require.Equal(t, "2024-05-01T12:00:00Z", embed.Timestamp)
}

func TestDiscordUnknownWebhookIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Unknown Webhook","code":10015}`))
	}))
	defer srv.Close()

	d := NewDiscord(DiscordOptions{}, testLogger())
	_, err := d.ResolveDestination(context.Background(), srv.URL+"/api/webhooks/2/gone")
	require.ErrorIs(t, err, ErrDestinationUnavailable)

	_, err = d.ResolveDestination(context.Background(), "not a url")
	require.ErrorIs(t, err, ErrDestinationUnavailable)

	err = d.Send(context.Background(), Destination{ID: srv.URL + "/api/webhooks/2/gone"}, samplePayload(""))
	require.ErrorIs(t, err, ErrDestinationUnavailable)
}

func TestDiscordSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDiscord(DiscordOptions{}, testLogger())
	err := d.Send(context.Background(), Destination{ID: srv.URL + "/api/webhooks/3/x"}, samplePayload(""))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDestinationUnavailable)
}

func TestMaskDestination(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://discord.com/api/webhooks/123/s3cr3t-token", "https://discord.com/api/webhooks/123/redacted"},
		{"https://discord.com/api/webhooks/123/s3cr3t-token?thread_id=9", "https://discord.com/api/webhooks/123/redacted"},
		{"-1001234567890", "-1001234567890"},
		{"@floors", "@floors"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MaskDestination(tc.in), tc.in)
	}
}

func TestDiscordErrorsDoNotLeakToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hook := srv.URL + "/api/webhooks/7/s3cr3t-token"
	srv.Close()

	d := NewDiscord(DiscordOptions{}, testLogger())
	_, err := d.ResolveDestination(context.Background(), hook)
	require.ErrorIs(t, err, ErrDestinationUnavailable)
	require.NotContains(t, err.Error(), "s3cr3t-token")

	err = d.Send(context.Background(), Destination{ID: hook}, samplePayload(""))
	require.Error(t, err)
	require.NotContains(t, err.Error(), "s3cr3t-token")
}
