package alerting

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrDestinationUnavailable means the configured channel no longer exists or
// the bot can no longer reach it.
var ErrDestinationUnavailable = errors.New("destination unavailable")

// Destination is a resolved notification target.
type Destination struct {
	ID   string
	Name string
}

// Transport delivers payloads to destinations.
type Transport interface {
	ResolveDestination(ctx context.Context, id string) (Destination, error)
	Send(ctx context.Context, dest Destination, payload Payload) error
}

// MaskDestination hides the token segment of a webhook URL so destinations can
// be logged and listed. Chat ids and usernames are returned unchanged.
func MaskDestination(id string) string {
	u, err := url.Parse(strings.TrimSpace(id))
	if err != nil || u.Host == "" {
		return id
	}
	segs := strings.Split(u.Path, "/")
	for i, seg := range segs {
		if seg == "webhooks" && i+2 < len(segs) {
			segs[i+2] = "redacted"
			u.Path = strings.Join(segs[:i+3], "/")
			u.RawPath = ""
			u.RawQuery = ""
			u.User = nil
			return u.String()
		}
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
