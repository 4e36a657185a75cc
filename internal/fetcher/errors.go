package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"

	"nft-floor-alerts/internal/market"
)

var (
	// ErrProviderUnavailable covers transport failures and non-2xx responses.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedResponse indicates a body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrUnsupportedProvider is returned when no adapter serves the marketplace or chain.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("provider request timed out")
)

// Error scopes a fetch failure to one collection.
type Error struct {
	Kind        error
	Marketplace market.Marketplace
	Slug        string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Marketplace, e.Slug, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// KindOf returns a short label for logging.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnsupportedProvider):
		return "unsupported_provider"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	default:
		return "unknown"
	}
}

func classify(err error) error {
	for _, kind := range []error{ErrTimeout, ErrUnsupportedProvider, ErrMalformedResponse, ErrProviderUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrProviderUnavailable
}

func wrap(m market.Marketplace, slug string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: classify(err), Marketplace: m, Slug: slug, Err: err}
}
