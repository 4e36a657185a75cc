package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "floorwatch/1.0"
	maxBodyBytes     = 4 << 20
)

// HTTPClient is the transport seam adapters issue requests through.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// getJSON issues a GET and decodes a 200 response into out. Each round trip is
// logged at debug level with its path, status and latency.
func getJSON(ctx context.Context, client HTTPClient, logger zerolog.Logger, endpoint string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("endpoint", req.URL.Path).Dur("latency", time.Since(start)).Msg("provider request failed")
		if classify(err) == ErrTimeout {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if classify(err) == ErrTimeout {
			return fmt.Errorf("%w: read body: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: read body: %v", ErrProviderUnavailable, err)
	}

	logger.Debug().
		Str("endpoint", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("provider response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, parseHTTPError(resp.StatusCode, payload))
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

type errorResponse struct {
	Error   string   `json:"error"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
	Detail  string   `json:"detail"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		switch {
		case apiErr.Message != "":
			return fmt.Errorf("api error (%d): %s", status, apiErr.Message)
		case apiErr.Error != "":
			return fmt.Errorf("api error (%d): %s", status, apiErr.Error)
		case len(apiErr.Errors) > 0:
			return fmt.Errorf("api error (%d): %s", status, strings.Join(apiErr.Errors, "; "))
		case apiErr.Detail != "":
			return fmt.Errorf("api error (%d): %s", status, apiErr.Detail)
		}
	}
	if trimmed := strings.TrimSpace(string(payload)); trimmed != "" {
		if len(trimmed) > 256 {
			trimmed = trimmed[:256]
		}
		return fmt.Errorf("api error (%d): %s", status, trimmed)
	}
	return fmt.Errorf("api error (%d)", status)
}

// number accepts JSON numbers and numeric strings and keeps the exact text.
type number struct {
	raw string
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil
		}
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	n.raw = s
	return nil
}

// scaled converts a value expressed in 10^-exp units to a decimal.
func (n number) scaled(exp int32) decimal.NullDecimal {
	if n.raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Shift(-exp))
}

func (n number) decimal() decimal.NullDecimal {
	return n.scaled(0)
}

func (n number) integer() *int64 {
	d := n.decimal()
	if !d.Valid {
		return nil
	}
	v := d.Decimal.IntPart()
	return &v
}

// positive drops zero and negative floors; providers report 0 when nothing is listed.
func positive(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid || !d.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}
	return d
}

func putExtra(extra map[string]decimal.Decimal, key string, d decimal.NullDecimal) {
	if d.Valid {
		extra[key] = d.Decimal
	}
}
