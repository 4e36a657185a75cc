package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"nft-floor-alerts/internal/market"
)

const openSeaBaseURL = "https://api.opensea.io"

// OpenSeaOptions parameterise the OpenSea adapter.
type OpenSeaOptions struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient HTTPClient
}

// OpenSea reads collection stats from the OpenSea v2 API.
type OpenSea struct {
	opts    OpenSeaOptions
	client  HTTPClient
	baseURL string
	logger  zerolog.Logger
}

// NewOpenSea constructs the OpenSea adapter.
func NewOpenSea(opts OpenSeaOptions, logger zerolog.Logger) *OpenSea {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = openSeaBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = newHTTPClient(opts.Timeout)
	}
	return &OpenSea{
		opts:    opts,
		client:  client,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "opensea_fetcher").Logger(),
	}
}

// Marketplace implements Adapter.
func (o *OpenSea) Marketplace() market.Marketplace { return market.OpenSea }

type openSeaStats struct {
	Total struct {
		Volume           number `json:"volume"`
		Sales            number `json:"sales"`
		AveragePrice     number `json:"average_price"`
		NumOwners        number `json:"num_owners"`
		FloorPrice       number `json:"floor_price"`
		FloorPriceSymbol string `json:"floor_price_symbol"`
	} `json:"total"`
}

// Fetch returns normalized stats. OpenSea slugs are global so chain is ignored.
func (o *OpenSea) Fetch(ctx context.Context, slug string, _ market.Chain) (market.Stats, error) {
	if strings.TrimSpace(slug) == "" {
		return market.Stats{}, errors.New("slug is required")
	}
	endpoint := fmt.Sprintf("%s/api/v2/collections/%s/stats", o.baseURL, url.PathEscape(slug))
	var res openSeaStats
	if err := getJSON(ctx, o.client, o.logger, endpoint, o.header(), &res); err != nil {
		return market.Stats{}, err
	}

	total := res.Total
	stats := market.Stats{
		FloorPrice: positive(total.FloorPrice.decimal()),
		Volume:     total.Volume.decimal(),
		AvgPrice:   total.AveragePrice.decimal(),
		Extra:      map[string]decimal.Decimal{},
	}
	putExtra(stats.Extra, market.ExtraSales, total.Sales.decimal())
	putExtra(stats.Extra, market.ExtraOwners, total.NumOwners.decimal())
	return stats, nil
}

// CollectionImage looks up the collection artwork used in notifications.
func (o *OpenSea) CollectionImage(ctx context.Context, slug string, _ market.Chain) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v2/collections/%s", o.baseURL, url.PathEscape(slug))
	var res struct {
		ImageURL   string          `json:"image_url"`
		Collection json.RawMessage `json:"collection"`
	}
	if err := getJSON(ctx, o.client, o.logger, endpoint, o.header(), &res); err != nil {
		return "", err
	}
	if res.ImageURL != "" {
		return res.ImageURL, nil
	}
	// Older responses nest the collection object.
	var nested struct {
		ImageURL string `json:"image_url"`
	}
	if len(res.Collection) > 0 && json.Unmarshal(res.Collection, &nested) == nil {
		return nested.ImageURL, nil
	}
	return "", nil
}

// ResolveSlug maps an EVM contract address to its OpenSea collection slug.
func (o *OpenSea) ResolveSlug(ctx context.Context, chain market.Chain, contract string) (string, error) {
	if !chain.IsEVM() {
		return "", fmt.Errorf("%w: opensea contract lookup requires an EVM chain, got %q", ErrUnsupportedProvider, chain)
	}
	endpoint := fmt.Sprintf("%s/api/v2/chain/%s/contract/%s", o.baseURL, openSeaChain(chain), url.PathEscape(contract))
	var res struct {
		Collection string `json:"collection"`
	}
	if err := getJSON(ctx, o.client, o.logger, endpoint, o.header(), &res); err != nil {
		return "", err
	}
	if res.Collection == "" {
		return "", fmt.Errorf("%w: contract %s has no collection", ErrMalformedResponse, contract)
	}
	return res.Collection, nil
}

func openSeaChain(c market.Chain) string {
	switch c {
	case market.Polygon:
		return "matic"
	case market.Apechain:
		return "ape_chain"
	default:
		return c.String()
	}
}

func (o *OpenSea) header() http.Header {
	h := http.Header{}
	ua := strings.TrimSpace(o.opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	h.Set("User-Agent", ua)
	if o.opts.APIKey != "" {
		h.Set("x-api-key", o.opts.APIKey)
	}
	return h
}

var (
	_ Adapter       = (*OpenSea)(nil)
	_ ImageResolver = (*OpenSea)(nil)
)
