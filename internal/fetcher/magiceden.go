package fetcher

import (
	"context"
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

const (
	magicEdenBaseURL = "https://api-mainnet.magiceden.dev"

	lamportsExp = 9
	satsExp     = 8
)

// MagicEdenOptions parameterise the Magic Eden adapter.
type MagicEdenOptions struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient HTTPClient
}

// MagicEden reads collection stats from the Magic Eden public API.
type MagicEden struct {
	opts    MagicEdenOptions
	client  HTTPClient
	baseURL string
	logger  zerolog.Logger
}

// NewMagicEden constructs the Magic Eden adapter.
func NewMagicEden(opts MagicEdenOptions, logger zerolog.Logger) *MagicEden {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = magicEdenBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = newHTTPClient(opts.Timeout)
	}
	return &MagicEden{
		opts:    opts,
		client:  client,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "magiceden_fetcher").Logger(),
	}
}

// Marketplace implements Adapter.
func (m *MagicEden) Marketplace() market.Marketplace { return market.MagicEden }

// Fetch returns normalized stats. Solana prices arrive in lamports and ordinals
// prices in sats; EVM prices are already decimal.
func (m *MagicEden) Fetch(ctx context.Context, slug string, chain market.Chain) (market.Stats, error) {
	if strings.TrimSpace(slug) == "" {
		return market.Stats{}, errors.New("slug is required")
	}
	switch {
	case chain == market.Solana:
		return m.fetchSolana(ctx, slug)
	case chain == market.Bitcoin:
		return m.fetchOrdinals(ctx, slug)
	case chain.IsEVM():
		return m.fetchEVM(ctx, slug, chain)
	default:
		return market.Stats{}, fmt.Errorf("%w: magic eden does not serve chain %q", ErrUnsupportedProvider, chain)
	}
}

type magicEdenStats struct {
	Symbol       string `json:"symbol"`
	FloorPrice   number `json:"floorPrice"`
	ListedCount  number `json:"listedCount"`
	AvgPrice24hr number `json:"avgPrice24hr"`
	VolumeAll    number `json:"volumeAll"`
}

func (s magicEdenStats) normalize(exp int32) market.Stats {
	return market.Stats{
		FloorPrice:  positive(s.FloorPrice.scaled(exp)),
		ListedCount: s.ListedCount.integer(),
		Volume:      s.VolumeAll.scaled(exp),
		AvgPrice:    s.AvgPrice24hr.scaled(exp),
		Extra:       map[string]decimal.Decimal{},
	}
}

func (m *MagicEden) fetchSolana(ctx context.Context, slug string) (market.Stats, error) {
	endpoint := fmt.Sprintf("%s/v2/collections/%s/stats", m.baseURL, url.PathEscape(slug))
	var res magicEdenStats
	if err := getJSON(ctx, m.client, m.logger, endpoint, m.header(), &res); err != nil {
		return market.Stats{}, err
	}
	return res.normalize(lamportsExp), nil
}

func (m *MagicEden) fetchEVM(ctx context.Context, slug string, chain market.Chain) (market.Stats, error) {
	q := url.Values{}
	q.Set("chain", chain.String())
	endpoint := fmt.Sprintf("%s/v2/evm/collections/%s/stats?%s", m.baseURL, url.PathEscape(slug), q.Encode())
	var res magicEdenStats
	if err := getJSON(ctx, m.client, m.logger, endpoint, m.header(), &res); err != nil {
		return market.Stats{}, err
	}
	return res.normalize(0), nil
}

type ordinalsStats struct {
	FloorPrice  number `json:"floorPrice"`
	Owners      number `json:"owners"`
	TotalListed number `json:"totalListed"`
	TotalVolume number `json:"totalVolume"`
}

func (m *MagicEden) fetchOrdinals(ctx context.Context, slug string) (market.Stats, error) {
	q := url.Values{}
	q.Set("collectionSymbol", slug)
	endpoint := fmt.Sprintf("%s/v2/ord/btc/stat?%s", m.baseURL, q.Encode())
	var res ordinalsStats
	if err := getJSON(ctx, m.client, m.logger, endpoint, m.header(), &res); err != nil {
		return market.Stats{}, err
	}
	stats := market.Stats{
		FloorPrice:  positive(res.FloorPrice.scaled(satsExp)),
		ListedCount: res.TotalListed.integer(),
		Volume:      res.TotalVolume.scaled(satsExp),
		Extra:       map[string]decimal.Decimal{},
	}
	putExtra(stats.Extra, market.ExtraOwners, res.Owners.decimal())
	return stats, nil
}

// CollectionImage looks up the collection artwork used in notifications.
func (m *MagicEden) CollectionImage(ctx context.Context, slug string, chain market.Chain) (string, error) {
	if chain != market.Solana {
		return "", nil
	}
	endpoint := fmt.Sprintf("%s/v2/collections/%s", m.baseURL, url.PathEscape(slug))
	var res struct {
		Image string `json:"image"`
	}
	if err := getJSON(ctx, m.client, m.logger, endpoint, m.header(), &res); err != nil {
		return "", err
	}
	return res.Image, nil
}

func (m *MagicEden) header() http.Header {
	h := http.Header{}
	ua := strings.TrimSpace(m.opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	h.Set("User-Agent", ua)
	if m.opts.APIKey != "" {
		h.Set("Authorization", "Bearer "+m.opts.APIKey)
	}
	return h
}

var (
	_ Adapter       = (*MagicEden)(nil)
	_ ImageResolver = (*MagicEden)(nil)
)
