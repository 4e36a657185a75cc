package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"nft-floor-alerts/internal/market"
)

type stubAdapter struct {
	m     market.Marketplace
	stats market.Stats
	err   error
	calls int
}

func (s *stubAdapter) Marketplace() market.Marketplace { return s.m }

func (s *stubAdapter) Fetch(ctx context.Context, slug string, chain market.Chain) (market.Stats, error) {
	s.calls++
	return s.stats, s.err
}

func TestDefaultAdaptersCoverEveryMarketplace(t *testing.T) {
	r := NewRegistry(
		NewMagicEden(MagicEdenOptions{}, noopLogger()),
		NewOpenSea(OpenSeaOptions{}, noopLogger()),
	)
	require.Empty(t, r.Missing())
	for _, m := range market.Marketplaces() {
		a, ok := r.Adapter(m)
		require.True(t, ok)
		require.Equal(t, m, a.Marketplace())
	}
}

func TestRegistryDispatch(t *testing.T) {
	me := &stubAdapter{m: market.MagicEden, stats: market.Stats{FloorPrice: decimal.NewNullDecimal(decimal.NewFromInt(3))}}
	os := &stubAdapter{m: market.OpenSea}
	r := NewRegistry(me, os)

	stats, err := r.GetStats(context.Background(), market.Collection{Name: "a", Marketplace: market.MagicEden, Slug: "a", Chain: market.Solana})
	require.NoError(t, err)
	require.True(t, stats.FloorPrice.Decimal.Equal(decimal.NewFromInt(3)))
	require.Equal(t, 1, me.calls)
	require.Equal(t, 0, os.calls)
}

func TestRegistryUnsupportedIsPerCollection(t *testing.T) {
	r := NewRegistry(&stubAdapter{m: market.MagicEden})

	_, err := r.GetStats(context.Background(), market.Collection{Name: "x", Marketplace: market.OpenSea, Slug: "x"})
	require.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = r.GetStats(context.Background(), market.Collection{Name: "y", Marketplace: market.Unknown, Slug: "y"})
	require.ErrorIs(t, err, ErrUnsupportedProvider)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "unsupported_provider", KindOf(err))
}

func TestRegistryClassifiesAdapterErrors(t *testing.T) {
	r := NewRegistry(&stubAdapter{m: market.OpenSea, err: context.DeadlineExceeded})
	_, err := r.GetStats(context.Background(), market.Collection{Marketplace: market.OpenSea, Slug: "s"})
	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	r = NewRegistry(&stubAdapter{m: market.OpenSea, err: errors.New("boom")})
	_, err = r.GetStats(context.Background(), market.Collection{Marketplace: market.OpenSea, Slug: "s"})
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestScaledIsExact(t *testing.T) {
	n := number{raw: "2500000000"}
	got := n.scaled(9)
	require.True(t, got.Valid)
	require.True(t, got.Decimal.Equal(decimal.RequireFromString("2.5")))

	n = number{raw: "1"}
	require.Equal(t, "0.000000001", n.scaled(9).Decimal.String())

	require.False(t, number{}.scaled(9).Valid)
}
