package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMarketplaceRoundTrip(t *testing.T) {
	for _, m := range Marketplaces() {
		require.Equal(t, m, ParseMarketplace(m.String()))
	}
	require.Equal(t, Unknown, ParseMarketplace("tensor"))
	require.Equal(t, MagicEden, ParseMarketplace(" MagicEden "))
}

func TestParseChain(t *testing.T) {
	c, err := ParseChain("Solana")
	require.NoError(t, err)
	require.Equal(t, Solana, c)

	c, err = ParseChain("bnb")
	require.NoError(t, err)
	require.Equal(t, BSC, c)

	_, err = ParseChain("dogechain")
	require.Error(t, err)
}

func TestChainSymbol(t *testing.T) {
	require.Equal(t, "SOL", Solana.Symbol())
	require.Equal(t, "ETH", Base.Symbol())
	require.True(t, Polygon.IsEVM())
	require.False(t, Solana.IsEVM())
}

func TestCollectionLink(t *testing.T) {
	cases := []struct {
		c    Collection
		want string
	}{
		{Collection{Marketplace: MagicEden, Chain: Solana, Slug: "okay_bears"}, "https://magiceden.io/marketplace/okay_bears"},
		{Collection{Marketplace: MagicEden, Chain: Bitcoin, Slug: "nodemonkes"}, "https://magiceden.io/ordinals/marketplace/nodemonkes"},
		{Collection{Marketplace: MagicEden, Chain: Base, Slug: "0xabc"}, "https://magiceden.io/collections/base/0xabc"},
		{Collection{Marketplace: OpenSea, Chain: Ethereum, Slug: "yumemono"}, "https://opensea.io/collection/yumemono"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.c.Link())
	}
}

func TestCollectionValidate(t *testing.T) {
	c := Collection{Name: "Okay Bears", Marketplace: MagicEden, Chain: Solana, Slug: "okay_bears", Channel: "-100"}
	require.NoError(t, c.Validate())

	bad := c
	bad.Marketplace = Unknown
	require.Error(t, bad.Validate())

	bad = c
	bad.Channel = " "
	require.Error(t, bad.Validate())
}

func TestNormalizeContract(t *testing.T) {
	got, err := NormalizeContract(Ethereum, "0x5af0d9827e0c53e4799bb226655a1de152a425a5")
	require.NoError(t, err)
	require.Equal(t, "0x5Af0D9827E0c53E4799BB226655A1de152A425a5", got)

	_, err = NormalizeContract(Ethereum, "not-an-address")
	require.Error(t, err)

	got, err = NormalizeContract(Solana, "J1S9H3QjnRtBbbuD4HjPV6RpRhwuk4zKbxsnCHuTgh9w")
	require.NoError(t, err)
	require.Equal(t, "J1S9H3QjnRtBbbuD4HjPV6RpRhwuk4zKbxsnCHuTgh9w", got)
}
