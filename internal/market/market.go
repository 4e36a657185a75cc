package market

import (
	"fmt"
	"strings"
)

// Marketplace identifies the data provider a collection is tracked on.
type Marketplace int

const (
	// Unknown is the zero value; it never has an adapter.
	Unknown Marketplace = iota
	MagicEden
	OpenSea
)

// Marketplaces lists every supported marketplace.
func Marketplaces() []Marketplace {
	return []Marketplace{MagicEden, OpenSea}
}

// ParseMarketplace maps the stored identifier back to the enum. Unrecognised
// values yield Unknown so a single bad row cannot stop the rest of the set.
func ParseMarketplace(v string) Marketplace {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "magiceden", "magic_eden", "magic-eden":
		return MagicEden
	case "opensea":
		return OpenSea
	default:
		return Unknown
	}
}

// String returns the identifier persisted in storage.
func (m Marketplace) String() string {
	switch m {
	case MagicEden:
		return "magiceden"
	case OpenSea:
		return "opensea"
	default:
		return "unknown"
	}
}

// DisplayName is the human readable marketplace name.
func (m Marketplace) DisplayName() string {
	switch m {
	case MagicEden:
		return "Magic Eden"
	case OpenSea:
		return "OpenSea"
	default:
		return "Unknown"
	}
}

// Chain is the blockchain a collection lives on.
type Chain string

const (
	Solana    Chain = "solana"
	Bitcoin   Chain = "bitcoin"
	Ethereum  Chain = "ethereum"
	Base      Chain = "base"
	Arbitrum  Chain = "arbitrum"
	Apechain  Chain = "apechain"
	Optimism  Chain = "optimism"
	Polygon   Chain = "polygon"
	Zora      Chain = "zora"
	Avalanche Chain = "avalanche"
	BSC       Chain = "bsc"
	Berachain Chain = "berachain"
)

type chainInfo struct {
	symbol string
	evm    bool
}

var chains = map[Chain]chainInfo{
	Solana:    {symbol: "SOL"},
	Bitcoin:   {symbol: "BTC"},
	Ethereum:  {symbol: "ETH", evm: true},
	Base:      {symbol: "ETH", evm: true},
	Arbitrum:  {symbol: "ETH", evm: true},
	Apechain:  {symbol: "APE", evm: true},
	Optimism:  {symbol: "ETH", evm: true},
	Polygon:   {symbol: "POL", evm: true},
	Zora:      {symbol: "ETH", evm: true},
	Avalanche: {symbol: "AVAX", evm: true},
	BSC:       {symbol: "BNB", evm: true},
	Berachain: {symbol: "BERA", evm: true},
}

// ParseChain validates a chain identifier.
func ParseChain(v string) (Chain, error) {
	c := Chain(strings.ToLower(strings.TrimSpace(v)))
	if c == "bnb" {
		c = BSC
	}
	if _, ok := chains[c]; !ok {
		return "", fmt.Errorf("unsupported chain %q", v)
	}
	return c, nil
}

// Known reports whether the chain is one of the supported identifiers.
func (c Chain) Known() bool {
	_, ok := chains[c]
	return ok
}

// IsEVM reports whether the chain uses EVM contract addresses.
func (c Chain) IsEVM() bool {
	return chains[c].evm
}

// Symbol is the native currency ticker prices are quoted in.
func (c Chain) Symbol() string {
	if info, ok := chains[c]; ok {
		return info.symbol
	}
	return strings.ToUpper(string(c))
}

func (c Chain) String() string { return string(c) }
