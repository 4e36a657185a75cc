package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Collection is a tracked (marketplace, chain, slug) tuple.
type Collection struct {
	ID              int64
	Name            string
	Marketplace     Marketplace
	Chain           Chain
	Slug            string
	ContractAddress string
	Channel         string
	LastFloorPrice  decimal.NullDecimal
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields required before a collection can be stored.
func (c Collection) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("collection name is required")
	}
	if c.Marketplace == Unknown {
		return fmt.Errorf("collection %q: marketplace is required", c.Name)
	}
	if strings.TrimSpace(c.Slug) == "" {
		return fmt.Errorf("collection %q: slug is required", c.Name)
	}
	if !c.Chain.Known() {
		return fmt.Errorf("collection %q: unsupported chain %q", c.Name, c.Chain)
	}
	if strings.TrimSpace(c.Channel) == "" {
		return fmt.Errorf("collection %q: channel is required", c.Name)
	}
	return nil
}

// Link returns the public marketplace page for the collection.
func (c Collection) Link() string {
	switch c.Marketplace {
	case MagicEden:
		switch {
		case c.Chain == Bitcoin:
			return "https://magiceden.io/ordinals/marketplace/" + c.Slug
		case c.Chain.IsEVM():
			return fmt.Sprintf("https://magiceden.io/collections/%s/%s", c.Chain, c.Slug)
		default:
			return "https://magiceden.io/marketplace/" + c.Slug
		}
	case OpenSea:
		return "https://opensea.io/collection/" + c.Slug
	default:
		return ""
	}
}

// NormalizeContract validates an EVM contract address and returns its EIP-55 form.
// Non-EVM chains accept any non-empty string unchanged.
func NormalizeContract(chain Chain, addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", nil
	}
	if !chain.IsEVM() {
		return addr, nil
	}
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid %s contract address %q", chain, addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}

// Stats is a provider-agnostic snapshot of a collection's market.
type Stats struct {
	FloorPrice  decimal.NullDecimal
	ListedCount *int64
	Volume      decimal.NullDecimal
	AvgPrice    decimal.NullDecimal
	// Extra holds provider-specific display values such as sales or owners.
	Extra map[string]decimal.Decimal
}

// Extra keys shared by adapters and the formatter.
const (
	ExtraSales  = "sales"
	ExtraOwners = "owners"
)

// HasFloor reports whether the provider returned a usable floor price.
func (s Stats) HasFloor() bool {
	return s.FloorPrice.Valid
}
