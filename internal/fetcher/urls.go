package fetcher

import (
	"fmt"
	"net/url"
	"strings"

	"nft-floor-alerts/internal/market"
)

// CollectionRef is what a marketplace URL identifies.
type CollectionRef struct {
	Marketplace market.Marketplace
	Slug        string
	// Chain is empty when the URL does not imply one.
	Chain market.Chain
}

// ParseCollectionURL extracts marketplace, slug and, where the path encodes it,
// the chain from a collection page URL.
func ParseCollectionURL(raw string) (CollectionRef, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return CollectionRef{}, fmt.Errorf("parse collection url: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := splitPath(u.Path)

	switch host {
	case "opensea.io":
		if len(parts) >= 2 && parts[0] == "collection" {
			return CollectionRef{Marketplace: market.OpenSea, Slug: parts[1]}, nil
		}
	case "magiceden.io", "magiceden.us":
		switch {
		case len(parts) >= 2 && parts[0] == "marketplace":
			return CollectionRef{Marketplace: market.MagicEden, Slug: parts[1], Chain: market.Solana}, nil
		case len(parts) >= 3 && parts[0] == "ordinals" && parts[1] == "marketplace":
			return CollectionRef{Marketplace: market.MagicEden, Slug: parts[2], Chain: market.Bitcoin}, nil
		case len(parts) >= 3 && parts[0] == "collections":
			chain, err := market.ParseChain(parts[1])
			if err != nil {
				return CollectionRef{}, err
			}
			return CollectionRef{Marketplace: market.MagicEden, Slug: parts[2], Chain: chain}, nil
		}
	}
	return CollectionRef{}, fmt.Errorf("could not detect marketplace and slug from %q", raw)
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
