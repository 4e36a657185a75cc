package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nft-floor-alerts/internal/fetcher"
	"nft-floor-alerts/internal/market"
	"nft-floor-alerts/internal/storage"
)

// AddOptions describe a collection to start tracking.
type AddOptions struct {
	Name     string
	URL      string
	Chain    string
	Channel  string
	Contract string
	Image    string
}

// Add registers a collection from a marketplace URL, or from an EVM contract
// address resolved through OpenSea.
func (a *App) Add(ctx context.Context, opts AddOptions) (market.Collection, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return market.Collection{}, err
	}
	defer store.Close()

	registry, openSea := a.newRegistry()
	c, err := a.resolveCollection(ctx, opts, registry, openSea)
	if err != nil {
		return market.Collection{}, err
	}

	id, err := store.Create(ctx, c)
	if errors.Is(err, storage.ErrDuplicate) {
		return market.Collection{}, fmt.Errorf("a collection named %q (or the same %s/%s on %s) is already tracked", c.Name, c.Marketplace, c.Slug, c.Chain)
	}
	if err != nil {
		return market.Collection{}, err
	}
	c.ID = id

	a.Logger.Info().
		Int64("id", id).
		Str("collection", c.Name).
		Str("marketplace", c.Marketplace.String()).
		Str("chain", c.Chain.String()).
		Str("slug", c.Slug).
		Msg("collection added")
	fmt.Fprintf(a.Out, "Tracking %s on %s (%s, %s)\n", c.Name, c.Marketplace.DisplayName(), c.Chain, c.Link())
	return c, nil
}

func (a *App) resolveCollection(ctx context.Context, opts AddOptions, registry *fetcher.Registry, openSea *fetcher.OpenSea) (market.Collection, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return market.Collection{}, errors.New("--name is required")
	}

	var chain market.Chain
	if opts.Chain != "" {
		parsed, err := market.ParseChain(opts.Chain)
		if err != nil {
			return market.Collection{}, err
		}
		chain = parsed
	}

	c := market.Collection{
		Name:     name,
		Channel:  strings.TrimSpace(opts.Channel),
		ImageURL: strings.TrimSpace(opts.Image),
	}

	switch {
	case strings.TrimSpace(opts.URL) != "":
		ref, err := fetcher.ParseCollectionURL(opts.URL)
		if err != nil {
			return market.Collection{}, err
		}
		if ref.Chain != "" && chain != "" && ref.Chain != chain {
			return market.Collection{}, fmt.Errorf("url implies chain %s but --chain is %s", ref.Chain, chain)
		}
		if ref.Chain != "" {
			chain = ref.Chain
		}
		if chain == "" {
			chain = defaultChain(ref.Marketplace)
		}
		c.Marketplace = ref.Marketplace
		c.Slug = ref.Slug
	case strings.TrimSpace(opts.Contract) != "":
		if chain == "" {
			return market.Collection{}, errors.New("--chain is required with --contract")
		}
		if !chain.IsEVM() {
			return market.Collection{}, fmt.Errorf("contract lookup needs an EVM chain, got %s", chain)
		}
		contract, err := market.NormalizeContract(chain, opts.Contract)
		if err != nil {
			return market.Collection{}, err
		}
		lookupCtx, cancel := context.WithTimeout(ctx, a.Config.Tracker.FetchTimeout)
		slug, err := openSea.ResolveSlug(lookupCtx, chain, contract)
		cancel()
		if err != nil {
			return market.Collection{}, fmt.Errorf("resolve collection for %s: %w", contract, err)
		}
		c.Marketplace = market.OpenSea
		c.Slug = slug
	default:
		return market.Collection{}, errors.New("either --url or --contract is required")
	}
	c.Chain = chain

	contract, err := market.NormalizeContract(chain, opts.Contract)
	if err != nil {
		return market.Collection{}, err
	}
	c.ContractAddress = contract

	if c.ImageURL == "" {
		imgCtx, cancel := context.WithTimeout(ctx, a.Config.Tracker.FetchTimeout)
		img, err := registry.CollectionImage(imgCtx, c.Marketplace, c.Slug, c.Chain)
		cancel()
		if err != nil {
			a.Logger.Warn().Err(err).Str("collection", c.Name).Msg("collection image lookup failed")
		}
		c.ImageURL = img
	}

	if err := c.Validate(); err != nil {
		return market.Collection{}, err
	}
	return c, nil
}

func defaultChain(m market.Marketplace) market.Chain {
	if m == market.MagicEden {
		return market.Solana
	}
	return market.Ethereum
}

// Remove stops tracking every collection with the given name.
func (a *App) Remove(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("--name is required")
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	n, err := store.DeleteByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		fmt.Fprintf(a.Out, "no collection named %q\n", name)
		return 0, nil
	}

	a.Logger.Info().Str("collection", name).Int64("removed", n).Msg("collection removed")
	fmt.Fprintf(a.Out, "Removed %d collection(s) named %q\n", n, name)
	return n, nil
}
