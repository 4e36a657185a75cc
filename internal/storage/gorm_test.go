package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"nft-floor-alerts/internal/config"
	"nft-floor-alerts/internal/market"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := OpenGorm(config.DatabaseConfig{
		Driver:      DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "floorwatch.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func bears() market.Collection {
	return market.Collection{
		Name:        "Okay Bears",
		Marketplace: market.MagicEden,
		Chain:       market.Solana,
		Slug:        "okay_bears",
		Channel:     "-1001",
	}
}

func TestGormStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Create(ctx, bears())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.FindByName(ctx, "Okay Bears")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, market.MagicEden, got.Marketplace)
	require.Equal(t, market.Solana, got.Chain)
	require.False(t, got.LastFloorPrice.Valid)

	precise := decimal.RequireFromString("0.000000001234567891")
	require.NoError(t, store.UpdateFloorPrice(ctx, id, precise))

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].LastFloorPrice.Valid)
	require.True(t, all[0].LastFloorPrice.Decimal.Equal(precise))

	n, err := store.DeleteByName(ctx, "Okay Bears")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = store.DeleteByName(ctx, "Okay Bears")
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = store.FindByName(ctx, "Okay Bears")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Create(ctx, bears())
	require.NoError(t, err)

	_, err = store.Create(ctx, bears())
	require.ErrorIs(t, err, ErrDuplicate)

	other := bears()
	other.Name = "Bears Again"
	_, err = store.Create(ctx, other)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestGormStoreUpdateMissing(t *testing.T) {
	store := openTestStore(t)
	err := store.UpdateFloorPrice(context.Background(), 404, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownMarketplaceLoadsAsUnknown(t *testing.T) {
	rec := CollectionRecord{Name: "x", Marketplace: "tensor", Chain: "solana", Slug: "x"}
	require.Equal(t, market.Unknown, rec.toCollection().Marketplace)
}

func TestGormStoreSeedOnlyFillsEmptyFloor(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Create(ctx, bears())
	require.NoError(t, err)

	seeded, err := store.SeedFloorPrice(ctx, id, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	require.True(t, seeded)

	// an announced floor must survive a later seed attempt
	require.NoError(t, store.UpdateFloorPrice(ctx, id, decimal.RequireFromString("2.6")))
	seeded, err = store.SeedFloorPrice(ctx, id, decimal.RequireFromString("2.7"))
	require.NoError(t, err)
	require.False(t, seeded)

	got, err := store.FindByName(ctx, "Okay Bears")
	require.NoError(t, err)
	require.True(t, got.LastFloorPrice.Decimal.Equal(decimal.RequireFromString("2.6")))

	seeded, err = store.SeedFloorPrice(ctx, 404, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.False(t, seeded)
}

func TestGormStoreUnreadableFloorStaysWithItsRow(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	badID, err := store.Create(ctx, bears())
	require.NoError(t, err)
	other := bears()
	other.Name = "Degods"
	other.Slug = "degods"
	goodID, err := store.Create(ctx, other)
	require.NoError(t, err)
	require.NoError(t, store.UpdateFloorPrice(ctx, goodID, decimal.RequireFromString("3.2")))

	require.NoError(t, store.db.Exec("UPDATE collections SET last_floor_price = ? WHERE id = ?", "NaN", badID).Error)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, badID, all[0].ID)
	require.False(t, all[0].LastFloorPrice.Valid)
	require.True(t, all[1].LastFloorPrice.Decimal.Equal(decimal.RequireFromString("3.2")))
}

func TestNilStoresAreNotConfigured(t *testing.T) {
	var pg *Store
	_, err := pg.FindAll(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)

	var g *GormStore
	_, err = g.FindAll(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}
