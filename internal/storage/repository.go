package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"nft-floor-alerts/internal/market"
)

var (
	// ErrNotConfigured indicates the storage backend was not initialised.
	ErrNotConfigured = errors.New("storage: not configured")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("storage: collection not found")
	// ErrDuplicate is returned when a collection with the same name or source already exists.
	ErrDuplicate = errors.New("storage: collection already exists")
)

const uniqueViolation = "23505"

const (
	collectionColumns = `id,
        name,
        marketplace,
        slug,
        chain,
        contract_address,
        channel,
        last_floor_price::text,
        image_url,
        created_at,
        updated_at`

	findAllCollectionsSQL = `SELECT ` + collectionColumns + `
    FROM collections
    ORDER BY id;`

	findCollectionByNameSQL = `SELECT ` + collectionColumns + `
    FROM collections
    WHERE name = $1;`

	insertCollectionSQL = `INSERT INTO collections (
        name,
        marketplace,
        slug,
        chain,
        contract_address,
        channel,
        last_floor_price,
        image_url
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7::numeric,$8
    )
    RETURNING id;`

	updateFloorPriceSQL = `UPDATE collections
    SET last_floor_price = $2::numeric, updated_at = NOW()
    WHERE id = $1;`

	seedFloorPriceSQL = `UPDATE collections
    SET last_floor_price = $2::numeric, updated_at = NOW()
    WHERE id = $1 AND last_floor_price IS NULL;`

	deleteCollectionByNameSQL = `DELETE FROM collections WHERE name = $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// CollectionStore is the persistence gateway for tracked collections.
type CollectionStore interface {
	FindAll(ctx context.Context) ([]market.Collection, error)
	FindByName(ctx context.Context, name string) (market.Collection, error)
	Create(ctx context.Context, c market.Collection) (int64, error)
	UpdateFloorPrice(ctx context.Context, id int64, price decimal.Decimal) error
	DeleteByName(ctx context.Context, name string) (int64, error)
}

// FloorSeeder records a first floor without replacing one that was announced.
type FloorSeeder interface {
	SeedFloorPrice(ctx context.Context, id int64, price decimal.Decimal) (bool, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store is the PostgreSQL CollectionStore backed by pgx.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// a failed unlock is released with the session when the connection closes
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// FindAll lists every tracked collection ordered by id.
func (s *Store) FindAll(ctx context.Context) ([]market.Collection, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, findAllCollectionsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("find collections: %w", queryErr)
	}
	defer rows.Close()

	collections := make([]market.Collection, 0)
	for rows.Next() {
		c, scanErr := scanCollection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		collections = append(collections, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return collections, nil
}

// FindByName looks a collection up by its unique display name.
func (s *Store) FindByName(ctx context.Context, name string) (market.Collection, error) {
	pool, err := s.getPool()
	if err != nil {
		return market.Collection{}, err
	}

	c, scanErr := scanCollection(pool.QueryRow(ctx, findCollectionByNameSQL, name))
	if errors.Is(scanErr, pgx.ErrNoRows) {
		return market.Collection{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if scanErr != nil {
		return market.Collection{}, fmt.Errorf("find collection %q: %w", name, scanErr)
	}
	return c, nil
}

// Create inserts a collection and returns its id.
func (s *Store) Create(ctx context.Context, c market.Collection) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	rec := recordFromCollection(c)
	var id int64
	scanErr := pool.QueryRow(ctx, insertCollectionSQL,
		rec.Name,
		rec.Marketplace,
		rec.Slug,
		rec.Chain,
		rec.ContractAddress,
		rec.Channel,
		rec.LastFloorPrice,
		rec.ImageURL,
	).Scan(&id)
	if scanErr != nil {
		var pgErr *pgconn.PgError
		if errors.As(scanErr, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, c.Name)
		}
		return 0, fmt.Errorf("insert collection: %w", scanErr)
	}
	return id, nil
}

// UpdateFloorPrice stores the last announced floor for a collection.
func (s *Store) UpdateFloorPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	cmdTag, execErr := pool.Exec(ctx, updateFloorPriceSQL, id, price.String())
	if execErr != nil {
		return fmt.Errorf("update floor price: %w", execErr)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// SeedFloorPrice stores price only while the collection has no floor yet and
// reports whether the row changed.
func (s *Store) SeedFloorPrice(ctx context.Context, id int64, price decimal.Decimal) (bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return false, err
	}
	cmdTag, execErr := pool.Exec(ctx, seedFloorPriceSQL, id, price.String())
	if execErr != nil {
		return false, fmt.Errorf("seed floor price: %w", execErr)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// DeleteByName removes collections with the given name and reports how many went.
func (s *Store) DeleteByName(ctx context.Context, name string) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	cmdTag, execErr := pool.Exec(ctx, deleteCollectionByNameSQL, name)
	if execErr != nil {
		return 0, fmt.Errorf("delete collection: %w", execErr)
	}
	return cmdTag.RowsAffected(), nil
}

func scanCollection(row pgx.Row) (market.Collection, error) {
	var rec CollectionRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Marketplace,
		&rec.Slug,
		&rec.Chain,
		&rec.ContractAddress,
		&rec.Channel,
		&rec.LastFloorPrice,
		&rec.ImageURL,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return market.Collection{}, err
	}
	return rec.toCollection(), nil
}

var (
	_ CollectionStore = (*Store)(nil)
	_ FloorSeeder     = (*Store)(nil)
	_ AdvisoryLocker  = (*Store)(nil)
)
