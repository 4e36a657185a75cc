package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nft-floor-alerts/internal/config"
	"nft-floor-alerts/internal/market"
)

// GormStore is the CollectionStore for SQLite, or PostgreSQL through gorm.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm opens the gorm dialect selected by cfg.Driver. For sqlite the DSN
// is a file path whose directory is created on demand.
func OpenGorm(cfg config.DatabaseConfig) (*GormStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case DriverGormPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "." && !strings.HasPrefix(cfg.DSN, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not served by gorm", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&CollectionRecord{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (g *GormStore) Close() {
	if g == nil || g.db == nil {
		return
	}
	if sqlDB, err := g.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (g *GormStore) conn(ctx context.Context) (*gorm.DB, error) {
	if g == nil || g.db == nil {
		return nil, ErrNotConfigured
	}
	return g.db.WithContext(ctx), nil
}

// FindAll lists every tracked collection ordered by id.
func (g *GormStore) FindAll(ctx context.Context) ([]market.Collection, error) {
	db, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []CollectionRecord
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("find collections: %w", err)
	}

	collections := make([]market.Collection, 0, len(records))
	for _, rec := range records {
		collections = append(collections, rec.toCollection())
	}
	return collections, nil
}

// FindByName looks a collection up by its unique display name.
func (g *GormStore) FindByName(ctx context.Context, name string) (market.Collection, error) {
	db, err := g.conn(ctx)
	if err != nil {
		return market.Collection{}, err
	}

	var rec CollectionRecord
	err = db.Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return market.Collection{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return market.Collection{}, fmt.Errorf("find collection %q: %w", name, err)
	}
	return rec.toCollection(), nil
}

// Create inserts a collection and returns its id.
func (g *GormStore) Create(ctx context.Context, c market.Collection) (int64, error) {
	db, err := g.conn(ctx)
	if err != nil {
		return 0, err
	}

	rec := recordFromCollection(c)
	rec.ID = 0
	if err := db.Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, c.Name)
		}
		return 0, fmt.Errorf("insert collection: %w", err)
	}
	return rec.ID, nil
}

// UpdateFloorPrice stores the last announced floor for a collection.
func (g *GormStore) UpdateFloorPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	db, err := g.conn(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&CollectionRecord{}).Where("id = ?", id).Updates(map[string]any{
		"last_floor_price": price.String(),
		"updated_at":       time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("update floor price: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// SeedFloorPrice stores price only while the collection has no floor yet.
func (g *GormStore) SeedFloorPrice(ctx context.Context, id int64, price decimal.Decimal) (bool, error) {
	db, err := g.conn(ctx)
	if err != nil {
		return false, err
	}

	res := db.Model(&CollectionRecord{}).
		Where("id = ? AND last_floor_price IS NULL", id).
		Updates(map[string]any{
			"last_floor_price": price.String(),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("seed floor price: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteByName removes collections with the given name and reports how many went.
func (g *GormStore) DeleteByName(ctx context.Context, name string) (int64, error) {
	db, err := g.conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Where("name = ?", name).Delete(&CollectionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete collection: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

var _ Backend = (*GormStore)(nil)
