package bootstrap

import (
	"context"
	"fmt"

	"github.com/artpar/themedesigner/adapters/cache"
	"github.com/artpar/themedesigner/adapters/memory"
	"github.com/artpar/themedesigner/adapters/postgres"
	"github.com/artpar/themedesigner/adapters/sqlite"
	"github.com/artpar/themedesigner/config"
	"github.com/artpar/themedesigner/ports"
)

// Stores holds the storage backends selected by database.driver.
type Stores struct {
	Meta     ports.MetaStore
	Settings ports.SettingsStore
	Pinger   ports.Pinger

	close func() error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores opens the configured database and prepares its schema. A
// positive cache_size puts an LRU cache in front of the meta store.
func OpenStores(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	stores, err := openStores(ctx, cfg)
	if err != nil || cfg.CacheSize <= 0 {
		return stores, err
	}

	cached, err := cache.NewMetaStore(stores.Meta, cfg.CacheSize)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("meta cache: %w", err)
	}
	stores.Meta = cached
	return stores, nil
}

func openStores(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	switch cfg.Driver {
	case "memory":
		settingsStore := memory.NewSettingsStore()
		return &Stores{
			Meta:     memory.NewMetaStore(),
			Settings: settingsStore,
			Pinger:   settingsStore,
		}, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return &Stores{
			Meta:     postgres.NewMetaStore(db),
			Settings: postgres.NewSettingsStore(db),
			Pinger:   db,
			close:    db.Close,
		}, nil

	case "sqlite", "":
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return &Stores{
			Meta:     sqlite.NewMetaStore(db),
			Settings: sqlite.NewSettingsStore(db),
			Pinger:   db,
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
