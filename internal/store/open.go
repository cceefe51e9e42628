package store

import (
	"fmt"

	"github.com/hpungsan/jobdork/internal/config"
	"github.com/hpungsan/jobdork/internal/db"
)

// Open returns the backend selected by cfg.Store.
// The SQLite backend lives in baseDir; Redis uses cfg.RedisURL.
func Open(baseDir string, cfg *config.Config) (Store, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case config.StoreRedis:
		return NewRedis(cfg.RedisURL)
	case "", config.StoreSQLite:
		database, err := db.Init(baseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db.ConfigurePool(database, cfg)
		return NewSQLite(database), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
