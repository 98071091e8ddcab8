package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/db"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// OpenStore returns the user store selected by cfg.StoreDriver and a func
// releasing it. The postgres driver applies migrations when MigrateOnStart is set.
func OpenStore(ctx context.Context, cfg *Config, logger *slog.Logger) (users.Repository, func(), error) {
	if cfg.StoreDriver == StoreDriverMemory {
		logger.Warn("using in-memory user store; data is lost on exit")
		return users.NewMemoryRepository(), func() {}, nil
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{PingTimeout: 5 * time.Second})
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrateOnStart {
		if err := db.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database migrations applied")
	}
	return users.NewRepository(pool), pool.Close, nil
}
