package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dayout/internal/config"
	"dayout/internal/infra"
	"dayout/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	providePlaceCache)

// provideDB returns nil when POSTGRES_URL is unset; the place cache then
// stays in memory.
func provideDB(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info("POSTGRES_URL not set, place cache is in-memory")
		return nil, nil
	}

	db, err := infra.InitPostgresql(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

func providePlaceCache(db *gorm.DB, cfg config.Config) repositories.PlaceCacheRepository {
	if db == nil {
		return repositories.NewMemoryPlaceCache(cfg.PlaceCacheTTL)
	}
	return repositories.NewPlaceCacheRepository(db, cfg.PlaceCacheTTL)
}
