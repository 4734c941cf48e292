package places_fx

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"dayout/internal/config"
	"dayout/internal/repositories"
	"dayout/internal/services"
)

var Module = fx.Provide(
	providePlaceService)

func providePlaceService(cfg config.Config, cache repositories.PlaceCacheRepository, log *zap.Logger) (services.PlaceServiceInterface, error) {
	if cfg.GoogleMapsAPIKey == "" {
		log.Info("GOOGLE_MAPS_API_KEY not set, place lookup disabled")
		return services.NewPlaceService(nil, cache, cfg.PlaceCacheTTL, log), nil
	}

	client, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleMapsAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return services.NewPlaceService(client, cache, cfg.PlaceCacheTTL, log), nil
}
