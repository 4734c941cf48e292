package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dayout/internal/config"
	"dayout/internal/planner"
	"dayout/internal/services"
	mem "dayout/pkg/memcache"
	"dayout/pkg/utils"
)

var Module = fx.Provide(
	provideSessionOptions,
	provideItineraryService)

func provideSessionOptions(cfg config.Config) planner.SessionOptions {
	return planner.SessionOptions{
		Model:                 cfg.LLM.Model,
		MaxTokens:             cfg.LLM.MaxTokens,
		FullTemperature:       cfg.LLM.FullTemperature,
		RegenerateTemperature: cfg.LLM.RegenerateTemperature,
		CallTimeout:           cfg.LLM.Timeout,
		ClearUsedNamesOnBack:  cfg.Session.ClearUsedNamesOnBack,
		SupplementRounds:      cfg.Session.SupplementRounds,
	}
}

func provideItineraryService(
	store mem.SessionStore,
	chat utils.ChatClientInterface,
	opts planner.SessionOptions,
	cfg config.Config,
	log *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(store, chat, opts, []byte(cfg.Session.Secret), cfg.Session.TTL, log)
}
