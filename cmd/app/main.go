package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"dayout/cmd/fx/config_fx"
	"dayout/cmd/fx/controllers_fx"
	"dayout/cmd/fx/db_fx"
	"dayout/cmd/fx/itinerary_fx"
	"dayout/cmd/fx/memcache_fx"
	"dayout/cmd/fx/places_fx"
	"dayout/cmd/fx/prompt_fx"
	"dayout/internal/api"
	"dayout/internal/api/controllers"
	"dayout/internal/config"
	mem "dayout/pkg/memcache"
	"dayout/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		prompt_fx.Module,
		itinerary_fx.Module,
		places_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			defer logger.Sync() //nolint:errcheck
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	sessions mem.SessionStore,
	logger *zap.Logger,
	itineraryController *controllers.ItineraryController,
	placesController *controllers.PlacesController) *gin.Engine {

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	return api.NewRouter(api.RouterConfig{
		CORSOrigins:   cfg.CORSOrigins,
		SessionSecret: []byte(cfg.Session.Secret),
		TokenTTL:      cfg.Session.TTL,
		Sessions:      sessions,
		Limiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Log:           logger,
	}, itineraryController, placesController)
}
