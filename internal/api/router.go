package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayout/internal/api/controllers"
	mem "dayout/pkg/memcache"
	"dayout/pkg/middleware"
)

type RouterConfig struct {
	CORSOrigins   []string
	SessionSecret []byte
	TokenTTL      time.Duration
	Sessions      mem.SessionStore
	Limiter       *middleware.RateLimiter
	Log           *zap.Logger
}

func NewRouter(
	cfg RouterConfig,
	itineraryController *controllers.ItineraryController,
	placesController *controllers.PlacesController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	RegisterRoutes(r, cfg, itineraryController, placesController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg RouterConfig,
	itineraryController *controllers.ItineraryController,
	placesController *controllers.PlacesController) {

	r.GET("/health", controllers.HealthHandler)

	r.POST("/sessions", itineraryController.CreateSessionHandler)

	current := r.Group("/sessions/current")
	current.Use(middleware.SessionMiddleware(cfg.SessionSecret, cfg.TokenTTL, cfg.Sessions, cfg.Log))
	current.GET("", itineraryController.GetSessionHandler)
	current.POST("/itinerary", cfg.Limiter.Limit(), itineraryController.GenerateItineraryHandler)
	current.POST("/activities/:index/regenerate", cfg.Limiter.Limit(), itineraryController.RegenerateActivityHandler)
	current.POST("/back", itineraryController.BackHandler)
	current.POST("/reset", itineraryController.ResetHandler)

	// Lookups hit the paid Places API. Photos are only fetched for references
	// a lookup returned and are cached, so they ride on the lookup budget.
	placesGroup := r.Group("/places")
	placesGroup.GET("", cfg.Limiter.Limit(), placesController.LookupPlaceHandler)
	placesGroup.GET("/photo", placesController.PlacePhotoHandler)
}
