package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayout/internal/models/request_models"
	"dayout/internal/services"
	"dayout/pkg/utils"
)

type PlacesController struct {
	placeService services.PlaceServiceInterface
	log          *zap.Logger
}

func NewPlacesController(placeService services.PlaceServiceInterface, log *zap.Logger) *PlacesController {
	return &PlacesController{
		placeService: placeService,
		log:          log,
	}
}

// GET /places?name=&location=
func (pc *PlacesController) LookupPlaceHandler(c *gin.Context) {
	var q request_models.PlaceLookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "name is required")
		return
	}

	place, err := pc.placeService.Lookup(c.Request.Context(), q.Name, q.Location)
	if err != nil {
		utils.HandleServiceError(c, pc.log, err)
		return
	}
	utils.RespondSuccess(c, place, "Fetched place successfully")
}

// GET /places/photo?ref=
func (pc *PlacesController) PlacePhotoHandler(c *gin.Context) {
	photo, err := pc.placeService.Photo(c.Request.Context(), c.Query("ref"))
	if err != nil {
		utils.HandleServiceError(c, pc.log, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}

// GET /health
func HealthHandler(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
