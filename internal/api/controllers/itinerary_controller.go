package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayout/internal/models/request_models"
	"dayout/internal/planner"
	"dayout/internal/services"
	"dayout/pkg/middleware"
	"dayout/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	log              *zap.Logger
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface, log *zap.Logger) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		log:              log,
	}
}

// POST /sessions
func (ic *ItineraryController) CreateSessionHandler(c *gin.Context) {
	created, err := ic.itineraryService.CreateSession(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, ic.log, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, created, "Session created")
}

// session returns the session resolved by SessionMiddleware. A route mounted
// without the middleware gets a 404 rather than a panic.
func (ic *ItineraryController) session(c *gin.Context) (*planner.Session, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		utils.HandleServiceError(c, ic.log, utils.ErrSessionNotFound)
	}
	return session, ok
}

// GET /sessions/current
func (ic *ItineraryController) GetSessionHandler(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, ic.itineraryService.GetSession(session), "Fetched session successfully")
}

// POST /sessions/current/itinerary
func (ic *ItineraryController) GenerateItineraryHandler(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}

	var req request_models.TripRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	snap, err := ic.itineraryService.GenerateItinerary(c.Request.Context(), session, req)
	if err != nil {
		utils.HandleServiceError(c, ic.log, err)
		return
	}
	utils.RespondSuccess(c, snap, "Itinerary generated successfully")
}

// POST /sessions/current/activities/:index/regenerate
func (ic *ItineraryController) RegenerateActivityHandler(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Activity index must be a number")
		return
	}

	regenerated, err := ic.itineraryService.RegenerateActivity(c.Request.Context(), session, index)
	if err != nil {
		utils.HandleServiceError(c, ic.log, err)
		return
	}
	utils.RespondSuccess(c, regenerated, "Activity regenerated successfully")
}

// POST /sessions/current/back
func (ic *ItineraryController) BackHandler(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, ic.itineraryService.Back(session), "Back to editing")
}

// POST /sessions/current/reset
func (ic *ItineraryController) ResetHandler(c *gin.Context) {
	session, ok := ic.session(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, ic.itineraryService.Reset(session), "Session reset")
}
