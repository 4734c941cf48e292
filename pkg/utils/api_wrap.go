package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps service errors onto HTTP responses. Validation
// messages are passed through; anything unexpected is logged and hidden.
func HandleServiceError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Missing or invalid session token")
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "Session not found or expired")
	case errors.Is(err, ErrIndexOutOfRange):
		RespondError(c, http.StatusNotFound, "Activity not found")
	case errors.Is(err, ErrPlaceNotFound):
		RespondError(c, http.StatusNotFound, "Place not found")
	case errors.Is(err, ErrNoItinerary):
		RespondError(c, http.StatusConflict, "There is no itinerary to regenerate")
	case errors.Is(err, ErrSlotBusy):
		RespondError(c, http.StatusConflict, "This activity is already being regenerated")
	case errors.Is(err, ErrGenerationInFlight):
		RespondError(c, http.StatusConflict, "Another request for this itinerary is still running")
	case errors.Is(err, ErrStaleResult):
		RespondError(c, http.StatusConflict, "The itinerary changed while the request was running")
	case errors.Is(err, ErrLLMUnavailable):
		log.Warn("language model call failed", zap.Error(err))
		RespondError(c, http.StatusBadGateway, "The planner is unavailable right now, please retry")
	case errors.Is(err, ErrUnexpectedBehaviorOfAI):
		RespondError(c, http.StatusBadGateway, "The planner returned an unusable answer, please retry")
	case errors.Is(err, ErrPlacesUnavailable):
		log.Warn("places call failed", zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Place lookup is unavailable right now, please retry")
	case errors.Is(err, ErrPlacesDisabled):
		RespondError(c, http.StatusServiceUnavailable, "Place lookup is not configured")
	case errors.Is(err, ErrDatabaseError):
		log.Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error("unhandled service error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
