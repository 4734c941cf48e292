package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrSessionNotFound        = errors.New("session not found")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrLLMUnavailable         = errors.New("language model unavailable")
	ErrNoItinerary            = errors.New("no itinerary to regenerate")
	ErrIndexOutOfRange        = errors.New("activity index out of range")
	ErrSlotBusy               = errors.New("activity is already being regenerated")
	ErrGenerationInFlight     = errors.New("itinerary generation already in progress")
	ErrStaleResult            = errors.New("session changed while the request was in flight")
	ErrPlacesDisabled         = errors.New("place lookup is not configured")
	ErrPlaceNotFound          = errors.New("place not found")
	ErrPlacesUnavailable      = errors.New("place lookup failed upstream")
	ErrDatabaseError          = errors.New("database error")
	ErrUnauthorized           = errors.New("missing or invalid session token")
)
