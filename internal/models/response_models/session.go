package response_models

import "dayout/internal/planner"

type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type RegeneratedActivityResponse struct {
	Index    int              `json:"index"`
	Category string           `json:"category"`
	Activity planner.Activity `json:"activity"`
}
