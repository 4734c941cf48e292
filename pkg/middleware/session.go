package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayout/internal/planner"
	mem "dayout/pkg/memcache"
	"dayout/pkg/utils"
)

const (
	sessionKey = "session"

	// SessionTokenHeader carries a re-signed token on every authenticated
	// response. The store expiry slides on each request, so the token does too.
	SessionTokenHeader = "X-Session-Token"
)

// SessionMiddleware resolves the bearer session token to a live session.
func SessionMiddleware(secret []byte, tokenTTL time.Duration, store mem.SessionStore, log *zap.Logger) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		sessionID, err := utils.ValidateSessionToken(secret, tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		session, err := store.Get(sessionID)
		if err != nil {
			utils.RespondError(c, http.StatusNotFound, "Session not found or expired")
			c.Abort()
			return
		}

		if refreshed, err := utils.CreateSessionToken(secret, sessionID, tokenTTL); err != nil {
			log.Warn("refresh session token", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			c.Header(SessionTokenHeader, refreshed)
		}

		c.Set("session_id", sessionID)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c *gin.Context) (*planner.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*planner.Session)
	return s, ok
}
