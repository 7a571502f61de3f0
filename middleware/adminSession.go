package middleware

import (
	"net/http"

	"trinhnail/services/session"
	"trinhnail/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie carries the signed browser session id.
const SessionCookie = "trinh_session"

// SessionID returns the browser session id from the signed cookie.
func SessionID(c *gin.Context) (string, bool) {
	raw, err := c.Cookie(SessionCookie)
	if err != nil || raw == "" {
		return "", false
	}
	id, err := utils.ExtractIDFromToken(raw)
	if err != nil {
		return "", false
	}
	return id, true
}

// AdminSession rejects requests whose browser session has not logged in.
func AdminSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := SessionID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin login required"})
			return
		}

		authed, err := sessions.Get(id).IsAuthenticated(c.Request.Context())
		if err != nil {
			zap.L().Error("Failed to restore admin session", zap.String("sessionID", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Session unavailable"})
			return
		}
		if !authed {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin login required"})
			return
		}

		c.Set("sessionID", id)
		c.Next()
	}
}
