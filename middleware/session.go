package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tieubaoca/doc2cal/utils"
)

const (
	SessionCookieName = "doc2cal_session"
	sessionContextKey = "session_id"
)

// Session makes sure every request carries a signed session id, issuing a
// new cookie when the current one is absent or invalid.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookieName); err == nil {
			if claims, err := utils.ParseSessionToken(raw, secret); err == nil {
				c.Set(sessionContextKey, claims.SessionID)
				c.Next()
				return
			}
		}

		sessionID := uuid.NewString()
		token, err := utils.GenerateSessionToken(sessionID, secret, ttl)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", false, true)
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
