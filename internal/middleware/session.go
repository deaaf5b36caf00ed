package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie that carries the session id
const SessionCookieName = "session_id"

// SessionResolver resolves a session id to the user it belongs to
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (uuid.UUID, error)
}

// SessionRequired creates a middleware that requires a valid login session.
// It accepts requests whose session cookie resolves to a user and rejects
// everything else with 401.
func SessionRequired(store SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized. Please log in first."})
			c.Abort()
			return
		}

		userID, err := store.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized. Please log in first."})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
