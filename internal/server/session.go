package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "casino_session"
	sessionCookieAge  = 30 * 24 * 60 * 60 // seconds
	userIDKey         = "user_id"
)

// sessionMiddleware supplies a stable anonymous user id per browser. This
// is the identity collaborator the engine trusts; it is not
// authentication.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := c.Cookie(sessionCookieName)
		if err != nil || userID == "" {
			userID = uuid.New().String()
			c.SetCookie(sessionCookieName, userID, sessionCookieAge, "/", "", false, true)
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
