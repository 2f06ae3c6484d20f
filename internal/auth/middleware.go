package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// RequireSession resolves the session cookie and aborts with 401 when no
// valid session exists. The session is stored on the gin context for
// downstream handlers.
func RequireSession(sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: missing session token"})
			c.Abort()
			return
		}

		sess := sessions.Get(token)
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireAdmin aborts with 403 for non-admin sessions. Must run after
// RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by RequireSession, or nil.
func CurrentSession(c *gin.Context) *Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil
	}
	return sess
}
