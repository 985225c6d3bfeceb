package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionKeyHeader  = "X-Session-Key"
	SessionContextKey = "session_key"
)

// SessionMiddleware ensures every request has a session key. A client that
// sends none gets a fresh key echoed back in the response header and must
// carry it on subsequent requests; cart and guest favorites hang off it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(SessionKeyHeader)
		if key == "" {
			key = uuid.NewString()
		}

		c.Set(SessionContextKey, key)
		c.Header(SessionKeyHeader, key)
		c.Next()
	}
}

// GetSessionKey retrieves the session key from the Gin context
func GetSessionKey(c *gin.Context) string {
	key, _ := c.Get(SessionContextKey)
	s, _ := key.(string)
	return s
}
