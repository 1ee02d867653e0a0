package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated user's id. The typed key avoids
// collisions with other context values.
const userIDKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user id set by AuthMiddleware.
// It checks the gin context first and falls back to the request context, so
// code that only sees a context.Context still finds it.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok
	}
	return "", false
}
