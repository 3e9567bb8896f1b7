package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key under which Middleware stores the
// authenticated user id.
const ContextUserKey = "user_id"

// Middleware rejects requests without a valid Bearer token and stores the
// decoded user id in the request context.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := tm.Validate(bearerToken(c.GetHeader("Authorization")))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Middleware.
func UserID(c *gin.Context) string {
	if v, exists := c.Get(ContextUserKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
