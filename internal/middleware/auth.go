package middleware

import (
	"net/http"
	"strings"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey = "userID"
	ctxRoleKey   = "role"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity on the request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)

		// Logging downstream picks the user id up from the request context.
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleStr, exists := c.Get(ctxRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}
		role, ok := roleStr.(string)
		if !ok || !roleSet[models.UserRole(role)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller's id, or "".
func GetUserID(c *gin.Context) string {
	val, exists := c.Get(ctxUserIDKey)
	if !exists {
		return ""
	}
	id, _ := val.(string)
	return id
}

// GetRole returns the authenticated caller's role.
func GetRole(c *gin.Context) models.UserRole {
	val, exists := c.Get(ctxRoleKey)
	if !exists {
		return ""
	}
	role, _ := val.(string)
	return models.UserRole(role)
}
