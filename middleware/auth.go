package middleware

import (
	"context"
	"net/http"
	"strings"

	"suarec/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JWTAuthMiddleware authenticates requests with a Bearer token. The token must
// carry a valid signature and its hash must still be present in the auth cache
// (absence means it expired or was revoked). On success the user's ID and
// normalized roles are placed on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		cacheKey := "auth:" + userID + ":" + utils.HashToken(tokenString)
		authCache := utils.GetAuthCacheClient()

		ctx := context.Background()
		if _, err := authCache.Get(ctx, cacheKey).Result(); err != nil {
			if err != redis.Nil {
				utils.GetLogger().Warn("auth cache lookup failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired or revoked"})
			return
		}

		roles, err := utils.ExtractRolesFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set("userID", userID)
		c.Set("roles", roles)
		c.Next()
	}
}

// UserID returns the authenticated user id placed on the context by
// JWTAuthMiddleware, or empty when the request is unauthenticated.
func UserID(c *gin.Context) string {
	v, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}
