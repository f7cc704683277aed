package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendly/utils"
)

// JWTAuthProviderMiddleware validates the provider JWT and pins the request
// to the token's provider: a provider can only manage its own resources.
func JWTAuthProviderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		providerID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || providerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if routeID := c.Param("providerId"); routeID != "" && routeID != providerID {
			zap.L().Warn("provider token does not match route",
				zap.String("token_provider", providerID), zap.String("route_provider", routeID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token does not match provider"})
			return
		}

		c.Set("providerID", providerID)
		c.Next()
	}
}
