package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ngo-site/internal/auth"
)

// ClaimsKey is the gin context key the guard stores decoded token claims under.
const ClaimsKey = "adminClaims"

// AdminKeyHeader is the legacy shared-secret header, kept for clients that
// predate token login.
const AdminKeyHeader = "x-admin-key"

// AdminGuard protects the admin write endpoints. A request passes if it
// carries the configured static admin key, or a valid bearer token issued by
// the auth service. Everything else gets a 401; clients treat that as
// "session expired" and clear their stored token.
func AdminGuard(authService *auth.Service, adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Static key wins first when one is configured
		if adminKey != "" {
			if provided := c.GetHeader(AdminKeyHeader); provided != "" && provided == adminKey {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, ok := authService.Validate(parts[1])
		if !ok {
			log.Println("Rejected invalid or expired admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
