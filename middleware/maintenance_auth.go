package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaintenanceAuth checks the "Apikey <key>" Authorization header on maintenance endpoints.
func MaintenanceAuth(expectedAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Apikey" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format. Expected: 'Apikey API_KEY'",
			})
			c.Abort()
			return
		}

		if expectedAPIKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Maintenance API key not configured",
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expectedAPIKey)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API Key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
