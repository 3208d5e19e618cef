package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub/internal/token"
)

const (
	ctxUsername = "username"
	ctxUserID   = "userID"
)

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth guards protected routes. It is the only place request identity
// comes from: any missing or unverifiable token ends the request with 401.
func requireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ctxUsername, claims.Username)
		c.Set(ctxUserID, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "Unauthorized")
	c.Abort()
}
