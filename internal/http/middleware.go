package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-listing-go/internal/auth"
)

const claimsKey = "claims"

// AdminOnly admits requests bearing a valid admin token. Every rejection
// looks the same to the caller.
func AdminOnly(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			unauthorized(c)
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil || claims.Role != auth.RoleAdmin {
			unauthorized(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
}
