package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vistara-fest/backend/internal/auth"
	"github.com/vistara-fest/backend/pkg/response"
)

const (
	// ContextRole is the key for the caller's role in gin context.
	ContextRole = "role"
	// ContextTokenID is the key for the session token id in gin context.
	ContextTokenID = "token_id"
)

// JWT returns a middleware that validates the Bearer token and sets the session claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Next()
	}
}
