package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/etaskify/server/internal/port/outbound"
	"github.com/etaskify/server/internal/shared/response"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
)

// Auth returns a middleware that resolves the bearer credential through the
// external identity resolver and stores the resulting user ID in the
// context. Requests without a credential, or with one the resolver rejects,
// are refused; a resolver outage maps to 503 so callers know to retry.
func Auth(resolver outbound.IdentityResolverPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := extractBearerToken(c)
		if credential == "" {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		userID, err := resolver.Validate(c.Request.Context(), credential)
		if err != nil {
			if errors.Is(err, outbound.ErrCollaboratorUnavailable) {
				response.ServiceUnavailable(c, "identity resolver unavailable")
			} else {
				response.Unauthorized(c, "invalid credential")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}

	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimPrefix(authHeader, BearerPrefix)
	}

	return ""
}

// GetUserID returns the authenticated user ID from context.
// Returns 0 if not found.
func GetUserID(c *gin.Context) int64 {
	if val, exists := c.Get(UserIDKey); exists {
		if userID, ok := val.(int64); ok {
			return userID
		}
	}
	return 0
}
