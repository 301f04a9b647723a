package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "auth.user_id"
	ContextClaimsKey = "auth.claims"
)

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, issuer) {
			c.Next()
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if authenticate(c, issuer) {
			c.Next()
		}
	}
}

func authenticate(c *gin.Context, issuer *TokenIssuer) bool {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthorized(c, "missing authorization header")
		return false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		abortUnauthorized(c, "invalid authorization header")
		return false
	}
	claims, err := issuer.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		abortUnauthorized(c, "invalid or expired token")
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		abortUnauthorized(c, "invalid or expired token")
		return false
	}
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextClaimsKey, claims)
	return true
}

func UserIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// RoleFromContext returns the caller's role, or "" for anonymous requests.
func RoleFromContext(c *gin.Context) string {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return ""
	}
	claims, ok := value.(*Claims)
	if !ok {
		return ""
	}
	return claims.Role
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
