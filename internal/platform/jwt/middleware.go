package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's ID.
	ContextUserID = "userID"
	// ContextToken is the gin context key holding the raw token of the request.
	ContextToken = "token"
	// CookieName is the cookie set on login.
	CookieName = "token"

	bearerPrefix = "Bearer "
)

// TokenVerifier validates a raw token.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// RevocationChecker reports whether a token has been revoked by logout.
type RevocationChecker interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
}

// ExtractToken prefers the login cookie and falls back to the bearer header.
func ExtractToken(c *gin.Context) string {
	if tok, err := c.Cookie(CookieName); err == nil && tok != "" {
		return tok
	}
	return BearerToken(c)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens,
// rejects revoked ones and restricts access to authenticated users only.
func AuthRequired(verifier TokenVerifier, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ExtractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		isRevoked, err := revoked.Contains(c.Request.Context(), tokenStr)
		if err != nil {
			slog.Error("blacklist lookup failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "failed to verify token"})
			return
		}
		if isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextToken, tokenStr)
		c.Next()
	}
}
