// Package transport exposes the route guard as gin middleware.
package transport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"satark_backend/internal/feature/routeguard/adapters"
	"satark_backend/internal/feature/routeguard/domain"
	jwtmw "satark_backend/internal/platform/jwt"
)

// retryAfterSeconds is how soon the loading page asks the browser to reload.
const retryAfterSeconds = "2"

const loadingPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Loading</title></head>
<body><p>Loading...</p></body></html>`

// StatusResolver derives the authentication status from a raw token.
type StatusResolver interface {
	Resolve(ctx context.Context, token string) adapters.Resolution
}

// Protected renders exactly one of: the loading page, a redirect to loginPath,
// or the wrapped handlers.
func Protected(resolver StatusResolver, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := resolver.Resolve(c.Request.Context(), jwtmw.ExtractToken(c))

		switch domain.Decide(res.Status) {
		case domain.OutcomeContent:
			c.Set(jwtmw.ContextUserID, res.UserID)
			c.Next()
		case domain.OutcomeRedirect:
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
		default:
			c.Header("Cache-Control", "no-store")
			c.Header("Refresh", retryAfterSeconds)
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loadingPage))
			c.Abort()
		}
	}
}

// Home is the protected landing page mounted behind Protected.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome", "userID": c.GetString(jwtmw.ContextUserID)})
}
