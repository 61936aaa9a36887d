// Package adapters resolves a request token into a route guard status.
package adapters

import (
	"context"
	"log/slog"

	"satark_backend/internal/feature/routeguard/domain"
	jwtmw "satark_backend/internal/platform/jwt"
)

// Resolution is the outcome of resolving a token.
type Resolution struct {
	Status domain.Status
	UserID string
}

// TokenResolver checks signature, expiry and revocation of a token.
type TokenResolver struct {
	verifier jwtmw.TokenVerifier
	revoked  jwtmw.RevocationChecker
}

// NewTokenResolver creates a TokenResolver.
func NewTokenResolver(verifier jwtmw.TokenVerifier, revoked jwtmw.RevocationChecker) *TokenResolver {
	return &TokenResolver{verifier: verifier, revoked: revoked}
}

// Resolve returns StatusUnknown when the revocation store cannot answer,
// so the guard shows the loading page instead of a wrong redirect.
func (r *TokenResolver) Resolve(ctx context.Context, token string) Resolution {
	if token == "" {
		return Resolution{Status: domain.StatusUnauthenticated}
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		return Resolution{Status: domain.StatusUnauthenticated}
	}

	revoked, err := r.revoked.Contains(ctx, token)
	if err != nil {
		slog.Warn("route guard: revocation lookup failed", "error", err)
		return Resolution{Status: domain.StatusUnknown}
	}
	if revoked {
		return Resolution{Status: domain.StatusUnauthenticated}
	}
	return Resolution{Status: domain.StatusAuthenticated, UserID: claims.Subject}
}
