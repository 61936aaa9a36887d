package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"satark_backend/internal/app/router"
	authhandler "satark_backend/internal/feature/auth/transport/handler"
	authusecase "satark_backend/internal/feature/auth/usecase"
	guardadapters "satark_backend/internal/feature/routeguard/adapters"
	guard "satark_backend/internal/feature/routeguard/transport"
	"satark_backend/internal/platform/config"
	healthhandler "satark_backend/internal/platform/http/handler"
	jwtmw "satark_backend/internal/platform/jwt"
)

// NewEngine wires usecases, handlers and middleware on top of the opened stores.
// rdb may be nil, in which case the blacklist is not cached.
func NewEngine(cfg *config.Config, stores *Stores, rdb *redis.Client) *gin.Engine {
	tokens := jwtmw.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	blacklist := NewBlacklistRepository(rdb, cfg.Redis.MissTTL, stores.Blacklist)

	authUC := authusecase.NewAuthUsecase(stores.Users, blacklist, tokens)
	authH := authhandler.NewAuthHandler(authUC, authhandler.CookieOptions{
		MaxAge: tokens.Expiration(),
		Secure: cfg.CookieSecure,
	})

	checks := []healthhandler.Check{stores.Check}
	if rdb != nil {
		checks = append(checks, healthhandler.Check{
			Name: "cache",
			Probe: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		})
	}

	return router.NewRouter(router.Deps{
		Auth:               authH,
		AuthRequired:       jwtmw.AuthRequired(tokens, blacklist),
		Protected:          guard.Protected(guardadapters.NewTokenResolver(tokens, blacklist), cfg.LoginPath),
		Health:             healthhandler.NewHealth(checks...),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
}
