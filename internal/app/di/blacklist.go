package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"satark_backend/internal/feature/auth/usecase"
	"satark_backend/internal/platform/cache"
)

// NewBlacklistRepository wraps the store-backed blacklist with a Redis cache
// when Redis is available. Otherwise, it returns the store as is.
func NewBlacklistRepository(rdb *redis.Client, missTTL time.Duration, store usecase.BlacklistRepository) usecase.BlacklistRepository {
	if rdb != nil {
		return cache.NewCachingBlacklistRepository(rdb, missTTL, store, "blacklist")
	}
	return store
}
