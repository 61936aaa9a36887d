// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"satark_backend/internal/feature/auth/domain/entity"
	"satark_backend/internal/feature/auth/usecase"
)

const (
	revokedValue    = "1"
	notRevokedValue = "0"
)

// CachingBlacklistRepository decorates a BlacklistRepository with Redis caching.
// Revoked tokens are cached until they expire; misses are cached for a short ttl
// so that every authenticated request does not hit the primary store.
type CachingBlacklistRepository struct {
	inner     usecase.BlacklistRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.BlacklistRepository = (*CachingBlacklistRepository)(nil)

// NewCachingBlacklistRepository decorates a BlacklistRepository with Redis caching.
// If ttl is 0, misses are cached for 30 seconds. If namespace is empty, it uses "blacklist".
func NewCachingBlacklistRepository(rdb *redis.Client, ttl time.Duration, inner usecase.BlacklistRepository, namespace string) *CachingBlacklistRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "blacklist"
	}
	return &CachingBlacklistRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Add stores the token in the primary store first, then marks it revoked in the cache.
func (c *CachingBlacklistRepository) Add(ctx context.Context, token *entity.BlacklistedToken) error {
	if err := c.inner.Add(ctx, token); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	now := c.now()
	if token.IsExpired(now) {
		// AuthRequired rejects it on signature expiry first
		return nil
	}

	ttl := TTLUntil(token.ExpiresAt, now)
	if err := c.rdb.Set(ctx, c.cacheKey(token.Token), revokedValue, ttl).Err(); err != nil {
		// a stale "0" entry expires after c.ttl, so this is only logged
		slog.Warn("failed to cache revoked token", "error", err)
	}
	return nil
}

// Contains checks the cache first, then falls back to the primary store.
func (c *CachingBlacklistRepository) Contains(ctx context.Context, token string) (bool, error) {
	if c.rdb == nil {
		return c.inner.Contains(ctx, token)
	}

	key := c.cacheKey(token)

	// 1) Check cache
	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && v == revokedValue:
		return true, nil
	case err == nil && v == notRevokedValue:
		return false, nil
	case err == nil:
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		slog.Warn("blacklist cache read failed", "error", err)
	}

	// 2) Fallback to primary store
	revoked, err := c.inner.Contains(ctx, token)
	if err != nil {
		return false, err
	}

	// 3) Store in cache (best effort). The negative entry uses SETNX so a
	// concurrent Add that already wrote "1" is never overwritten by this
	// possibly stale read.
	if revoked {
		_ = c.rdb.Set(ctx, key, revokedValue, entity.DefaultBlacklistTTL).Err()
	} else {
		_ = c.rdb.SetNX(ctx, key, notRevokedValue, c.ttl).Err()
	}

	return revoked, nil
}

// cacheKey hashes the token so raw credentials never appear in Redis keys.
func (c *CachingBlacklistRepository) cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}
