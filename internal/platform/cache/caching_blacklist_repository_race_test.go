package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satark_backend/internal/feature/auth/domain/entity"
)

func newMiniredisRepo(t *testing.T, inner *mockBlacklistRepository) (*CachingBlacklistRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCachingBlacklistRepository(rdb, 30*time.Second, inner, "blacklist"), mr
}

// TestCachingBlacklistRepository_StaleMissDoesNotHideRevocation は
// ストア読み取り後に完了したAddの"1"を、古い"0"が上書きしないことを検証します。
func TestCachingBlacklistRepository_StaleMissDoesNotHideRevocation(t *testing.T) {
	ctx := context.Background()
	inner := &mockBlacklistRepository{}
	repo, mr := newMiniredisRepo(t, inner)

	// Logout lands between the store read and the cache write of this Contains.
	inner.containsFn = func(ctx context.Context, token string) (bool, error) {
		inner.containsFn = func(context.Context, string) (bool, error) { return true, nil }
		require.NoError(t, repo.Add(ctx, &entity.BlacklistedToken{Token: token, ExpiresAt: time.Now().Add(time.Hour)}))
		return false, nil
	}

	revoked, err := repo.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked, "first read observed the store before the revocation")

	v, err := mr.Get(repo.cacheKey("tok"))
	require.NoError(t, err)
	assert.Equal(t, revokedValue, v)

	revoked, err = repo.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

// TestCachingBlacklistRepository_RevocationReplacesCachedMiss はキャッシュ済みの"0"がAddで上書きされることを検証します。
func TestCachingBlacklistRepository_RevocationReplacesCachedMiss(t *testing.T) {
	ctx := context.Background()
	inner := &mockBlacklistRepository{}
	repo, mr := newMiniredisRepo(t, inner)

	revoked, err := repo.Contains(ctx, "tok")
	require.NoError(t, err)
	require.False(t, revoked)
	v, err := mr.Get(repo.cacheKey("tok"))
	require.NoError(t, err)
	require.Equal(t, notRevokedValue, v)
	assert.Equal(t, 30*time.Second, mr.TTL(repo.cacheKey("tok")))

	require.NoError(t, repo.Add(ctx, &entity.BlacklistedToken{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}))

	revoked, err = repo.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, inner.calls, "second read must be served from cache")
}
