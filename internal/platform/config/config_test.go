package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults は環境変数が未設定の場合にデフォルト値が使われることを検証します。
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 30*time.Second, cfg.Redis.MissTTL)
	assert.Equal(t, time.Hour, cfg.JanitorInterval)
	assert.Empty(t, cfg.Redis.Addr)
}

// TestLoad_FromEnv は環境変数の値が反映されることを検証します。
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "db", cfg.DB.Host)
	assert.Equal(t, "app", cfg.DB.User)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

// TestLoad_DotEnvFile は.envファイルから値が読み込まれることを検証します。
func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("STORE_DRIVER", "")
	// godotenv does not override variables that are already set
	require.NoError(t, os.Unsetenv("MONGO_DATABASE"))
	t.Cleanup(func() { _ = os.Unsetenv("MONGO_DATABASE") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DATABASE=fromfile\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Mongo.Database)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "release without secret",
			cfg:     Config{GinMode: "release", StoreDriver: StoreSQLite, JWTTTL: time.Hour},
			wantErr: ErrMissingJWTSecret,
		},
		{
			name:    "unknown driver",
			cfg:     Config{StoreDriver: "mysql", JWTSecret: "s", JWTTTL: time.Hour},
			wantErr: ErrUnknownStoreDriver,
		},
		{
			name: "mongo ok",
			cfg:  Config{StoreDriver: StoreMongo, JWTSecret: "s", JWTTTL: time.Hour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("non-positive ttl", func(t *testing.T) {
		cfg := Config{StoreDriver: StoreSQLite, JWTSecret: "s"}
		assert.Error(t, cfg.Validate())
	})
}
