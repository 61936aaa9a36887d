// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StoreDriver はユーザーとブラックリストの保存先を表します。
type StoreDriver string

const (
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
	StoreMongo    StoreDriver = "mongo"
)

var (
	// ErrMissingJWTSecret is returned when release mode runs without a signing secret.
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required in release mode")
	// ErrUnknownStoreDriver is returned for an unsupported STORE_DRIVER value.
	ErrUnknownStoreDriver = errors.New("unknown STORE_DRIVER")
)

// devJWTSecret is only used outside release mode when JWT_SECRET is unset.
const devJWTSecret = "dev-insecure-secret"

// DBConfig はリレーショナルDBの接続設定です。
type DBConfig struct {
	Host           string        `env:"DB_HOST" envDefault:"localhost"`
	Port           string        `env:"DB_PORT" envDefault:"5432"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME"`
	SSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"satark.db"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// MongoConfig はMongoDBの接続設定です。
type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"satark"`
}

// RedisConfig はRedisの接続設定です。Addrが空の場合キャッシュは無効です。
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	MissTTL  time.Duration `env:"REDIS_BLACKLIST_MISS_TTL" envDefault:"30s"`
}

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// CORS許可オリジン（カンマ区切り）
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// 認証設定
	JWTSecret    string        `env:"JWT_SECRET"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	LoginPath    string        `env:"LOGIN_PATH" envDefault:"/login"`

	// 保存先
	StoreDriver StoreDriver `env:"STORE_DRIVER" envDefault:"sqlite"`
	DB          DBConfig
	Mongo       MongoConfig
	Redis       RedisConfig

	// ブラックリストの期限切れ行を削除する間隔（0で無効）
	JanitorInterval time.Duration `env:"BLACKLIST_JANITOR_INTERVAL" envDefault:"1h"`

	// ログ設定
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load は .env ファイル（存在する場合）と環境変数から設定を読み込みます。
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// 存在しないファイルはスキップ
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Validate checks cross-field rules and fills development defaults.
func (c *Config) Validate() error {
	c.StoreDriver = StoreDriver(strings.ToLower(string(c.StoreDriver)))
	switch c.StoreDriver {
	case StoreSQLite, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}

	if c.JWTSecret == "" {
		if c.IsRelease() {
			return ErrMissingJWTSecret
		}
		c.JWTSecret = devJWTSecret
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	return nil
}
