// Package db はGORMによるリレーショナルDB接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"satark_backend/internal/feature/auth/domain/entity"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はPostgreSQLの接続パラメータです。
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Opener はDSNからGORMのDBを開く関数です。テストで差し替え可能です。
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig はドライバー固有のエラーを gorm.ErrDuplicatedKey などに変換します。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// BuildDSN はPostgreSQLのkey=value形式のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	parts := []string{
		"host=" + quote(cfg.Host),
		"port=" + quote(cfg.Port),
		"user=" + quote(cfg.User),
		"password=" + quote(cfg.Password),
		"dbname=" + quote(cfg.Name),
		"sslmode=" + quote(sslmode),
		"TimeZone=UTC",
	}
	return strings.Join(parts, " ")
}

// quote wraps values containing spaces or quotes as libpq expects.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// ConnectWithRetry はタイムアウトまでretryInterval間隔で接続を試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenPostgres はPostgreSQLへ接続します（pgxドライバー）。
func OpenPostgres(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	return ConnectWithRetry(BuildDSN(cfg), timeout, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), gormConfig())
	})
}

// OpenSQLite はSQLiteファイル（または":memory:"）を開きます。
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate はユーザーとブラックリストのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &entity.BlacklistedToken{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
