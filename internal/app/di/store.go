// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"gorm.io/gorm"

	authadapters "satark_backend/internal/feature/auth/adapters"
	"satark_backend/internal/feature/auth/usecase"
	"satark_backend/internal/platform/config"
	"satark_backend/internal/platform/db"
	healthhandler "satark_backend/internal/platform/http/handler"
	"satark_backend/internal/platform/janitor"
	platformmongo "satark_backend/internal/platform/mongo"
)

// blacklistStore is what every primary store offers for revoked tokens.
type blacklistStore interface {
	usecase.BlacklistRepository
	janitor.Purger
}

// Stores bundles the repositories of the selected STORE_DRIVER.
type Stores struct {
	Users     usecase.UserRepository
	Blacklist blacklistStore
	// Check probes the primary store for /healthz.
	Check healthhandler.Check
	Close func(ctx context.Context) error
}

// NewStores opens the store selected by cfg.StoreDriver.
func NewStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		gdb, err := db.OpenSQLite(cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		return newGormStores(gdb, cfg.DB.RunMigrations)
	case config.StorePostgres:
		gdb, err := db.OpenPostgres(db.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Name:     cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}, cfg.DB.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return newGormStores(gdb, cfg.DB.RunMigrations)
	case config.StoreMongo:
		client, err := platformmongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return newMongoStores(ctx, client, cfg.Mongo.Database)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}
}

// NewGormStores builds repositories on an already opened GORM database.
func NewGormStores(gdb *gorm.DB) (*Stores, error) {
	return newGormStores(gdb, true)
}

func newGormStores(gdb *gorm.DB, migrate bool) (*Stores, error) {
	if migrate {
		if err := db.Migrate(gdb); err != nil {
			return nil, err
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	slog.Info("relational store ready", "dialect", gdb.Dialector.Name())
	return &Stores{
		Users:     authadapters.NewUserGorm(gdb),
		Blacklist: authadapters.NewBlacklistGorm(gdb),
		Check: healthhandler.Check{
			Name:     "database",
			Required: true,
			Probe:    sqlDB.PingContext,
		},
		Close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func newMongoStores(ctx context.Context, client *mongo.Client, database string) (*Stores, error) {
	mdb := client.Database(database)
	users := authadapters.NewUserMongo(mdb)
	blacklist := authadapters.NewBlacklistMongo(mdb)

	if err := errors.Join(users.EnsureIndexes(ctx), blacklist.EnsureIndexes(ctx)); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	slog.Info("document store ready", "database", database)
	return &Stores{
		Users:     users,
		Blacklist: blacklist,
		Check: healthhandler.Check{
			Name:     "database",
			Required: true,
			Probe: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
		},
		Close: client.Disconnect,
	}, nil
}
