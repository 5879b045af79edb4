// Package storage selects and connects the repository backend named by
// STORAGE_DRIVER.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/container"
	"github.com/oksasatya/shopease-api/internal/infrastructure/memory"
	"github.com/oksasatya/shopease-api/internal/infrastructure/mongostore"
	"github.com/oksasatya/shopease-api/internal/infrastructure/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Backend is an opened storage backend. Sessions are left unset; they
// come from Redis or memory independently of the data store.
type Backend struct {
	Driver string
	Repos  container.Repositories
	Ping   container.HealthCheck
	Close  func()
}

// Open connects the configured driver. For postgres it also applies
// pending migrations when runMigrations is set.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, runMigrations bool) (*Backend, error) {
	switch cfg.StorageDriver {
	case DriverPostgres:
		return openPostgres(ctx, cfg, logger, runMigrations)
	case DriverMongo:
		return openMongo(ctx, cfg, logger)
	case DriverMemory:
		return OpenMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, runMigrations bool) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, err
	}
	if runMigrations {
		if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return &Backend{
		Driver: DriverPostgres,
		Repos: container.Repositories{
			Users:     postgres.NewUserRepository(pool),
			Items:     postgres.NewItemRepository(pool),
			Carts:     postgres.NewCartRepository(pool),
			Orders:    postgres.NewOrderRepository(pool),
			Favorites: postgres.NewFavoriteRepository(pool),
		},
		Ping:  pool.Ping,
		Close: pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Backend, error) {
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.WithField("db", cfg.MongoDB).Info("mongo indexes ensured")
	return &Backend{
		Driver: DriverMongo,
		Repos: container.Repositories{
			Users:     mongostore.NewUserRepository(db),
			Items:     mongostore.NewItemRepository(db),
			Carts:     mongostore.NewCartRepository(db),
			Orders:    mongostore.NewOrderRepository(client, db),
			Favorites: mongostore.NewFavoriteRepository(db),
		},
		Ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
		Close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

// OpenMemory returns a fresh process-local backend.
func OpenMemory() *Backend {
	s := memory.NewStore()
	return &Backend{
		Driver: DriverMemory,
		Repos: container.Repositories{
			Users:     memory.NewUserRepository(s),
			Items:     memory.NewItemRepository(s),
			Carts:     memory.NewCartRepository(s),
			Orders:    memory.NewOrderRepository(s),
			Favorites: memory.NewFavoriteRepository(s),
		},
		Ping:  func(context.Context) error { return nil },
		Close: func() {},
	}
}
