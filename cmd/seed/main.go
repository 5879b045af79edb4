package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/infrastructure/elastic"
	"github.com/oksasatya/shopease-api/internal/infrastructure/storage"
	"github.com/oksasatya/shopease-api/internal/seed"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if cfg.StorageDriver == storage.DriverMemory {
		logger.Fatal("memory storage is seeded by the server at startup; nothing to do")
	}

	backend, err := storage.Open(ctx, cfg, logger, true)
	if err != nil {
		logger.Fatalf("failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer backend.Close()

	n, err := seed.Items(ctx, backend.Repos.Items, logger)
	if err != nil {
		logger.Fatalf("failed to seed items: %v", err)
	}

	admin := seed.Admin{Username: cfg.SeedAdminUsername, Password: cfg.SeedAdminPassword, Email: cfg.SeedAdminEmail}
	u, err := seed.AdminUser(ctx, backend.Repos.Users, admin, logger)
	if err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	if u != nil {
		logger.WithField("id", u.ID).Infof("admin ready: username=%s", u.Username)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		index := elastic.NewItemIndex(es, cfg.ESItemsIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			logger.Fatalf("failed to ensure index: %v", err)
		}
		indexed, err := seed.Reindex(ctx, backend.Repos.Items, index)
		if err != nil {
			logger.Fatalf("failed to reindex items: %v", err)
		}
		logger.WithField("indexed", indexed).Info("search index rebuilt")
	}
	logger.WithField("created", n).Info("seed complete")
}
