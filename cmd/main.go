package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/container"
	"github.com/oksasatya/shopease-api/internal/infrastructure/elastic"
	"github.com/oksasatya/shopease-api/internal/infrastructure/memory"
	"github.com/oksasatya/shopease-api/internal/infrastructure/redisstore"
	"github.com/oksasatya/shopease-api/internal/infrastructure/storage"
	"github.com/oksasatya/shopease-api/internal/router"
	"github.com/oksasatya/shopease-api/internal/seed"
	"github.com/oksasatya/shopease-api/pkg/helpers"
	"github.com/oksasatya/shopease-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg, logger, true)
	if err != nil {
		logger.Fatalf("failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer backend.Close()
	repos := backend.Repos
	container.AddHealthCheck(backend.Driver, backend.Ping)

	// Sessions and rate limits live in Redis when configured, in process otherwise
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		container.SetRedis(rdb)
		container.AddHealthCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		repos.Sessions = redisstore.NewSessionStore(rdb)
	} else {
		logger.Warn("REDIS_ADDR empty; sessions and rate limits are process-local")
		repos.Sessions = memory.NewSessionStore()
	}

	if backend.Driver == storage.DriverMemory {
		seedMemory(ctx, cfg, repos, logger)
	}

	// Optional integrations
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		if err := elastic.NewItemIndex(es, cfg.ESItemsIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; search falls back to substring match")
		}
		container.SetES(es)
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; email notifications disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Provide singletons to container for registry wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRepositories(repos)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))

	r := router.NewEngine()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithField("storage", backend.Driver).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// seedMemory gives a memory-backed server the starter catalog and admin,
// since nothing survives a restart.
func seedMemory(ctx context.Context, cfg *config.Config, repos container.Repositories, logger logrus.FieldLogger) {
	if _, err := seed.Items(ctx, repos.Items, logger); err != nil {
		logger.WithError(err).Warn("seed catalog failed")
	}
	admin := seed.Admin{Username: cfg.SeedAdminUsername, Password: cfg.SeedAdminPassword, Email: cfg.SeedAdminEmail}
	if _, err := seed.AdminUser(ctx, repos.Users, admin, logger); err != nil {
		logger.WithError(err).Warn("seed admin failed")
	}
}
