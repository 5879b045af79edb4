package container

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router wires modules from these singletons.

// Repositories is the storage backend selected at startup.
type Repositories struct {
	Users     repository.UserRepository
	Items     repository.ItemRepository
	Carts     repository.CartRepository
	Orders    repository.OrderRepository
	Favorites repository.FavoriteRepository
	Sessions  repository.SessionStore
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

var (
	cfg         *config.Config
	logger      *logrus.Logger
	repos       Repositories
	redisClient redis.UniversalClient
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client

	healthChecks = map[string]HealthCheck{}
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return logger
}
func SetRepositories(r Repositories) { repos = r }
func GetRepositories() Repositories  { return repos }

// SetRedis accepts nil to run sessions and rate limits in process.
func SetRedis(r redis.UniversalClient) { redisClient = r }
func GetRedis() redis.UniversalClient  { return redisClient }
func SetGCS(s *storage.Client)         { gcsClient = s }
func GetGCS() *storage.Client          { return gcsClient }
func SetJWT(m *helpers.JWTManager)     { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		jwtManager = helpers.DefaultJWT()
	}
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.SessionTTL)
	}
	return jwtManager
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func AddHealthCheck(name string, fn HealthCheck) { healthChecks[name] = fn }
func GetHealthChecks() map[string]HealthCheck    { return healthChecks }

// Reset clears every singleton. Used by tests between suites.
func Reset() {
	cfg, logger = nil, nil
	repos = Repositories{}
	redisClient, gcsClient, jwtManager = nil, nil, nil
	rabbitPub, esClient = nil, nil
	healthChecks = map[string]HealthCheck{}
}
