package router

import (
	"context"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/container"
	"github.com/oksasatya/shopease-api/internal/infrastructure/elastic"
	"github.com/oksasatya/shopease-api/internal/infrastructure/notify"
	handlers "github.com/oksasatya/shopease-api/internal/interface/http"
	"github.com/oksasatya/shopease-api/internal/router/modules"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

// Services groups the application layer built from the container.
type Services struct {
	Auth      *app.AuthService
	Catalog   *app.CatalogService
	Carts     *app.CartService
	Orders    *app.OrderService
	Favorites *app.FavoriteService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()

	var notifier app.Notifier
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		notifier = notify.NewEmailNotifier(pub, cfg)
	}

	var index app.ItemIndexer
	if es := container.GetES(); es != nil {
		index = elastic.NewItemIndex(es, cfg.ESItemsIndex)
	}

	var uploader app.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}

	return Services{
		Auth:      app.NewAuthService(repos.Users, repos.Sessions, container.GetJWT(), notifier, logger),
		Catalog:   app.NewCatalogService(repos.Items, index, uploader, logger),
		Carts:     app.NewCartService(repos.Carts, repos.Items, logger),
		Orders:    app.NewOrderService(repos.Orders, repos.Users, notifier, logger),
		Favorites: app.NewFavoriteService(repos.Favorites, repos.Items),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	svc := buildServices()

	checks := map[string]handlers.Pinger{}
	for name, fn := range container.GetHealthChecks() {
		checks[name] = func(ctx context.Context) error { return fn(ctx) }
	}

	r.Add(
		modules.NewHealthModule(handlers.NewHealthHandler(checks)),
		modules.NewUserModule(handlers.NewUserHandler(svc.Auth, svc.Favorites, logger), svc.Auth, rdb),
		modules.NewItemModule(handlers.NewItemHandler(svc.Catalog, logger), svc.Auth, rdb),
		modules.NewCartModule(handlers.NewCartHandler(svc.Carts, logger), svc.Auth, rdb),
		modules.NewOrderModule(handlers.NewOrderHandler(svc.Orders, logger), svc.Auth, rdb),
		modules.NewDebugModule(cfg.DebugMetricsEnabled, rdb),
	)
}
