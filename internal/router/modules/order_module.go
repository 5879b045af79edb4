package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/shopease-api/internal/interface/http"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	Auth    middleware.Authenticator
	Redis   redis.UniversalClient
}

func NewOrderModule(h *handlers.OrderHandler, auth middleware.Authenticator, rdb redis.UniversalClient) *OrderModule {
	return &OrderModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", append(protected(m.Auth, m.Redis), m.Handler.Create)...)
	orders.GET("/my", append(protected(m.Auth, m.Redis), m.Handler.ListMine)...)
	orders.GET("/:id", append(protected(m.Auth, m.Redis), m.Handler.Get)...)
	orders.POST("/:id/cancel", append(protected(m.Auth, m.Redis), m.Handler.Cancel)...)

	orders.GET("", append(admin(m.Auth, m.Redis), m.Handler.ListAll)...)
	orders.PATCH("/:id/status", append(admin(m.Auth, m.Redis), m.Handler.UpdateStatus)...)
}
