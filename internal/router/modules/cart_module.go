package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/shopease-api/internal/interface/http"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

type CartModule struct {
	Handler *handlers.CartHandler
	Auth    middleware.Authenticator
	Redis   redis.UniversalClient
}

func NewCartModule(h *handlers.CartHandler, auth middleware.Authenticator, rdb redis.UniversalClient) *CartModule {
	return &CartModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	carts.Use(protected(m.Auth, m.Redis)...)
	{
		carts.GET("/my", m.Handler.GetMine)
		carts.POST("", m.Handler.Add)
		carts.DELETE("/my", m.Handler.Clear)
		carts.PUT("/items/:id", m.Handler.UpdateLine)
		carts.DELETE("/items/:id", m.Handler.RemoveLine)
	}
	rg.GET("/carts", append(admin(m.Auth, m.Redis), m.Handler.ListAll)...)
}
