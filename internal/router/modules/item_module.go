package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/shopease-api/internal/interface/http"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

// ItemModule serves the catalog. Reads are public, writes need an admin.
type ItemModule struct {
	Handler *handlers.ItemHandler
	Auth    middleware.Authenticator
	Redis   redis.UniversalClient
}

func NewItemModule(h *handlers.ItemHandler, auth middleware.Authenticator, rdb redis.UniversalClient) *ItemModule {
	return &ItemModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *ItemModule) Register(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.GET("", m.Handler.List)
	items.GET("/categories", m.Handler.Categories)
	items.GET("/search", m.Handler.Search)
	items.GET("/:id", m.Handler.Get)

	adm := items.Group("")
	adm.Use(admin(m.Auth, m.Redis)...)
	{
		adm.POST("", m.Handler.Create)
		adm.PUT("/:id", m.Handler.Update)
		adm.DELETE("/:id", m.Handler.Delete)
		adm.POST("/:id/image", m.Handler.UploadImage)
	}
}
