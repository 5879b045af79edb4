package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/shopease-api/internal/interface/http"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

// UserModule wires account, session and favorite routes.
// Public: POST /users, POST /users/login, GET /users
// Protected: POST /users/logout, GET /users/me, GET|POST /users/favorites
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    middleware.Authenticator
	Redis   redis.UniversalClient
}

func NewUserModule(h *handlers.UserHandler, auth middleware.Authenticator, rdb redis.UniversalClient) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	users.POST("", registerLimiter, m.Handler.Register)
	users.POST("/login", loginLimiter, m.Handler.Login)
	users.GET("", m.Handler.List)

	auth := users.Group("")
	auth.Use(protected(m.Auth, m.Redis)...)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.GET("/favorites", m.Handler.ListFavorites)
		auth.POST("/favorites", m.Handler.ToggleFavorite)
	}
}
