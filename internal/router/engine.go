package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shopease-api/internal/container"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
	"github.com/oksasatya/shopease-api/pkg/response"
)

// NewEngine builds the gin engine with global middleware and every module
// registered under /api/v1, using the singletons in the container.
func NewEngine() *gin.Engine {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.SecurityHeaders())
	origins := cfg.CORSOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowAllOrigins:  len(origins) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}
