package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

// DebugModule exposes expvar (orders_placed, memstats) when enabled.
type DebugModule struct {
	Enabled bool
	Redis   redis.UniversalClient
}

func NewDebugModule(enabled bool, rdb redis.UniversalClient) *DebugModule {
	return &DebugModule{Enabled: enabled, Redis: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if !m.Enabled {
		return
	}
	// public, rate-limited per IP
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
