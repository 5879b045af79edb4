package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
)

// protected is bearer auth followed by the per-user limiter.
func protected(auth middleware.Authenticator, rdb redis.UniversalClient) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.Auth(auth),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowAdmin()),
	}
}

// admin extends protected with the admin role check.
func admin(auth middleware.Authenticator, rdb redis.UniversalClient) []gin.HandlerFunc {
	return append(protected(auth, rdb), middleware.RequireRole(entity.RoleAdmin))
}
