package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxUser     = "user"
)

// Authenticator resolves a bearer token to the user owning the current session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// Auth validates "Authorization: Bearer <token>" against the session store
// and stores the resolved user in the gin context.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			response.Fail(c, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Fail(c, http.StatusUnauthorized, "Invalid authorization format", nil)
			return
		}

		u, err := a.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, application.ErrSessionExpired):
			response.Fail(c, http.StatusUnauthorized, "Session expired. Please login again.", nil)
			return
		case errors.Is(err, application.ErrUnauthorized):
			response.Fail(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		case errors.Is(err, application.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			response.Fail(c, http.StatusGatewayTimeout, application.ErrTimeout.Error(), nil)
			return
		default:
			_ = c.Error(err)
			response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUsername, u.Username)
		c.Set(CtxUser, u)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}
		if u.Role != role {
			response.Fail(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user placed in the context by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
