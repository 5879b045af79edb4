package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

type stubAuth struct {
	user *entity.User
	err  error
}

func (s stubAuth) Authenticate(context.Context, string) (*entity.User, error) { return s.user, s.err }

func serve(r *gin.Engine, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxUserID)) }

func TestAuthMapsSessionErrors(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)

	cases := []struct {
		auth   stubAuth
		header string
		code   int
		msg    string
	}{
		{stubAuth{}, "", http.StatusUnauthorized, "Authorization header is required"},
		{stubAuth{}, "Basic abc", http.StatusUnauthorized, "Invalid authorization format"},
		{stubAuth{}, "Bearer ", http.StatusUnauthorized, "Invalid authorization format"},
		{stubAuth{err: application.ErrUnauthorized}, "Bearer t", http.StatusUnauthorized, "Invalid or expired token"},
		{stubAuth{err: application.ErrSessionExpired}, "Bearer t", http.StatusUnauthorized, "Session expired. Please login again."},
		{stubAuth{err: application.ErrTimeout}, "Bearer t", http.StatusGatewayTimeout, "request timed out"},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", Auth(tc.auth), ok)
		hdr := map[string]string{}
		if tc.header != "" {
			hdr["Authorization"] = tc.header
		}
		w := serve(r, http.MethodGet, "/", hdr)
		g.Expect(w.Code).To(Equal(tc.code), tc.header)
		g.Expect(w.Body.String()).To(ContainSubstring(tc.msg))
	}

	r := gin.New()
	r.GET("/", Auth(stubAuth{user: &entity.User{ID: "u1", Username: "alice"}}), ok)
	w := serve(r, http.MethodGet, "/", map[string]string{"Authorization": "bearer tok"})
	g.Expect(w.Code).To(Equal(http.StatusOK))
	g.Expect(w.Body.String()).To(Equal("u1"))
}

func TestRequireRole(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)
	hdr := map[string]string{"Authorization": "Bearer t"}

	r := gin.New()
	r.GET("/", Auth(stubAuth{user: &entity.User{ID: "u1", Role: entity.RoleCustomer}}), RequireRole(entity.RoleAdmin), ok)
	g.Expect(serve(r, http.MethodGet, "/", hdr).Code).To(Equal(http.StatusForbidden))

	r = gin.New()
	r.GET("/", Auth(stubAuth{user: &entity.User{ID: "a1", Role: entity.RoleAdmin}}), RequireRole(entity.RoleAdmin), ok)
	g.Expect(serve(r, http.MethodGet, "/", hdr).Code).To(Equal(http.StatusOK))
}

func TestLocalRateLimit(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", RateLimit(nil, 3, time.Minute, KeyByIP(), nil), ok)

	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodGet, "/", nil)
		g.Expect(w.Code).To(Equal(http.StatusOK))
		g.Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("3"))
	}
	w := serve(r, http.MethodGet, "/", nil)
	g.Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	g.Expect(w.Header().Get("Retry-After")).NotTo(BeEmpty())

	r2 := gin.New()
	r2.Use(RealIP())
	r2.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), ok)
	g.Expect(serve(r2, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "203.0.113.9"}).Code).To(Equal(http.StatusOK))
	g.Expect(serve(r2, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "203.0.113.10"}).Code).To(Equal(http.StatusOK))
	g.Expect(serve(r2, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "203.0.113.9"}).Code).To(Equal(http.StatusTooManyRequests))
}

func TestLocalRateLimitBypass(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), AllowPrivateIP()), ok)
	hdr := map[string]string{"X-Forwarded-For": "10.0.0.7"}
	for i := 0; i < 5; i++ {
		g.Expect(serve(r, http.MethodGet, "/", hdr).Code).To(Equal(http.StatusOK))
	}
}

func TestTimeoutBoundsContext(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	var deadline time.Time
	var has bool
	r.GET("/", func(c *gin.Context) {
		deadline, has = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})
	serve(r, http.MethodGet, "/", nil)
	g.Expect(has).To(BeTrue())
	g.Expect(deadline).To(BeTemporally("~", time.Now(), time.Second))
}

func TestRealIPPrefersCloudflare(t *testing.T) {
	g := NewWithT(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	w := serve(r, http.MethodGet, "/", map[string]string{"CF-Connecting-IP": "198.51.100.2", "X-Forwarded-For": "203.0.113.1"})
	g.Expect(w.Body.String()).To(Equal("198.51.100.2"))
	w = serve(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"})
	g.Expect(w.Body.String()).To(Equal("203.0.113.1"))
}
