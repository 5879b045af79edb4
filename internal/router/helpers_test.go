package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/internal/container"
	"github.com/oksasatya/shopease-api/internal/infrastructure/memory"
	"github.com/oksasatya/shopease-api/internal/infrastructure/storage"
	"github.com/oksasatya/shopease-api/internal/router"
	"github.com/oksasatya/shopease-api/internal/seed"
	"github.com/oksasatya/shopease-api/pkg/helpers"
	"github.com/oksasatya/shopease-api/pkg/validation"
)

const (
	adminUsername = "admin"
	adminPassword = "admin12345"
)

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Meta      json.RawMessage `json:"meta"`
	Error     json.RawMessage `json:"error"`
}

type apiResult struct {
	Code int
	Body envelope
	Hdr  http.Header
}

// DataAs decodes the envelope data into v.
func (r apiResult) DataAs(v any) {
	ExpectWithOffset(1, json.Unmarshal(r.Body.Data, v)).To(Succeed())
}

type testServer struct {
	engine *gin.Engine
	repos  container.Repositories
}

var userSeq atomic.Int64

// newTestServer builds the full engine over a seeded memory backend.
func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	validation.Init()
	container.Reset()

	cfg := config.Load()
	cfg.StorageDriver = storage.DriverMemory
	cfg.RedisAddr = ""
	cfg.RequestTimeout = 5 * time.Second
	cfg.SessionTTL = time.Hour
	cfg.MailSendEnabled = false
	cfg.DebugMetricsEnabled = true
	cfg.CORSAllowedOrigins = "http://localhost:5173"

	backend := storage.OpenMemory()
	repos := backend.Repos
	repos.Sessions = memory.NewSessionStore()

	ctx := context.Background()
	logger := helpers.NewDiscardLogger()
	_, err := seed.Items(ctx, repos.Items, logger)
	Expect(err).NotTo(HaveOccurred())
	_, err = seed.AdminUser(ctx, repos.Users, seed.Admin{Username: adminUsername, Password: adminPassword}, logger)
	Expect(err).NotTo(HaveOccurred())

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRepositories(repos)
	container.SetJWT(helpers.NewJWTManager("test-secret", cfg.SessionTTL))
	container.AddHealthCheck(backend.Driver, backend.Ping)

	return &testServer{engine: router.NewEngine(), repos: repos}
}

func (s *testServer) do(method, path, token string, body any) apiResult {
	var buf bytes.Buffer
	if body != nil {
		ExpectWithOffset(1, json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, router.APIPrefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	res := apiResult{Code: w.Code, Hdr: w.Header()}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &res.Body)
	}
	return res
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// register creates a fresh customer and returns its username.
func (s *testServer) register() string {
	name := fmt.Sprintf("shopper%03d", userSeq.Add(1))
	res := s.do(http.MethodPost, "/users", "", map[string]any{"username": name, "password": "secret123"})
	ExpectWithOffset(1, res.Code).To(Equal(http.StatusCreated))
	return name
}

func (s *testServer) login(username, password string) loginView {
	res := s.do(http.MethodPost, "/users/login", "", map[string]any{"username": username, "password": password})
	ExpectWithOffset(1, res.Code).To(Equal(http.StatusOK), string(res.Body.Error))
	var lv loginView
	ExpectWithOffset(1, json.Unmarshal(res.Body.Data, &lv)).To(Succeed())
	return lv
}

// customer registers and logs in a new shopper.
func (s *testServer) customer() loginView {
	return s.login(s.register(), "secret123")
}

type itemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

type cartLineView struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"item_id"`
	Quantity int       `json:"quantity"`
	Subtotal int64     `json:"subtotal"`
	Item     *itemView `json:"item"`
}

type cartView struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []cartLineView `json:"items"`
	Total     int64          `json:"total"`
	ItemCount int            `json:"item_count"`
}

type orderLineView struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	ItemPrice int64  `json:"item_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type orderView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Items       []orderLineView `json:"items"`
	TotalAmount int64           `json:"total_amount"`
	Status      string          `json:"status"`
	Note        string          `json:"note"`
	ItemCount   int             `json:"item_count"`
}

func (s *testServer) items() []itemView {
	res := s.do(http.MethodGet, "/items", "", nil)
	ExpectWithOffset(1, res.Code).To(Equal(http.StatusOK))
	var items []itemView
	ExpectWithOffset(1, json.Unmarshal(res.Body.Data, &items)).To(Succeed())
	return items
}

func (s *testServer) addToCart(token, itemID string, qty int) cartView {
	res := s.do(http.MethodPost, "/carts", token, map[string]any{"item_id": itemID, "quantity": qty})
	ExpectWithOffset(1, res.Code).To(Equal(http.StatusOK), string(res.Body.Error))
	var cv cartView
	ExpectWithOffset(1, json.Unmarshal(res.Body.Data, &cv)).To(Succeed())
	return cv
}
