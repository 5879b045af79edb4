package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
	"github.com/oksasatya/shopease-api/pkg/response"
)

type UserHandler struct {
	Auth      *app.AuthService
	Favorites *app.FavoriteService
	Logger    logrus.FieldLogger
}

func NewUserHandler(auth *app.AuthService, favs *app.FavoriteService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Auth: auth, Favorites: favs, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,pwd"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      app.UserView `json:"user"`
}

type favoriteRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		IP:       middleware.ClientIP(c),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, app.NewUserView(u), "user created", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
		User:      app.NewUserView(res.User),
	}, "login successful", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		writeError(c, h.Logger, app.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, app.NewUserView(u), "profile", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Auth.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewUserViews(users), "users", nil)
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	items, err := h.Favorites.List(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewItemViews(items), "favorites", nil)
}

func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	action, err := h.Favorites.Toggle(c.Request.Context(), c.GetString(middleware.CtxUserID), req.ItemID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"action": action, "item_id": req.ItemID}, "favorite "+action, nil)
}
