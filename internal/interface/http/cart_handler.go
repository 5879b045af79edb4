package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
	"github.com/oksasatya/shopease-api/pkg/response"
)

type CartHandler struct {
	Carts  *app.CartService
	Logger logrus.FieldLogger
}

func NewCartHandler(carts *app.CartService, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{Carts: carts, Logger: logger}
}

type addToCartRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"gte=0,lte=10000"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0,lte=10000"`
}

func (h *CartHandler) GetMine(c *gin.Context) {
	cart, err := h.Carts.GetMyCart(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewCartView(cart), "cart", nil)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	cart, err := h.Carts.AddToCart(c.Request.Context(), c.GetString(middleware.CtxUserID), req.ItemID, req.Quantity)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewCartView(cart), "item added to cart", nil)
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	cart, err := h.Carts.UpdateQuantity(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), *req.Quantity)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewCartView(cart), "cart updated", nil)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	cart, err := h.Carts.RemoveFromCart(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewCartView(cart), "item removed from cart", nil)
}

func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.Carts.ClearCart(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewCartView(cart), "cart cleared", nil)
}

func (h *CartHandler) ListAll(c *gin.Context) {
	carts, err := h.Carts.ListAllCarts(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]app.CartView, 0, len(carts))
	for _, cart := range carts {
		out = append(out, app.NewCartView(cart))
	}
	response.Success(c, http.StatusOK, out, "carts", nil)
}
