package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/interface/middleware"
	"github.com/oksasatya/shopease-api/pkg/response"
)

type OrderHandler struct {
	Orders *app.OrderService
	Logger logrus.FieldLogger
}

func NewOrderHandler(orders *app.OrderService, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{Orders: orders, Logger: logger}
}

type createOrderRequest struct {
	CartID string `json:"cart_id" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	o, err := h.Orders.CreateOrder(c.Request.Context(), c.GetString(middleware.CtxUserID), app.CreateOrderInput{
		CartID: req.CartID,
		Note:   req.Note,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, app.NewOrderView(o), "order created", nil)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.Orders.GetMyOrders(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewOrderViews(orders), "orders", nil)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.Orders.ListAllOrders(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewOrderViews(orders), "orders", nil)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewOrderView(o), "order", nil)
}

// UpdateStatus is admin-only; status values are validated by the service
// so an unknown value reports ErrInvalidStatus.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	o, err := h.Orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewOrderView(o), "order status updated", nil)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.Orders.CancelOrder(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, app.NewOrderView(o), "order cancelled", nil)
}
