package application

import (
	"context"
	"errors"
	"expvar"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

const MaxOrderNoteLength = 500

var ordersPlaced = expvar.NewInt("orders_placed")

type OrderService struct {
	Orders   repo.OrderRepository
	Users    repo.UserRepository
	Notifier Notifier
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewOrderService(orders repo.OrderRepository, users repo.UserRepository, notifier Notifier, logger logrus.FieldLogger) *OrderService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &OrderService{Orders: orders, Users: users, Notifier: notifier, Logger: logger, Now: time.Now}
}

type CreateOrderInput struct {
	CartID string
	Note   string
}

// CreateOrder checks out the caller's cart. Snapshotting the lines,
// storing the order and emptying the cart commit together.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*entity.Order, error) {
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return nil, invalid("cart_id", "is required")
	}
	if utf8.RuneCountInString(in.Note) > MaxOrderNoteLength {
		return nil, invalid("note", "must be at most 500 characters long")
	}

	now := s.Now().UTC()
	o, err := s.Orders.PlaceFromCart(ctx, userID, cartID, func(c *entity.Cart) (*entity.Order, error) {
		return entity.NewOrderFromCart(c, in.Note, now)
	})
	switch {
	case errors.Is(err, entity.ErrCartEmpty):
		return nil, ErrEmptyCart
	case err != nil:
		return nil, storageErr(err, ErrCartNotFound, "place order")
	}

	ordersPlaced.Add(1)
	s.Logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": o.ID,
		"total":    o.TotalAmount,
	}).Info("order placed")
	s.notifyPlaced(ctx, o)
	return o, nil
}

func (s *OrderService) notifyPlaced(ctx context.Context, o *entity.Order) {
	if s.Notifier == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, o.UserID)
	if err != nil || u.Email == "" {
		return
	}
	if err := s.Notifier.OrderPlaced(ctx, u, o); err != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("order email enqueue failed")
	}
}

func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, nil, "list orders")
	}
	return orders, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err, nil, "list orders")
	}
	return orders, nil
}

// GetOrder reports someone else's order as missing.
func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrOrderNotFound, "get order")
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	st, err := entity.ParseOrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return nil, ErrInvalidStatus
	}
	o, err := s.Orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, storageErr(err, ErrOrderNotFound, "update order status")
	}
	return o, nil
}

// CancelOrder only applies to pending or confirmed orders. The status is
// rechecked by the write itself, so a concurrent shipment wins.
func (s *OrderService) CancelOrder(ctx context.Context, userID, id string) (*entity.Order, error) {
	o, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !o.Cancellable() {
		return nil, ErrOrderNotCancellable
	}
	o, err = s.Orders.UpdateStatus(ctx, id, entity.OrderStatusCancelled, entity.CancellableStatuses...)
	switch {
	case errors.Is(err, repo.ErrStateChanged):
		return nil, ErrOrderNotCancellable
	case err != nil:
		return nil, storageErr(err, ErrOrderNotFound, "cancel order")
	}
	return o, nil
}
