package entity

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrUnresolvedItem = errors.New("cart references an unknown item")
	ErrUnknownStatus  = errors.New("unknown order status")
	ErrNotCancellable = errors.New("order cannot be cancelled")
)

// ParseOrderStatus validates a client supplied status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	}
	return "", ErrUnknownStatus
}

// Order is an immutable snapshot of a cart at checkout time. Only the
// status moves after creation.
type Order struct {
	ID          string
	UserID      string
	Lines       []OrderLine
	TotalAmount int64
	Status      OrderStatus
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderLine struct {
	ID        string
	OrderID   string
	ItemID    string
	ItemName  string
	ItemPrice int64
	Quantity  int
	Subtotal  int64
}

func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// CancellableStatuses lists the statuses an order may be cancelled from.
var CancellableStatuses = []OrderStatus{OrderStatusPending, OrderStatusConfirmed}

func (o *Order) Cancellable() bool {
	return slices.Contains(CancellableStatuses, o.Status)
}

// NewOrderFromCart snapshots every cart line (name and price as of now)
// into a confirmed order. The cart itself is left untouched.
func NewOrderFromCart(cart *Cart, note string, now time.Time) (*Order, error) {
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}
	o := &Order{
		ID:        uuid.NewString(),
		UserID:    cart.UserID,
		Lines:     make([]OrderLine, 0, len(cart.Lines)),
		Status:    OrderStatusConfirmed,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, cl := range cart.Lines {
		if cl.Item == nil {
			return nil, ErrUnresolvedItem
		}
		line := OrderLine{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ItemID:    cl.ItemID,
			ItemName:  cl.Item.Name,
			ItemPrice: cl.Item.Price,
			Quantity:  cl.Quantity,
			Subtotal:  cl.Item.Price * int64(cl.Quantity),
		}
		o.TotalAmount += line.Subtotal
		o.Lines = append(o.Lines, line)
	}
	return o, nil
}
