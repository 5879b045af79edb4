package repository

import (
	"context"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// OrderBuilder turns a locked cart snapshot into a new order.
type OrderBuilder func(cart *entity.Cart) (*entity.Order, error)

// OrderRepository persists orders.
type OrderRepository interface {
	// PlaceFromCart loads the cart owned by userID, calls build with it,
	// stores the resulting order and empties the cart, all in one
	// transaction. ErrNotFound when the cart does not exist or belongs to
	// someone else. Errors returned by build abort the transaction as-is.
	PlaceFromCart(ctx context.Context, userID, cartID string, build OrderBuilder) (*entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	// UpdateStatus sets the order status. With from given, the write only
	// happens while the current status is one of them; otherwise it
	// returns ErrStateChanged.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, from ...entity.OrderStatus) (*entity.Order, error)
}
