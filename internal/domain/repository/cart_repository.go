package repository

import (
	"context"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// CartRepository persists per-user carts. Carts are returned with their
// lines and each line's current item resolved.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating it if needed. Two
	// concurrent callers for the same user observe the same cart.
	GetOrCreate(ctx context.Context, userID string) (*entity.Cart, error)
	GetByUser(ctx context.Context, userID string) (*entity.Cart, error)
	GetByID(ctx context.Context, cartID string) (*entity.Cart, error)
	// AddLine inserts a line or increments the existing line for itemID
	// as a single atomic step. A merge past entity.MaxLineQuantity fails
	// with entity.ErrQuantityExceeded and leaves the line unchanged.
	AddLine(ctx context.Context, cartID, itemID string, qty int) error
	// SetLineQuantity overwrites a line quantity; qty 0 deletes the line.
	// ErrNotFound when the line is not in the cart.
	SetLineQuantity(ctx context.Context, cartID, lineID string, qty int) error
	// RemoveLine is a no-op when the line does not exist.
	RemoveLine(ctx context.Context, cartID, lineID string) error
	Clear(ctx context.Context, cartID string) error
	ListAll(ctx context.Context) ([]*entity.Cart, error)
}
