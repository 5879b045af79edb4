package application

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

func quantityTooLarge() error {
	return invalid("quantity", "must be less than or equal to "+strconv.Itoa(entity.MaxLineQuantity))
}

// CartService manages the per-user cart. Every mutation returns the
// cart as it stands afterwards.
type CartService struct {
	Carts  repo.CartRepository
	Items  repo.ItemRepository
	Logger logrus.FieldLogger
}

func NewCartService(carts repo.CartRepository, items repo.ItemRepository, logger logrus.FieldLogger) *CartService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &CartService{Carts: carts, Items: items, Logger: logger}
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, storageErr(err, nil, "get or create cart")
	}
	return c, nil
}

// GetMyCart returns nil without error when the user has no cart yet.
func (s *CartService) GetMyCart(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := s.Carts.GetByUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, nil, "get cart")
	}
	return c, nil
}

// AddToCart merges quantity into the existing line for the item, if any.
// A zero quantity means one.
func (s *CartService) AddToCart(ctx context.Context, userID, itemID string, quantity int) (*entity.Cart, error) {
	if quantity < 0 {
		return nil, invalid("quantity", "must be greater than or equal to 1")
	}
	if quantity > entity.MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	if quantity == 0 {
		quantity = 1
	}
	it, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, storageErr(err, ErrItemNotFound, "get item")
	}
	if !it.IsActive {
		return nil, ErrItemNotFound
	}
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.AddLine(ctx, c.ID, it.ID, quantity); errors.Is(err, entity.ErrQuantityExceeded) {
		return nil, invalid("quantity", "would bring the line above "+strconv.Itoa(entity.MaxLineQuantity))
	} else if err != nil {
		return nil, storageErr(err, ErrCartNotFound, "add cart line")
	}
	return s.reload(ctx, c.ID)
}

// UpdateQuantity overwrites the line quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*entity.Cart, error) {
	if quantity < 0 {
		return nil, invalid("quantity", "must be greater than or equal to 0")
	}
	if quantity > entity.MaxLineQuantity {
		return nil, quantityTooLarge()
	}
	c, err := s.GetMyCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartLineNotFound
	}
	if err := s.Carts.SetLineQuantity(ctx, c.ID, lineID, quantity); err != nil {
		return nil, storageErr(err, ErrCartLineNotFound, "update cart line")
	}
	return s.reload(ctx, c.ID)
}

// RemoveFromCart ignores lines that are not in the caller's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, lineID string) (*entity.Cart, error) {
	c, err := s.GetMyCart(ctx, userID)
	if err != nil || c == nil {
		return c, err
	}
	if err := s.Carts.RemoveLine(ctx, c.ID, lineID); err != nil {
		return nil, storageErr(err, nil, "remove cart line")
	}
	return s.reload(ctx, c.ID)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := s.GetMyCart(ctx, userID)
	if err != nil || c == nil {
		return c, err
	}
	if err := s.Carts.Clear(ctx, c.ID); err != nil {
		return nil, storageErr(err, nil, "clear cart")
	}
	return s.reload(ctx, c.ID)
}

func (s *CartService) ListAllCarts(ctx context.Context) ([]*entity.Cart, error) {
	cs, err := s.Carts.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err, nil, "list carts")
	}
	return cs, nil
}

func (s *CartService) reload(ctx context.Context, cartID string) (*entity.Cart, error) {
	c, err := s.Carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, storageErr(err, ErrCartNotFound, "reload cart")
	}
	return c, nil
}
