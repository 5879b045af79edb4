package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type CartRepository struct{ s *Store }

func NewCartRepository(s *Store) *CartRepository { return &CartRepository{s: s} }

func (r *CartRepository) GetOrCreate(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.userCarts[userID]; ok {
		return r.s.cartWithItems(r.s.carts[id]), nil
	}
	now := time.Now().UTC()
	c := &entity.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.s.carts[c.ID] = c
	r.s.userCarts[userID] = c.ID
	return r.s.cartWithItems(c), nil
}

func (r *CartRepository) GetByUser(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.userCarts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.cartWithItems(r.s.carts[id]), nil
}

func (r *CartRepository) GetByID(_ context.Context, cartID string) (*entity.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.cartWithItems(c), nil
}

func (r *CartRepository) AddLine(_ context.Context, cartID, itemID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	c.UpdatedAt = now
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			if qty > entity.MaxLineQuantity-c.Lines[i].Quantity {
				return entity.ErrQuantityExceeded
			}
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, entity.CartLine{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ItemID:    itemID,
		Quantity:  qty,
		CreatedAt: now,
	})
	return nil
}

func (r *CartRepository) SetLineQuantity(_ context.Context, cartID, lineID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range c.Lines {
		if c.Lines[i].ID != lineID {
			continue
		}
		if qty == 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = qty
		}
		c.UpdatedAt = time.Now().UTC()
		return nil
	}
	return repository.ErrNotFound
}

func (r *CartRepository) RemoveLine(_ context.Context, cartID, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return nil
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

func (r *CartRepository) Clear(_ context.Context, cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Lines = nil
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CartRepository) ListAll(_ context.Context) ([]*entity.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Cart, 0, len(r.s.carts))
	for _, c := range r.s.carts {
		out = append(out, r.s.cartWithItems(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
