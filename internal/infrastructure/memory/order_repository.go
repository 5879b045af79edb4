package memory

import (
	"context"
	"slices"
	"time"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type OrderRepository struct{ s *Store }

func NewOrderRepository(s *Store) *OrderRepository { return &OrderRepository{s: s} }

func (r *OrderRepository) PlaceFromCart(_ context.Context, userID, cartID string, build repository.OrderBuilder) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	o, err := build(r.s.cartWithItems(c))
	if err != nil {
		return nil, err
	}
	r.s.orders[o.ID] = copyOrder(o)
	c.Lines = nil
	c.UpdatedAt = time.Now().UTC()
	return o, nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyOrder(o), nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Order{}
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) ListAll(_ context.Context) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, copyOrder(o))
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, from ...entity.OrderStatus) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if len(from) > 0 && !slices.Contains(from, o.Status) {
		return nil, repository.ErrStateChanged
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return copyOrder(o), nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
