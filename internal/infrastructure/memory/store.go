// Package memory is a process-local storage backend. Every operation
// runs under one store-wide lock, which gives it the same atomicity the
// database backends get from transactions.
package memory

import (
	"sort"
	"sync"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

type favorite struct {
	itemID string
	seq    int64
}

// Store holds every collection. Repositories are thin views over it.
type Store struct {
	mu sync.RWMutex

	users     map[string]*entity.User
	usernames map[string]string
	items     map[string]*entity.Item
	carts     map[string]*entity.Cart
	userCarts map[string]string
	orders    map[string]*entity.Order
	favorites map[string][]favorite
	seq       int64
}

func NewStore() *Store {
	return &Store{
		users:     map[string]*entity.User{},
		usernames: map[string]string{},
		items:     map[string]*entity.Item{},
		carts:     map[string]*entity.Cart{},
		userCarts: map[string]string{},
		orders:    map[string]*entity.Order{},
		favorites: map[string][]favorite{},
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// cartWithItems copies a cart and resolves its line items. Callers hold mu.
func (s *Store) cartWithItems(c *entity.Cart) *entity.Cart {
	cp := *c
	cp.Lines = make([]entity.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if it, ok := s.items[l.ItemID]; ok {
			itc := *it
			l.Item = &itc
		}
		cp.Lines = append(cp.Lines, l)
	}
	return &cp
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &cp
}

func sortOrdersNewestFirst(orders []*entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
