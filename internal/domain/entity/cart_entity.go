package entity

import (
	"errors"
	"time"
)

// MaxLineQuantity caps a single cart line, merges included.
const MaxLineQuantity = 10000

var ErrQuantityExceeded = errors.New("cart line quantity exceeds the limit")

// Cart is the single mutable basket owned by a user.
// Lines never share an item id; adding an existing item merges quantities.
type Cart struct {
	ID        string
	UserID    string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one (item, quantity) entry. Item is resolved on read and
// carries the current catalog price.
type CartLine struct {
	ID        string
	CartID    string
	ItemID    string
	Quantity  int
	Item      *Item
	CreatedAt time.Time
}

// Subtotal uses the current catalog price; lines whose item no longer
// resolves contribute nothing.
func (l CartLine) Subtotal() int64 {
	if l.Item == nil {
		return 0
	}
	return l.Item.Price * int64(l.Quantity)
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Line returns the line with the given id, if present.
func (c *Cart) Line(lineID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return CartLine{}, false
}
