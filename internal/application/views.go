package application

import (
	"time"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// UserView is the public representation of a user; it never carries
// the password hash or session token.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

func NewUserViews(us []*entity.User) []UserView {
	out := make([]UserView, 0, len(us))
	for _, u := range us {
		out = append(out, NewUserView(u))
	}
	return out
}

// ItemView prices are minor currency units.
type ItemView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewItemView(it *entity.Item) ItemView {
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		ImageURL:    it.ImageURL,
		Category:    it.Category,
		IsActive:    it.IsActive,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func NewItemViews(items []*entity.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemView(it))
	}
	return out
}

type CartLineView struct {
	ID       string    `json:"id"`
	CartID   string    `json:"cart_id"`
	ItemID   string    `json:"item_id"`
	Quantity int       `json:"quantity"`
	Item     *ItemView `json:"item,omitempty"`
	Subtotal int64     `json:"subtotal"`
}

type CartView struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []CartLineView `json:"items"`
	Total     int64          `json:"total"`
	ItemCount int            `json:"item_count"`
}

// NewCartView derives totals from current item prices. A nil cart
// yields the empty shape.
func NewCartView(c *entity.Cart) CartView {
	if c == nil {
		return CartView{Items: []CartLineView{}}
	}
	v := CartView{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     make([]CartLineView, 0, len(c.Lines)),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
	for _, l := range c.Lines {
		lv := CartLineView{
			ID:       l.ID,
			CartID:   c.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		}
		if l.Item != nil {
			iv := NewItemView(l.Item)
			lv.Item = &iv
		}
		v.Items = append(v.Items, lv)
	}
	return v
}

type OrderLineView struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	ItemPrice int64  `json:"item_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Items       []OrderLineView `json:"items"`
	TotalAmount int64           `json:"total_amount"`
	Status      string          `json:"status"`
	Note        string          `json:"note,omitempty"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewOrderView(o *entity.Order) OrderView {
	v := OrderView{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       make([]OrderLineView, 0, len(o.Lines)),
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		Note:        o.Note,
		ItemCount:   o.ItemCount(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for _, l := range o.Lines {
		v.Items = append(v.Items, OrderLineView{
			ID:        l.ID,
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			ItemPrice: l.ItemPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}
	return v
}

func NewOrderViews(orders []*entity.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o))
	}
	return out
}
