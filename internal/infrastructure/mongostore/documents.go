package mongostore

import (
	"time"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

var (
	errNotFound  = repository.ErrNotFound
	errDuplicate = repository.ErrDuplicate
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *entity.User) userDoc {
	return userDoc{ID: u.ID, Username: u.Username, Email: u.Email, PasswordHash: u.Password,
		Role: string(u.Role), CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{ID: d.ID, Username: d.Username, Email: d.Email, Password: d.PasswordHash,
		Role: entity.Role(d.Role), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type itemDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       int64     `bson:"price"`
	ImageURL    string    `bson:"image_url"`
	Category    string    `bson:"category"`
	IsActive    bool      `bson:"is_active"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toItemDoc(it *entity.Item) itemDoc {
	return itemDoc{ID: it.ID, Name: it.Name, Description: it.Description, Price: it.Price, ImageURL: it.ImageURL,
		Category: it.Category, IsActive: it.IsActive, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt}
}

func (d itemDoc) entity() *entity.Item {
	return &entity.Item{ID: d.ID, Name: d.Name, Description: d.Description, Price: d.Price, ImageURL: d.ImageURL,
		Category: d.Category, IsActive: d.IsActive, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type cartLineDoc struct {
	ID        string    `bson:"_id"`
	ItemID    string    `bson:"item_id"`
	Quantity  int       `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
}

type cartDoc struct {
	ID        string        `bson:"_id"`
	UserID    string        `bson:"user_id"`
	Lines     []cartLineDoc `bson:"lines"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// entity converts without resolving items; see resolveItems.
func (d cartDoc) entity() *entity.Cart {
	c := &entity.Cart{ID: d.ID, UserID: d.UserID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	for _, l := range d.Lines {
		c.Lines = append(c.Lines, entity.CartLine{ID: l.ID, CartID: d.ID, ItemID: l.ItemID, Quantity: l.Quantity, CreatedAt: l.CreatedAt})
	}
	return c
}

type orderLineDoc struct {
	ID        string `bson:"_id"`
	ItemID    string `bson:"item_id"`
	ItemName  string `bson:"item_name"`
	ItemPrice int64  `bson:"item_price"`
	Quantity  int    `bson:"quantity"`
	Subtotal  int64  `bson:"subtotal"`
}

type orderDoc struct {
	ID          string         `bson:"_id"`
	UserID      string         `bson:"user_id"`
	Lines       []orderLineDoc `bson:"lines"`
	TotalAmount int64          `bson:"total_amount"`
	Status      string         `bson:"status"`
	Note        string         `bson:"note,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

func toOrderDoc(o *entity.Order) orderDoc {
	d := orderDoc{ID: o.ID, UserID: o.UserID, TotalAmount: o.TotalAmount, Status: string(o.Status),
		Note: o.Note, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt, Lines: make([]orderLineDoc, 0, len(o.Lines))}
	for _, l := range o.Lines {
		d.Lines = append(d.Lines, orderLineDoc{ID: l.ID, ItemID: l.ItemID, ItemName: l.ItemName,
			ItemPrice: l.ItemPrice, Quantity: l.Quantity, Subtotal: l.Subtotal})
	}
	return d
}

func (d orderDoc) entity() *entity.Order {
	o := &entity.Order{ID: d.ID, UserID: d.UserID, TotalAmount: d.TotalAmount, Status: entity.OrderStatus(d.Status),
		Note: d.Note, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt, Lines: make([]entity.OrderLine, 0, len(d.Lines))}
	for _, l := range d.Lines {
		o.Lines = append(o.Lines, entity.OrderLine{ID: l.ID, OrderID: d.ID, ItemID: l.ItemID, ItemName: l.ItemName,
			ItemPrice: l.ItemPrice, Quantity: l.Quantity, Subtotal: l.Subtotal})
	}
	return o
}

type favoriteDoc struct {
	UserID    string    `bson:"user_id"`
	ItemID    string    `bson:"item_id"`
	CreatedAt time.Time `bson:"created_at"`
}
