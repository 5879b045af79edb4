// Package seed loads the starter catalog and the admin account through the
// repository interfaces, so every storage backend is seeded the same way.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
	"github.com/oksasatya/shopease-api/pkg/helpers"
)

type catalogItem struct {
	Name, Description, Price, ImageURL, Category string
}

// Prices are decimal strings and converted to minor units on insert.
var catalog = []catalogItem{
	{"Wireless Bluetooth Headphones", "Premium noise-cancelling headphones with 30hr battery life", "149.99", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400", "Electronics"},
	{"Smart Watch Pro", "Fitness tracker with heart rate monitor and GPS", "299.99", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400", "Electronics"},
	{"Laptop Backpack", "Water-resistant backpack with USB charging port", "59.99", "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400", "Accessories"},
	{"Mechanical Keyboard", "RGB gaming keyboard with Cherry MX switches", "129.99", "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=400", "Electronics"},
	{"Wireless Mouse", "Ergonomic wireless mouse with precision tracking", "49.99", "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400", "Electronics"},
	{"USB-C Hub", "7-in-1 USB-C hub with HDMI and card reader", "39.99", "https://images.unsplash.com/photo-1625723044792-44de16ccb4e9?w=400", "Accessories"},
	{"Portable Charger", "20000mAh power bank with fast charging", "34.99", "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=400", "Electronics"},
	{"Webcam HD Pro", "1080p webcam with built-in microphone", "79.99", "https://images.unsplash.com/photo-1587826080692-f439cd0b70da?w=400", "Electronics"},
	{"Desk Lamp LED", "Adjustable LED desk lamp with touch control", "29.99", "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=400", "Home"},
	{"Coffee Mug Warmer", "Electric mug warmer with auto shut-off", "24.99", "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=400", "Home"},
}

// Admin describes the account created by Run.
type Admin struct {
	Username string
	Password string
	Email    string
}

// Items inserts the catalog unless the store already holds items.
// It returns the number of items created.
func Items(ctx context.Context, items repository.ItemRepository, logger logrus.FieldLogger) (int, error) {
	_, total, err := items.List(ctx, entity.ItemFilter{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if total > 0 {
		logger.WithField("items", total).Info("items already exist, skipping catalog seed")
		return 0, nil
	}

	// distinct created_at keeps the listing order stable
	base := time.Now().UTC().Add(-time.Duration(len(catalog)) * time.Second)
	for i, c := range catalog {
		price, err := helpers.ParseMinorUnits(c.Price)
		if err != nil {
			return i, fmt.Errorf("price of %q: %w", c.Name, err)
		}
		at := base.Add(time.Duration(i) * time.Second)
		it := &entity.Item{
			Name:        c.Name,
			Description: c.Description,
			Price:       price,
			ImageURL:    c.ImageURL,
			Category:    c.Category,
			IsActive:    true,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if err := items.Create(ctx, it); err != nil {
			return i, fmt.Errorf("create %q: %w", c.Name, err)
		}
	}
	logger.WithField("items", len(catalog)).Info("catalog seeded")
	return len(catalog), nil
}

// AdminUser creates the admin account if the username is free.
func AdminUser(ctx context.Context, users repository.UserRepository, a Admin, logger logrus.FieldLogger) (*entity.User, error) {
	if a.Username == "" || a.Password == "" {
		return nil, nil
	}
	existing, err := users.GetByUsername(ctx, a.Username)
	if err == nil {
		if !existing.IsAdmin() {
			logger.WithField("username", a.Username).Warn("seed admin username belongs to a non-admin account")
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := helpers.HashPassword(a.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		Username:  a.Username,
		Email:     a.Email,
		Password:  hash,
		Role:      entity.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	logger.WithField("username", u.Username).Info("admin user seeded")
	return u, nil
}

// Reindex pushes every active item into the search index.
func Reindex(ctx context.Context, items repository.ItemRepository, index app.ItemIndexer) (int, error) {
	const page = 100
	n := 0
	for offset := 0; ; offset += page {
		batch, _, err := items.List(ctx, entity.ItemFilter{ActiveOnly: true, Offset: offset, Limit: page})
		if err != nil {
			return n, fmt.Errorf("list items: %w", err)
		}
		for _, it := range batch {
			if err := index.Index(ctx, it); err != nil {
				return n, fmt.Errorf("index %s: %w", it.ID, err)
			}
			n++
		}
		if len(batch) < page {
			return n, nil
		}
	}
}
