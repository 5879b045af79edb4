package application

import (
	"context"
	"io"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// Notifier emits best-effort notifications. A nil Notifier disables them.
type Notifier interface {
	UserRegistered(ctx context.Context, u *entity.User, ip string) error
	OrderPlaced(ctx context.Context, u *entity.User, o *entity.Order) error
}

// ItemIndexer keeps a full-text index of the catalog.
type ItemIndexer interface {
	Index(ctx context.Context, it *entity.Item) error
	// Search returns matching item ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ObjectUploader stores binary objects and returns their public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
