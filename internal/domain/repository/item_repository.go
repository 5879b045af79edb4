package repository

import (
	"context"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// ItemRepository persists catalog items.
type ItemRepository interface {
	Create(ctx context.Context, it *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, it *entity.Item) error
	// List returns one page ordered by created_at desc, id asc, plus the
	// total number of matches ignoring Offset/Limit.
	List(ctx context.Context, f entity.ItemFilter) ([]*entity.Item, int, error)
	// Categories returns the distinct non-empty categories of active items.
	Categories(ctx context.Context) ([]string, error)
}
