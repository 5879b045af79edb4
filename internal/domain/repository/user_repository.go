package repository

import (
	"context"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence.
// Create returns ErrDuplicate when the username is already taken.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}
