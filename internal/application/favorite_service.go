package application

import (
	"context"
	"errors"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
)

const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)

type FavoriteService struct {
	Favorites repo.FavoriteRepository
	Items     repo.ItemRepository
}

func NewFavoriteService(favs repo.FavoriteRepository, items repo.ItemRepository) *FavoriteService {
	return &FavoriteService{Favorites: favs, Items: items}
}

// Toggle flips the favorite flag and reports which way it went.
// Deactivated items read as missing.
func (s *FavoriteService) Toggle(ctx context.Context, userID, itemID string) (string, error) {
	it, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return "", storageErr(err, ErrItemNotFound, "get item")
	}
	if !it.IsActive {
		return "", ErrItemNotFound
	}
	added, err := s.Favorites.Toggle(ctx, userID, itemID)
	if err != nil {
		return "", storageErr(err, nil, "toggle favorite")
	}
	if added {
		return FavoriteAdded, nil
	}
	return FavoriteRemoved, nil
}

// List skips favorites whose item no longer resolves or was deactivated.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*entity.Item, error) {
	ids, err := s.Favorites.ItemIDs(ctx, userID)
	if err != nil {
		return nil, storageErr(err, nil, "list favorites")
	}
	out := make([]*entity.Item, 0, len(ids))
	for _, id := range ids {
		it, err := s.Items.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storageErr(err, nil, "get item")
		}
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out, nil
}
