package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type FavoriteRepository struct{ s *Store }

func NewFavoriteRepository(s *Store) *FavoriteRepository { return &FavoriteRepository{s: s} }

func (r *FavoriteRepository) Toggle(_ context.Context, userID, itemID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	favs := r.s.favorites[userID]
	for i, f := range favs {
		if f.itemID == itemID {
			r.s.favorites[userID] = append(favs[:i], favs[i+1:]...)
			return false, nil
		}
	}
	r.s.favorites[userID] = append(favs, favorite{itemID: itemID, seq: r.s.next()})
	return true, nil
}

func (r *FavoriteRepository) ItemIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	favs := append([]favorite(nil), r.s.favorites[userID]...)
	r.s.mu.RUnlock()
	sort.Slice(favs, func(i, j int) bool { return favs[i].seq > favs[j].seq })
	out := make([]string, 0, len(favs))
	for _, f := range favs {
		out = append(out, f.itemID)
	}
	return out, nil
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
