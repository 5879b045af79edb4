package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type ItemRepository struct{ s *Store }

func NewItemRepository(s *Store) *ItemRepository { return &ItemRepository{s: s} }

func (r *ItemRepository) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if _, exists := r.s.items[it.ID]; exists {
		return repository.ErrDuplicate
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepository) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[it.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepository) List(_ context.Context, f entity.ItemFilter) ([]*entity.Item, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(f.Search)
	matched := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if f.ActiveOnly && !it.IsActive {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		cp := *it
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	if f.Offset < 0 || f.Offset >= total {
		return []*entity.Item{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Limit < total-f.Offset {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (r *ItemRepository) Categories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, it := range r.s.items {
		if !it.IsActive || it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out, nil
}

var _ repository.ItemRepository = (*ItemRepository)(nil)
