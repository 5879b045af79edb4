package repository

import "context"

type FavoriteRepository interface {
	// Toggle adds the pair when absent and removes it otherwise. It
	// reports whether the item is a favorite afterwards.
	Toggle(ctx context.Context, userID, itemID string) (bool, error)
	// ItemIDs returns favorited item ids, most recent first.
	ItemIDs(ctx context.Context, userID string) ([]string, error)
}
