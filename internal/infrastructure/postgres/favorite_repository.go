package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Toggle deletes the pair if present and inserts it otherwise, in one
// statement.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, itemID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		WITH del AS (
			DELETE FROM favorites WHERE user_id = $1::uuid AND item_id = $2::uuid RETURNING 1
		)
		INSERT INTO favorites (user_id, item_id)
		SELECT $1::uuid, $2::uuid WHERE NOT EXISTS (SELECT 1 FROM del)
		ON CONFLICT DO NOTHING
	`, userID, itemID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *FavoriteRepository) ItemIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT item_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
