package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const cartLineSelect = `
	SELECT l.cart_id, l.id, l.item_id, l.quantity, l.created_at,
	       i.id, i.name, i.description, i.price, i.image_url, i.category, i.is_active, i.created_at, i.updated_at
	FROM cart_lines l
	JOIN items i ON i.id = l.item_id`

// loadLines fills Lines for every cart in byID using the given filter
// on cart_lines (aliased l).
func loadLines(ctx context.Context, q querier, byID map[string]*entity.Cart, where string, args ...any) error {
	rows, err := q.Query(ctx, cartLineSelect+` WHERE `+where+` ORDER BY l.created_at, l.id`, args...)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.CartLine
		it := &entity.Item{}
		if err := rows.Scan(&l.CartID, &l.ID, &l.ItemID, &l.Quantity, &l.CreatedAt,
			&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.Category,
			&it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return err
		}
		l.Item = it
		if c, ok := byID[l.CartID]; ok {
			c.Lines = append(c.Lines, l)
		}
	}
	return rows.Err()
}

// getCart loads one cart and its lines. suffix may add FOR UPDATE.
func getCart(ctx context.Context, q querier, where, suffix string, args ...any) (*entity.Cart, error) {
	c := &entity.Cart{}
	err := q.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE `+where+suffix, args...).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := loadLines(ctx, q, map[string]*entity.Cart{c.ID: c}, `l.cart_id = $1`, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.NewString(), userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return r.GetByUser(ctx, userID)
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	return getCart(ctx, r.pool, `user_id = $1`, ``, userID)
}

func (r *CartRepository) GetByID(ctx context.Context, cartID string) (*entity.Cart, error) {
	return getCart(ctx, r.pool, `id = $1`, ``, cartID)
}

// AddLine merges quantities with a single upsert.
// AddLine leaves the row alone when the merged quantity would pass
// entity.MaxLineQuantity; no row back from the upsert means exactly that.
func (r *CartRepository) AddLine(ctx context.Context, cartID, itemID string, qty int) error {
	tag, err := r.pool.Exec(ctx, `
		WITH up AS (
			INSERT INTO cart_lines (id, cart_id, item_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (cart_id, item_id) DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
			WHERE cart_lines.quantity + EXCLUDED.quantity <= $5
			RETURNING cart_id
		)
		UPDATE carts SET updated_at = now() WHERE id IN (SELECT cart_id FROM up)
	`, uuid.NewString(), cartID, itemID, qty, entity.MaxLineQuantity)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrQuantityExceeded
	}
	return nil
}

func (r *CartRepository) SetLineQuantity(ctx context.Context, cartID, lineID string, qty int) error {
	var (
		sql  string
		args = []any{lineID, cartID}
	)
	if qty == 0 {
		sql = `DELETE FROM cart_lines WHERE id = $1 AND cart_id = $2`
	} else {
		sql = `UPDATE cart_lines SET quantity = $3 WHERE id = $1 AND cart_id = $2`
		args = append(args, qty)
	}
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	_, err = r.pool.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return mapErr(err)
}

func (r *CartRepository) RemoveLine(ctx context.Context, cartID, lineID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND cart_id = $2`, lineID, cartID)
	if err = mapErr(err); errors.Is(err, repository.ErrNotFound) {
		// a malformed line id cannot match anything
		return nil
	}
	return err
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	return mapErr(err)
}

func (r *CartRepository) ListAll(ctx context.Context) ([]*entity.Cart, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, created_at, updated_at FROM carts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	out := []*entity.Cart{}
	byID := map[string]*entity.Cart{}
	for rows.Next() {
		c := &entity.Cart{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, c)
		byID[c.ID] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadLines(ctx, r.pool, byID, `TRUE`); err != nil {
		return nil, err
	}
	return out, nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
