package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `o.id, o.user_id, o.total_amount, o.status, o.note, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	o := &entity.Order{}
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &status, &o.Note, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	o.Status = entity.OrderStatus(status)
	o.Lines = []entity.OrderLine{}
	return o, nil
}

// PlaceFromCart locks the cart row so concurrent checkouts or cart
// edits serialize behind it.
func (r *OrderRepository) PlaceFromCart(ctx context.Context, userID, cartID string, build repository.OrderBuilder) (*entity.Order, error) {
	var placed *entity.Order
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		cart, err := getCart(ctx, tx, `id = $1 AND user_id = $2`, ` FOR UPDATE`, cartID, userID)
		if err != nil {
			return err
		}
		o, err := build(cart)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders (id, user_id, total_amount, status, note, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, o.ID, o.UserID, o.TotalAmount, string(o.Status), o.Note, o.CreatedAt, o.UpdatedAt); err != nil {
			return mapErr(err)
		}
		batch := &pgx.Batch{}
		for i, l := range o.Lines {
			batch.Queue(`
				INSERT INTO order_lines (id, order_id, line_no, item_id, item_name, item_price, quantity, subtotal)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, l.ID, o.ID, i, l.ItemID, l.ItemName, l.ItemPrice, l.Quantity, l.Subtotal)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapErr(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cart.ID); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// fetchOrders runs an order query and attaches lines from a matching
// order_lines query. Both queries take the same args.
func (r *OrderRepository) fetchOrders(ctx context.Context, where string, args ...any) ([]*entity.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders o`+where+` ORDER BY o.created_at DESC, o.id`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	out := []*entity.Order{}
	byID := map[string]*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
		byID[o.ID] = o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	lrows, err := r.pool.Query(ctx, `
		SELECT l.id, l.order_id, l.item_id, l.item_name, l.item_price, l.quantity, l.subtotal
		FROM order_lines l JOIN orders o ON o.id = l.order_id`+where+`
		ORDER BY l.order_id, l.line_no`, args...)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var l entity.OrderLine
		if err := lrows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.ItemName, &l.ItemPrice, &l.Quantity, &l.Subtotal); err != nil {
			return nil, err
		}
		if o, ok := byID[l.OrderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	return out, lrows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	orders, err := r.fetchOrders(ctx, ` WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, repository.ErrNotFound
	}
	return orders[0], nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.fetchOrders(ctx, ` WHERE o.user_id = $1`, userID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return r.fetchOrders(ctx, ``)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, from ...entity.OrderStatus) (*entity.Order, error) {
	sql := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	args := []any{id, string(status)}
	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, st := range from {
			allowed[i] = string(st)
		}
		sql += ` AND status = ANY($3::text[])`
		args = append(args, allowed)
	}
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		if len(from) == 0 {
			return nil, repository.ErrNotFound
		}
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, repository.ErrStateChanged
	}
	return r.GetByID(ctx, id)
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
