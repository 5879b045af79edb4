package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type ItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const itemColumns = `id, name, description, price, image_url, category, is_active, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*entity.Item, error) {
	it := &entity.Item{}
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.Category,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return it, nil
}

func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO items (id, name, description, price, image_url, category, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, it.ID, it.Name, it.Description, it.Price, it.ImageURL, it.Category, it.IsActive, it.CreatedAt, it.UpdatedAt)
	return mapErr(err)
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
}

func (r *ItemRepository) Update(ctx context.Context, it *entity.Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE items
		SET name = $2, description = $3, price = $4, image_url = $5, category = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`, it.ID, it.Name, it.Description, it.Price, it.ImageURL, it.Category, it.IsActive, it.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func itemWhere(f entity.ItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, "category = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, strings.ToLower(f.Search))
		conds = append(conds, "strpos(lower(name), $"+strconv.Itoa(len(args))+") > 0")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *ItemRepository) List(ctx context.Context, f entity.ItemFilter) ([]*entity.Item, int, error) {
	where, args := itemWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if f.Offset < 0 || (f.Offset > 0 && f.Offset >= total) {
		return []*entity.Item{}, total, nil
	}

	q := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []*entity.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category FROM items
		WHERE is_active AND category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.ItemRepository = (*ItemRepository)(nil)
