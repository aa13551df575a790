package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkline/storefront/internal/domain/menu"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const menuColumns = `id, name, category, COALESCE(description, ''), price, COALESCE(image, '')`

// List returns items ordered by category then name, optionally filtered by
// category.
func (r *MenuRepository) List(ctx context.Context, category string) ([]menu.Item, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	defer rows.Close()

	return scanItems(rows)
}

// Categories returns the distinct non-empty categories, sorted.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM menu_items WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID returns a single item, or menu.ErrNotFound.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*menu.Item, error) {
	var it menu.Item
	err := r.pool.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id,
	).Scan(&it.ID, &it.Name, &it.Category, &it.Description, &it.Price, &it.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get menu item %d", id)
	}
	return &it, nil
}

// GetByIDs returns the items matching ids in one query. Missing ids are
// simply absent from the result.
func (r *MenuRepository) GetByIDs(ctx context.Context, ids []int64) ([]menu.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items by ids")
	}
	defer rows.Close()

	return scanItems(rows)
}

// Create inserts the item and fills in its generated id.
func (r *MenuRepository) Create(ctx context.Context, it *menu.Item) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO menu_items (name, category, description, price, image)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		it.Name, it.Category, it.Description, it.Price, it.Image,
	).Scan(&it.ID)
	if err != nil {
		return errors.Wrapf(err, "create menu item %q", it.Name)
	}
	return nil
}

// Update rewrites the item. A missing row maps to menu.ErrNotFound.
func (r *MenuRepository) Update(ctx context.Context, it *menu.Item) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items
		 SET name = $2, category = $3, description = $4, price = $5, image = $6
		 WHERE id = $1`,
		it.ID, it.Name, it.Category, it.Description, it.Price, it.Image,
	)
	if err != nil {
		return errors.Wrapf(err, "update menu item %d", it.ID)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Delete removes the item. Historical order lines keep their frozen prices;
// only the catalog row disappears.
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete menu item %d", id)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]menu.Item, error) {
	var items []menu.Item
	for rows.Next() {
		var it menu.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Description, &it.Price, &it.Image); err != nil {
			return nil, errors.Wrap(err, "scan menu item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
