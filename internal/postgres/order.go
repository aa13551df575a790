package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/forkline/storefront/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and its items in one transaction. Either all
// rows are durably written or none are; a failure part-way leaves nothing
// behind.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, status)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		o.UserID, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, qty, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			o.ID, it.MenuItemID, it.Qty, it.UnitPrice,
		)
		if err != nil {
			return errors.Wrapf(err, "insert order item %d", it.MenuItemID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// ListByUser returns the user's orders newest first, items included. Totals
// are recomputed from the frozen line prices.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, created_at, status
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var orders []order.Order
	index := make(map[int64]int)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.Status); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.Total = decimal.Zero
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT oi.order_id, oi.menu_item_id, oi.qty, oi.unit_price
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.user_id = $1
		 ORDER BY oi.order_id, oi.id`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID int64
			it      order.Item
		)
		if err := itemRows.Scan(&orderID, &it.MenuItemID, &it.Qty, &it.UnitPrice); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		i, ok := index[orderID]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, it)
		orders[i].Total = orders[i].Total.Add(
			it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))),
		)
	}
	return orders, itemRows.Err()
}

// SalesSummary aggregates the all-time order count and sales total from the
// frozen line prices.
func (r *OrderRepository) SalesSummary(ctx context.Context) (order.Summary, error) {
	var sum order.Summary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT o.id),
		        COALESCE(SUM(oi.qty * oi.unit_price), 0)
		 FROM orders o
		 LEFT JOIN order_items oi ON oi.order_id = o.id`,
	).Scan(&sum.OrderCount, &sum.TotalSales)
	if err != nil {
		return order.Summary{}, errors.Wrap(err, "sales summary")
	}
	return sum, nil
}
