// Package order implements order placement: the atomic materialization of a
// session cart into a persisted order with frozen unit prices.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPlaced is the status every order starts in. Orders are immutable
// after creation in this system.
const StatusPlaced = "PLACED"

// Order is a committed purchase. Total is always reconstructable as the sum
// of Qty * UnitPrice over Items; the stored unit prices are frozen at commit
// time and never follow later catalog changes.
type Order struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	Status    string
	Items     []Item
	Total     decimal.Decimal
}

// Item is one order line. UnitPrice is the catalog price captured at the
// moment the order was committed.
type Item struct {
	MenuItemID int64
	Qty        int
	UnitPrice  decimal.Decimal
}

// Summary aggregates all historically placed orders for the daily sales
// report.
type Summary struct {
	OrderCount int64
	TotalSales decimal.Decimal
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and all its items in a single transaction:
	// either every row is written or none is. On success the order's ID and
	// CreatedAt are filled in.
	Create(ctx context.Context, o *Order) error
	// ListByUser returns the user's orders, newest first, items included.
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	// SalesSummary returns the all-time order count and sales total computed
	// from frozen line prices.
	SalesSummary(ctx context.Context) (Summary, error)
}
