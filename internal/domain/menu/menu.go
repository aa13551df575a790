// Package menu holds the food catalog: items customers browse and admins manage.
package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item is a single catalog entry. Image is a stored reference (filename or
// URL path), never file contents.
type Item struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Image       string
}

// Repository defines catalog operations. Reads serve browsing and cart
// resolution; writes are admin-only.
type Repository interface {
	// List returns items ordered by category then name. An empty category
	// returns the whole catalog.
	List(ctx context.Context, category string) ([]Item, error)
	// Categories returns the distinct non-empty categories, sorted.
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	// GetByIDs returns the items matching ids. Missing ids are simply absent
	// from the result; callers decide how to treat them.
	GetByIDs(ctx context.Context, ids []int64) ([]Item, error)

	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
