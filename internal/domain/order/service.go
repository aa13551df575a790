package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/forkline/storefront/internal/domain/cart"
	"github.com/forkline/storefront/internal/domain/menu"
)

// ErrEmptyCart is returned when commit is attempted with no cart entries, or
// when every entry references an item that no longer exists in the catalog.
var ErrEmptyCart = errors.New("cart is empty")

// Service encapsulates order commit business logic.
type Service struct {
	catalog menu.Repository
	orders  Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(catalog menu.Repository, orders Repository) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
	}
}

// Commit turns the cart into a persisted order for userID. Item prices are
// read from the current catalog and frozen into the order lines; cart entries
// whose item no longer exists are skipped, matching the cart view policy.
// Persistence is all-or-nothing: on failure nothing is written, the error is
// returned, and the caller must NOT clear the cart so the user can retry.
func (s *Service) Commit(ctx context.Context, userID int64, c cart.Cart) (*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Batch fetch all referenced items in a single query.
	items, err := s.catalog.GetByIDs(ctx, c.IDs())
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	byID := make(map[int64]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	lines := make([]Item, 0, len(c))
	total := decimal.Zero
	for _, id := range c.IDs() {
		it, ok := byID[id]
		if !ok {
			// Stale cart reference: degrade gracefully, never fail.
			continue
		}
		qty := c[id]
		lines = append(lines, Item{
			MenuItemID: it.ID,
			Qty:        qty,
			UnitPrice:  it.Price,
		})
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	// A cart whose every entry went stale would otherwise produce an order
	// with no lines; treat it the same as the empty-cart precondition.
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		UserID: userID,
		Status: StatusPlaced,
		Items:  lines,
		Total:  total.Round(2),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// SalesSummary exposes the aggregate used by the admin daily-summary run.
func (s *Service) SalesSummary(ctx context.Context) (Summary, error) {
	sum, err := s.orders.SalesSummary(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "sales summary")
	}
	return sum, nil
}
