// Package cart implements the session-held shopping cart: a transient mapping
// of menu item id to requested quantity. A cart lives inside the user's
// session and is destroyed on logout or successful checkout.
package cart

import (
	"context"
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/forkline/storefront/internal/domain/menu"
)

// UpdateAction selects the cart mutation applied by Update.
type UpdateAction string

const (
	ActionInc UpdateAction = "inc"
	ActionDec UpdateAction = "dec"
)

// ErrUnknownAction is returned when Update receives an unrecognized action.
var ErrUnknownAction = errors.New("unknown cart action")

// Cart maps menu item id to quantity. Entries always hold quantity >= 1;
// mutations that would drop a quantity to zero or below remove the entry.
type Cart map[int64]int

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Add increments the quantity for id by one, starting at zero if absent.
// Existence against the catalog is deliberately not checked here; stale ids
// are dropped at view and commit time instead.
func (c Cart) Add(id int64) {
	c[id]++
}

// Update applies inc or dec to the entry for id. A resulting quantity of zero
// or below removes the entry entirely.
func (c Cart) Update(id int64, action UpdateAction) error {
	qty := c[id]
	switch action {
	case ActionInc:
		qty++
	case ActionDec:
		qty--
	default:
		return ErrUnknownAction
	}
	if qty <= 0 {
		delete(c, id)
		return nil
	}
	c[id] = qty
	return nil
}

// Remove deletes the entry for id regardless of quantity.
func (c Cart) Remove(id int64) {
	delete(c, id)
}

// Clear empties the cart in place.
func (c Cart) Clear() {
	for id := range c {
		delete(c, id)
	}
}

// IsEmpty reports whether the cart holds no entries.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// IDs returns the item ids in ascending order, so resolution and rendering
// are deterministic.
func (c Cart) IDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Line is one resolved cart entry priced at the current catalog price.
type Line struct {
	Item      menu.Item
	Qty       int
	LineTotal decimal.Decimal
}

// View is the cart resolved against the catalog. RemovedItems counts entries
// whose menu item no longer exists; they are dropped from Lines and Total
// rather than failing the view.
type View struct {
	Lines        []Line
	Total        decimal.Decimal
	RemovedItems int
}

// Resolve prices the cart against the current catalog in one batch lookup.
// Entries referencing ids absent from the catalog are silently skipped and
// counted in RemovedItems; both the cart view and order commit rely on this
// degradation policy.
func Resolve(ctx context.Context, c Cart, catalog menu.Repository) (View, error) {
	view := View{Total: decimal.Zero}
	if c.IsEmpty() {
		return view, nil
	}

	items, err := catalog.GetByIDs(ctx, c.IDs())
	if err != nil {
		return View{}, errors.Wrap(err, "resolve cart items")
	}

	byID := make(map[int64]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for _, id := range c.IDs() {
		it, ok := byID[id]
		if !ok {
			view.RemovedItems++
			continue
		}
		qty := c[id]
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Lines = append(view.Lines, Line{Item: it, Qty: qty, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}
	view.Total = view.Total.Round(2)

	return view, nil
}
