package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkline/storefront/internal/domain/cart"
	"github.com/forkline/storefront/internal/domain/menu"
)

// --- Mock implementations ---

type mockCatalog struct {
	byID   map[int64]menu.Item
	getErr error
}

func (m *mockCatalog) List(_ context.Context, _ string) ([]menu.Item, error) { return nil, nil }
func (m *mockCatalog) Categories(_ context.Context) ([]string, error)        { return nil, nil }
func (m *mockCatalog) Create(_ context.Context, _ *menu.Item) error          { return nil }
func (m *mockCatalog) Update(_ context.Context, _ *menu.Item) error          { return nil }
func (m *mockCatalog) Delete(_ context.Context, _ int64) error               { return nil }

func (m *mockCatalog) GetByID(_ context.Context, id int64) (*menu.Item, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return &it, nil
}

func (m *mockCatalog) GetByIDs(_ context.Context, ids []int64) ([]menu.Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var items []menu.Item
	for _, id := range ids {
		if it, ok := m.byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = 42
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ int64) ([]Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) SalesSummary(_ context.Context) (Summary, error) {
	return Summary{}, nil
}

// --- Helpers ---

func newCatalog(items ...menu.Item) *mockCatalog {
	byID := make(map[int64]menu.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &mockCatalog{byID: byID}
}

func newTestItem(id int64, name, price string) menu.Item {
	return menu.Item{
		ID:       id,
		Name:     name,
		Category: "Main",
		Price:    decimal.RequireFromString(price),
	}
}

// --- Tests ---

func TestCommit_EmptyCart(t *testing.T) {
	svc := NewService(newCatalog(), &mockOrderRepo{})

	_, err := svc.Commit(context.Background(), 1, cart.New())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCommit_FreezesPricesAndTotals(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	repo := &mockOrderRepo{}
	svc := NewService(newCatalog(pizza), repo)

	o, err := svc.Commit(context.Background(), 7, cart.Cart{3: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, int64(7), o.UserID)
	assert.Equal(t, StatusPlaced, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(3), o.Items[0].MenuItemID)
	assert.Equal(t, 2, o.Items[0].Qty)
	assert.True(t, decimal.RequireFromString("9.50").Equal(o.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("19.00").Equal(o.Total))
	assert.Same(t, o, repo.lastOrder)
}

func TestCommit_MultipleLines(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	bread := newTestItem(7, "Garlic Bread", "4.00")
	svc := NewService(newCatalog(pizza, bread), &mockOrderRepo{})

	o, err := svc.Commit(context.Background(), 1, cart.Cart{3: 1, 7: 3})
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.True(t, decimal.RequireFromString("21.50").Equal(o.Total))
}

func TestCommit_SkipsStaleCartEntries(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	svc := NewService(newCatalog(pizza), &mockOrderRepo{})

	o, err := svc.Commit(context.Background(), 1, cart.Cart{3: 1, 99: 5})
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(3), o.Items[0].MenuItemID)
	assert.True(t, decimal.RequireFromString("9.50").Equal(o.Total))
}

func TestCommit_AllEntriesStale(t *testing.T) {
	svc := NewService(newCatalog(), &mockOrderRepo{})

	_, err := svc.Commit(context.Background(), 1, cart.Cart{98: 1, 99: 2})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCommit_CatalogError(t *testing.T) {
	svc := NewService(&mockCatalog{getErr: errors.New("db down")}, &mockOrderRepo{})

	_, err := svc.Commit(context.Background(), 1, cart.Cart{3: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get menu items")
}

func TestCommit_RepoError(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	svc := NewService(newCatalog(pizza), &mockOrderRepo{createErr: errors.New("tx aborted")})

	_, err := svc.Commit(context.Background(), 1, cart.Cart{3: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestCommit_TotalImmuneToLaterPriceChange(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	catalog := newCatalog(pizza)
	svc := NewService(catalog, &mockOrderRepo{})

	o, err := svc.Commit(context.Background(), 1, cart.Cart{3: 2})
	require.NoError(t, err)

	// The catalog price changes after the commit; the captured order keeps
	// the price it was sold at.
	pizza.Price = decimal.RequireFromString("12.00")
	catalog.byID[3] = pizza

	assert.True(t, decimal.RequireFromString("9.50").Equal(o.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("19.00").Equal(o.Total))
}

func TestCommit_DoesNotClearCart(t *testing.T) {
	pizza := newTestItem(3, "Margherita Pizza", "9.50")
	svc := NewService(newCatalog(pizza), &mockOrderRepo{})
	c := cart.Cart{3: 2}

	_, err := svc.Commit(context.Background(), 1, c)
	require.NoError(t, err)

	// Clearing the cart is the caller's responsibility, after the commit
	// is confirmed and notifications dispatched.
	assert.Equal(t, cart.Cart{3: 2}, c)
}
