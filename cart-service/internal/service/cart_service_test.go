package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStorage struct {
	m     sync.RWMutex
	saved []cart.CartItem
	saves int
}

func (m *mockStorage) Load(context.Context) ([]cart.CartItem, error) {
	return nil, nil
}

func (m *mockStorage) Save(_ context.Context, items []cart.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saved = items
	m.saves++
	return nil
}

func (m *mockStorage) saveCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.saves
}

type mockLister struct {
	m        sync.RWMutex
	services []catalog.Service
	err      error
}

func (m *mockLister) ListServices(context.Context) ([]catalog.Service, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.services, nil
}

func testServices() []catalog.Service {
	return []catalog.Service{
		{
			ID:      1,
			Title:   "Audit",
			Type:    catalog.ServiceTypeOneTime,
			Price:   catalog.Float(100),
			Options: []catalog.Option{{Name: "extra", Price: 20}},
		},
		{
			ID:                2,
			Title:             "Maintenance",
			Type:              catalog.ServiceTypeSubscription,
			Price:             catalog.Float(300),
			SubscriptionPrice: catalog.Float(49.9),
		},
	}
}

func newTestService(t *testing.T, lister *mockLister) (*CartService, *mockStorage) {
	t.Helper()
	storage := &mockStorage{}
	store := cart.NewStore(context.Background(), storage, zap.NewNop())
	return NewCartService(store, catalog.NewLoader(lister), zap.NewNop()), storage
}

func selection(t *testing.T, m map[string]int) cart.SelectedOptions {
	t.Helper()
	o, err := cart.NewSelectedOptions(m)
	require.NoError(t, err)
	return o
}

func TestAddItem_ResolvesServiceFromCatalog(t *testing.T) {
	svc, storage := newTestService(t, &mockLister{services: testServices()})

	item, err := svc.AddItem(context.Background(), 1, 2, selection(t, map[string]int{"extra": 1}))
	require.NoError(t, err)

	assert.Equal(t, int64(1), item.ServiceID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "Audit", item.Service.Title)
	assert.Equal(t, 1, item.SelectedOptions.Quantity("extra"))
	assert.Equal(t, 1, storage.saveCount())
}

func TestAddItem_ClampsQuantity(t *testing.T) {
	svc, _ := newTestService(t, &mockLister{services: testServices()})

	item, err := svc.AddItem(context.Background(), 2, 0, cart.SelectedOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestAddItem_UnknownService(t *testing.T) {
	svc, storage := newTestService(t, &mockLister{services: testServices()})

	_, err := svc.AddItem(context.Background(), 99, 1, cart.SelectedOptions{})
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
	assert.Equal(t, 0, storage.saveCount())
}

func TestAddItem_UnknownOption(t *testing.T) {
	svc, storage := newTestService(t, &mockLister{services: testServices()})

	_, err := svc.AddItem(context.Background(), 1, 1, selection(t, map[string]int{"gift-wrap": 1}))
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, 0, storage.saveCount())
}

func TestAddItem_CatalogError(t *testing.T) {
	svc, _ := newTestService(t, &mockLister{err: errors.New("connection refused")})

	_, err := svc.AddItem(context.Background(), 1, 1, cart.SelectedOptions{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestMissingLine_ReportsError(t *testing.T) {
	svc, storage := newTestService(t, &mockLister{services: testServices()})
	ctx := context.Background()

	assert.ErrorIs(t, svc.RemoveItem(ctx, 1), ErrItemNotInCart)
	_, err := svc.UpdateQuantity(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrItemNotInCart)
	_, err = svc.SetOptions(ctx, 1, cart.SelectedOptions{})
	assert.ErrorIs(t, err, ErrItemNotInCart)
	assert.Equal(t, 0, storage.saveCount())
}

func TestUpdateQuantity_And_SetOptions(t *testing.T) {
	svc, _ := newTestService(t, &mockLister{services: testServices()})
	ctx := context.Background()
	_, err := svc.AddItem(ctx, 1, 1, cart.SelectedOptions{})
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, 1, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	item, err = svc.SetOptions(ctx, 1, selection(t, map[string]int{"extra": 2}))
	require.NoError(t, err)
	assert.Equal(t, 2, item.SelectedOptions.Quantity("extra"))

	_, err = svc.SetOptions(ctx, 1, selection(t, map[string]int{"rush": 1}))
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService(t, &mockLister{services: testServices()})
	ctx := context.Background()
	_, err := svc.AddItem(ctx, 1, 2, selection(t, map[string]int{"extra": 1}))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, 1, cart.SelectedOptions{})
	require.NoError(t, err)

	sum := svc.Summary()
	require.Len(t, sum.Lines, 2)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, "120", sum.Lines[0].UnitTotal.String())
	assert.Equal(t, "240", sum.Lines[0].LineTotal.String())
	assert.Equal(t, "49.9", sum.Lines[1].LineTotal.String())
	assert.Equal(t, "289.9", sum.Total.String())

	svc.Clear(ctx)
	assert.Empty(t, svc.Summary().Lines)
}
