package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NothingSaved(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "cart.json"))

	items, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webly", "cart.json")
	s := NewFileStorage(path)
	ctx := context.Background()
	opts, err := cart.NewSelectedOptions(map[string]int{"extra": 2})
	require.NoError(t, err)

	err = s.Save(ctx, []cart.CartItem{{
		ServiceID:       4,
		Quantity:        2,
		Service:         catalog.Service{ID: 4, Title: "Audit", Price: catalog.Float(100)},
		SelectedOptions: opts,
	}})
	require.NoError(t, err)

	items, err := NewFileStorage(path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Audit", items[0].Service.Title)
	assert.Equal(t, 2, items[0].SelectedOptions.Quantity("extra"))
}

func TestSave_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))
	s := NewFileStorage(path)

	require.NoError(t, s.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","consultpro_cart":[]}`, string(data))
}

func TestLoad_CorruptCart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"consultpro_cart":[{"selectedOptions":[1]}]}`), 0o600))

	_, err := NewFileStorage(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptStorage)
}

func TestSave_OverwritesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	s := NewFileStorage(path)

	require.NoError(t, s.Save(context.Background(), []cart.CartItem{{ServiceID: 1, Quantity: 1}}))

	items, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
