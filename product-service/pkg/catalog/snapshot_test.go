package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	calls    atomic.Int32
	delay    time.Duration
	services []Service
	err      error
}

func (m *mockLister) ListServices(ctx context.Context) ([]Service, error) {
	m.calls.Add(1)
	time.Sleep(m.delay)
	return m.services, m.err
}

func TestSnapshot_FindReturnsCopy(t *testing.T) {
	snap := NewSnapshot([]Service{
		{ID: 1, Title: "Audit", Price: Float(100), Options: []Option{{Name: "extra", Price: 20}}},
	})

	got, err := snap.Find(1)
	require.NoError(t, err)
	*got.Price = 1
	got.Options[0].Price = 0

	again, err := snap.Find(1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *again.Price)
	assert.Equal(t, 20.0, again.Options[0].Price)
}

func TestSnapshot_FindMissing(t *testing.T) {
	snap := NewSnapshot(nil)

	_, err := snap.Find(42)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestLoader_CoalescesConcurrentLoads(t *testing.T) {
	lister := &mockLister{delay: 50 * time.Millisecond, services: []Service{{ID: 1}, {ID: 2}}}
	loader := NewLoader(lister)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := loader.Load(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 2, snap.Len())
		}()
	}
	wg.Wait()

	assert.Less(t, lister.calls.Load(), int32(10))
}

func TestLoader_PropagatesError(t *testing.T) {
	loader := NewLoader(&mockLister{err: errors.New("connection refused")})

	_, err := loader.Load(context.Background())
	require.ErrorContains(t, err, "list services")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45min", FormatDuration(45))
	assert.Equal(t, "2h", FormatDuration(120))
	assert.Equal(t, "1h30", FormatDuration(90))
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, "Sur devis", DisplayPrice(Service{Type: ServiceTypeOneTime}))
	assert.Equal(t, "150.5€", DisplayPrice(Service{Type: ServiceTypeOneTime, Price: Float(150.5)}))
	assert.Equal(t, "49€/mois", DisplayPrice(Service{
		Type:              ServiceTypeSubscription,
		Price:             Float(500),
		SubscriptionPrice: Float(49),
	}))
}
