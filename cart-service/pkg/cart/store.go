package cart

import (
	"context"
	"sync"

	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"go.uber.org/zap"
)

// Observer is called after each persisted change. It may read the store but
// must not mutate it.
type Observer func(s *Store)

type subscription struct {
	id uint64
	fn Observer
}

type Store struct {
	storage Storage
	logger  *zap.Logger

	writeMu sync.Mutex // one mutation, save and broadcast at a time
	mu      sync.RWMutex
	items   []CartItem

	obsMu     sync.Mutex
	observers []subscription
	nextSubID uint64
}

// NewStore restores the cart from storage. A cart that cannot be loaded is
// logged and replaced by an empty one.
func NewStore(ctx context.Context, storage Storage, logger *zap.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  logger,
		items:   []CartItem{},
	}

	items, err := storage.Load(ctx)
	if err != nil {
		logger.Warn("cart restore failed, starting empty", zap.Error(err))
		return s
	}
	if items != nil {
		s.items = items
	}
	return s
}

// AddItem appends the service or, when it is already in the cart, adds to its
// quantity and overlays the new option selection on the existing one.
func (s *Store) AddItem(ctx context.Context, service catalog.Service, quantity int, options SelectedOptions) {
	s.mutate(ctx, "add_item", func(items []CartItem) ([]CartItem, bool) {
		for i := range items {
			if items[i].ServiceID == service.ID {
				items[i].Quantity += quantity
				items[i].SelectedOptions = items[i].SelectedOptions.Merge(options)
				return items, true
			}
		}
		return append(items, CartItem{
			ServiceID:       service.ID,
			Quantity:        quantity,
			Service:         service.Clone(),
			SelectedOptions: options.Clone(),
		}), true
	})
}

func (s *Store) RemoveItem(ctx context.Context, serviceID int64) {
	s.mutate(ctx, "remove_item", func(items []CartItem) ([]CartItem, bool) {
		for i := range items {
			if items[i].ServiceID == serviceID {
				return append(items[:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

// UpdateQuantity sets the line quantity, clamped to at least 1.
func (s *Store) UpdateQuantity(ctx context.Context, serviceID int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mutate(ctx, "update_quantity", func(items []CartItem) ([]CartItem, bool) {
		for i := range items {
			if items[i].ServiceID == serviceID {
				items[i].Quantity = quantity
				return items, true
			}
		}
		return items, false
	})
}

// SetSelectedOptions replaces the line's option selection.
func (s *Store) SetSelectedOptions(ctx context.Context, serviceID int64, options SelectedOptions) {
	s.mutate(ctx, "set_selected_options", func(items []CartItem) ([]CartItem, bool) {
		for i := range items {
			if items[i].ServiceID == serviceID {
				items[i].SelectedOptions = options.Clone()
				return items, true
			}
		}
		return items, false
	})
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func([]CartItem) ([]CartItem, bool) {
		return []CartItem{}, true
	})
}

// ItemCount sums quantities across lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// Items returns a deep copy in insertion order.
func (s *Store) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Item(serviceID int64) (CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ServiceID == serviceID {
			return it.Clone(), true
		}
	}
	return CartItem{}, false
}

// Subscribe registers an observer and returns the function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// mutate applies fn, persists the result and notifies observers. A failed
// save keeps the in-memory change and skips the broadcast.
func (s *Store) mutate(ctx context.Context, op string, fn func([]CartItem) ([]CartItem, bool)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	snapshot := cloneItems(next)
	s.mu.Unlock()

	if err := s.storage.Save(ctx, snapshot); err != nil {
		s.logger.Error("cart persist failed", zap.String("op", op), zap.Error(err))
		return
	}
	s.notify()
}

func (s *Store) notify() {
	s.obsMu.Lock()
	subs := make([]subscription, len(s.observers))
	copy(subs, s.observers)
	s.obsMu.Unlock()

	for _, sub := range subs {
		sub.fn(s)
	}
}
