package cart

import "context"

// Storage persists the whole cart under StorageKey.
// Consumers define this interface, implementations live in cart-service/internal.
type Storage interface {
	Load(ctx context.Context) ([]CartItem, error)
	Save(ctx context.Context, items []CartItem) error
}
