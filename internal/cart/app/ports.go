package app

import "context"

// Store is the device-local key-value persistence backing the cart.
// Values are opaque serialized carts; Load returns ErrNotFound from the
// implementation's package when no cart was ever saved under key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
