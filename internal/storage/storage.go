package storage

import (
	"context"
	"errors"
)

// KV is the string-keyed medium carts are mirrored to. The cart composes its
// own keys (cart_guest, cart_<id>); implementations treat keys and values as
// opaque.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
