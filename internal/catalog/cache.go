package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/eworkforce/malabro-cart/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Source is the read side of the catalog. Consumers define this interface,
// not the sqlite implementation.
type Source interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

// CachedSource memoizes GetProduct lookups. The catalog is read-only in this
// process, so entries never need invalidation.
type CachedSource struct {
	inner Source

	mu   sync.RWMutex
	byID map[int64]*domain.Product
	sfg  singleflight.Group // Prevents duplicate lookups for the same id
}

func NewCachedSource(inner Source) *CachedSource {
	return &CachedSource{
		inner: inner,
		byID:  make(map[int64]*domain.Product),
	}
}

func (c *CachedSource) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	c.mu.RLock()
	p, ok := c.byID[id]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		p, err := c.inner.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.byID[id] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (c *CachedSource) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return c.inner.ListProducts(ctx)
}
