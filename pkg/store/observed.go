package store

import (
	"context"
	"time"

	"github.com/vantagedata/dashlayout/pkg/observability"
)

// Observed wraps a Store and reports hits, misses, writes and failures to
// the registered observability store hooks.
type Observed struct {
	Store
}

// Observe wraps s. Wrapping an already observed store returns it as is.
func Observe(s Store) Store {
	if _, ok := s.(*Observed); ok {
		return s
	}
	return &Observed{Store: s}
}

func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Store.Get(ctx, key)
	hooks := observability.Store()
	switch {
	case err != nil:
		hooks.OnStoreError(ctx, "get", keyType(key), err)
	case hit:
		hooks.OnStoreHit(ctx, keyType(key))
	default:
		hooks.OnStoreMiss(ctx, keyType(key))
	}
	return data, hit, err
}

func (o *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Store.Set(ctx, key, data, ttl)
	if err != nil {
		observability.Store().OnStoreError(ctx, "set", keyType(key), err)
		return err
	}
	observability.Store().OnStoreSet(ctx, keyType(key), len(data))
	return nil
}

func (o *Observed) Delete(ctx context.Context, key string) error {
	err := o.Store.Delete(ctx, key)
	if err != nil {
		observability.Store().OnStoreError(ctx, "delete", keyType(key), err)
	}
	return err
}
