package cache

import (
	"context"
	"time"
)

// NullCache disables caching: lookups always miss and writes are dropped.
// The zero value is ready to use.
type NullCache struct{}

// NewNullCache returns the cache used for --no-cache runs and when the
// configured backend cannot be opened.
func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
