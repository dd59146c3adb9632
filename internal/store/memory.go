package store

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// memoryTTL keeps entries of the in-process store effectively forever;
// ccache requires a ttl on every Set.
const memoryTTL = 100 * 365 * 24 * time.Hour

// MemoryKV keeps blobs in an in-process ccache.  Its content is lost on
// restart, so it is only meant for development or as a last resort when
// neither Redis nor memcached is reachable.
type MemoryKV struct {
	cache *ccache.Cache[[]byte]
}

// NewMemoryKV returns an empty in-process store holding up to maxItems keys.
func NewMemoryKV(maxItems int64) *MemoryKV {
	if maxItems <= 0 {
		maxItems = 10000
	}
	return &MemoryKV{cache: ccache.New(ccache.Configure[[]byte]().MaxSize(maxItems))}
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, ErrMiss
	}
	v := item.Value()
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.cache.Set(key, v, memoryTTL)
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Stop releases the cache's background worker.
func (s *MemoryKV) Stop() { s.cache.Stop() }
