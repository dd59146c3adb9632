package store

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
)

// MemcacheKV stores blobs in memcached with a short-lived in-process copy in
// front of it.  Writes go to both levels; reads hit the local level first.
type MemcacheKV struct {
	client   *memcache.Client
	local    *ccache.Cache[[]byte]
	localTTL time.Duration
}

// NewMemcacheKV connects to the given memcached servers.  localTTL bounds how
// stale a read served from the in-process level may be; zero disables it.
func NewMemcacheKV(localTTL time.Duration, servers ...string) *MemcacheKV {
	return &MemcacheKV{
		client:   memcache.New(servers...),
		local:    ccache.New(ccache.Configure[[]byte]().MaxSize(1000)),
		localTTL: localTTL,
	}
}

// Ping checks that at least one memcached server answers.
func (s *MemcacheKV) Ping() error { return s.client.Ping() }

func (s *MemcacheKV) Get(_ context.Context, key string) ([]byte, error) {
	if s.localTTL > 0 {
		if item := s.local.Get(key); item != nil && !item.Expired() {
			return item.Value(), nil
		}
	}
	it, err := s.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if s.localTTL > 0 {
		s.local.Set(key, it.Value, s.localTTL)
	}
	return it.Value, nil
}

func (s *MemcacheKV) Set(_ context.Context, key string, value []byte) error {
	if err := s.client.Set(&memcache.Item{Key: key, Value: value}); err != nil {
		return err
	}
	if s.localTTL > 0 {
		s.local.Set(key, value, s.localTTL)
	}
	return nil
}

func (s *MemcacheKV) Delete(_ context.Context, key string) error {
	s.local.Delete(key)
	err := s.client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}
