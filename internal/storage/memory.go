package storage

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore lives for the process only. Used by tests and --ephemeral.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ Storage = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.cache.Get(key)
	observe("memory", "get", nil)
	if !ok {
		return "", false, nil
	}
	str, _ := value.(string)
	return str, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, gocache.NoExpiration)
	observe("memory", "set", nil)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	observe("memory", "remove", nil)
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
