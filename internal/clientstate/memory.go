package clientstate

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps state for many clients in process, keyed by client id.
type Memory struct {
	cache *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{cache: gocache.New(ttl, 2*ttl)}
}

// For returns the store of one client.
func (m *Memory) For(clientID string) Store {
	return &memoryStore{cache: m.cache, prefix: clientID + "/"}
}

type memoryStore struct {
	cache  *gocache.Cache
	prefix string
}

func (s *memoryStore) Get(key string) (string, bool, error) {
	v, ok := s.cache.Get(s.prefix + key)
	if !ok {
		return "", false, nil
	}

	str, ok := v.(string)
	return str, ok, nil
}

func (s *memoryStore) Set(key, value string) error {
	s.cache.SetDefault(s.prefix+key, value)
	return nil
}
