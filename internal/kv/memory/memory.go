package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/SergeyParamoshkin/voil/internal/kv"
)

// Store is an in-memory kv.Store. Keys are listed in lexical order.
type Store struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// Seed loads raw entries, replacing any existing values.
func (s *Store) Seed(entries map[string][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range entries {
		s.items[k] = append([]byte(nil), v...)
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}
