package store

import (
	"encoding/json"
	"slices"
	"sort"
	"sync"

	"github.com/zulandar/pitwall/internal/keys"
)

// MemoryStore is an in-memory Store with the same ordering semantics as
// GormStore. It is used by tests and by one-shot tooling.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	index  map[string][]string // category -> keys in first-write order
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: map[string]string{},
		index:  map[string][]string{},
	}
}

func (s *MemoryStore) Get(key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return json.RawMessage(v), true, nil
}

func (s *MemoryStore) Set(key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.values[key]
	s.values[key] = data
	if existed {
		return nil
	}
	if k, err := keys.Parse(key); err == nil {
		s.index[k.Category] = append(s.index[k.Category], key)
	}
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	if k, err := keys.Parse(key); err == nil {
		list := slices.DeleteFunc(s.index[k.Category], func(x string) bool { return x == key })
		if len(list) == 0 {
			delete(s.index, k.Category)
		} else {
			s.index[k.Category] = list
		}
	}
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) KeysIn(category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.index[category]), nil
}

func (s *MemoryStore) Categories() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.index))
	for c := range s.index {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
