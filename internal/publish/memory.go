package publish

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps published files in process memory. Used for dry runs and tests.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (s *Memory) Driver() Driver { return DriverMemory }

func (s *Memory) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.files[k] = cp
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the file stored under key.
func (s *Memory) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.files[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true
}

// Keys returns all stored keys in sorted order.
func (s *Memory) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
