package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is the in-process fallback used on managed hosting without a
// remote endpoint: non-durable, but safe on a read-only filesystem. It
// is an explicitly constructed object owned by the composition root and
// shared by handle, not a hidden package-level singleton. Values are
// round-tripped through JSON so callers never share mutable state with
// the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (s *Memory) Get(_ context.Context, key string, out any) bool {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *Memory) Set(_ context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
