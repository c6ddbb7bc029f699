// Package memory is an in-memory store backend for tests. Partitions are
// kept as serialized bytes so every Load hands out an independent copy,
// the same isolation callers get from the file backend.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nantkhun/fintracker/internal/store"
)

type Store struct {
	mu         sync.RWMutex
	partitions map[string][]byte
}

func New() *Store {
	return &Store{partitions: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, partition string, dest any) error {
	s.mu.RLock()
	data, ok := s.partitions[partition]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: partition %q: %v", store.ErrCorrupt, partition, err)
	}

	return nil
}

func (s *Store) Save(_ context.Context, partition string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode partition %q: %v", store.ErrWrite, partition, err)
	}

	s.mu.Lock()
	s.partitions[partition] = data
	s.mu.Unlock()

	return nil
}

// Corrupt overwrites a partition with unparseable bytes. Test helper.
func (s *Store) Corrupt(partition string) {
	s.mu.Lock()
	s.partitions[partition] = []byte("{not json")
	s.mu.Unlock()
}
