package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a sorted-slice Store.
//
// Ordering: MOV DESC, then TID ASC (deterministic). Ovr is derived from MOV,
// so this is also ovr order.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	byTID   map[int]int // tid -> index in entries
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTID: make(map[int]int)}
}

// less reports whether a ranks ahead of b.
func less(a, b Entry) bool {
	if a.MOV != b.MOV {
		return a.MOV > b.MOV
	}
	return a.TID < b.TID
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byTID[e.TID]; ok {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	i := sort.Search(len(s.entries), func(i int) bool { return less(e, s.entries[i]) })
	s.entries = append(s.entries, Entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e

	s.reindex()
	return nil
}

// reindex refreshes ranks and the tid index. Caller holds the write lock.
func (s *MemoryStore) reindex() {
	clear(s.byTID)
	for i := range s.entries {
		s.entries[i].Rank = i + 1
		s.byTID[s.entries[i].TID] = i
	}
}

// Rank implements Store.
func (s *MemoryStore) Rank(_ context.Context, tid int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byTID[tid]
	if !ok {
		return Entry{}, fmt.Errorf("%w: tid %d", ErrNotFound, tid)
	}
	return s.entries[i], nil
}

// TopN implements Store.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n = min(n, len(s.entries))
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
