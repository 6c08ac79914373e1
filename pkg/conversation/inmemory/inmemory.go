// Package inmemory provides the default process-lifetime conversation store.
//
// State lives in an in-process map and is lost on restart; durability is an
// explicit non-guarantee of this store. The map is bounded by a configurable
// conversation cap with least-recently-used eviction.
package inmemory

import (
	"container/list"
	"context"
	"sync"

	"github.com/zubale/querybot/pkg/conversation"
)

// DefaultMaxEntries is the default conversation cap before LRU eviction.
const DefaultMaxEntries = 1024

// Store implements conversation.Store using an in-memory map.
type Store struct {
	// mu guards entries and order.
	mu sync.Mutex

	// entries maps conversation id to its LRU list element; the element
	// value is the stored *conversation.State.
	entries map[string]*list.Element

	// order is the LRU list, most recently used at the front.
	order *list.List

	// maxEntries caps the number of stored conversations; 0 = unbounded.
	maxEntries int

	locks *conversation.KeyedLock
}

// Config holds configuration for the in-memory store.
type Config struct {
	// MaxEntries caps the number of stored conversations; least recently
	// used conversations are evicted on overflow. 0 means unbounded.
	MaxEntries int
}

// NewStore creates a new in-memory conversation store.
func NewStore(cfg Config) *Store {
	return &Store{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: cfg.MaxEntries,
		locks:      conversation.NewKeyedLock(),
	}
}

// Acquire locks the given conversation id for the duration of a turn.
func (s *Store) Acquire(id string) func() {
	return s.locks.Acquire(id)
}

// Load returns a deep copy of the state for the given id.
func (s *Store) Load(_ context.Context, id string) (*conversation.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil, conversation.NotFoundError(id)
	}

	s.order.MoveToFront(elem)
	return elem.Value.(*conversation.State).Clone(), nil
}

// Save persists a deep copy of the given state, evicting the least recently
// used conversation when the cap is exceeded.
func (s *Store) Save(_ context.Context, state *conversation.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := state.Clone()

	if elem, ok := s.entries[state.ID]; ok {
		elem.Value = clone
		s.order.MoveToFront(elem)
		return nil
	}

	s.entries[state.ID] = s.order.PushFront(clone)

	if s.maxEntries > 0 && s.order.Len() > s.maxEntries {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*conversation.State).ID)
		}
	}

	return nil
}

// Len returns the number of stored conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return nil
}
