package engine

import "sync"

// Persistence keys shared between the engine and its Store.
const (
	KeyBestScore  = "best_score"
	KeyHints      = "hints_available"
	KeySlowTimers = "slow_timers_available"
)

// Store is the key-value persistence the engine seeds from and writes through to.
// Get is called once per key at construction; Set whenever a persisted field changes.
// Implementations must not call back into the engine.
type Store interface {
	Get(key string) (int, bool)
	Set(key string, value int) error
}

// CheckedStore is a Store that can tell a missing key from a failed read.
type CheckedStore interface {
	Store
	Lookup(key string) (int, bool, error)
}

// Lookup reads key from store. Read failures are only reported when store
// is a CheckedStore.
func Lookup(store Store, key string) (int, bool, error) {
	if cs, ok := store.(CheckedStore); ok {
		return cs.Lookup(key)
	}
	v, ok := store.Get(key)
	return v, ok, nil
}

// PlayRecorder is notified once per Start, e.g. to maintain a weekly play streak.
type PlayRecorder interface {
	RecordPlaySession()
}

// MemoryStore is an in-process Store, used when no database is available and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]int
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int)}
}

// Get returns the stored value for key.
func (s *MemoryStore) Get(key string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. It never fails.
func (s *MemoryStore) Set(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
