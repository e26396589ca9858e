// Package cache provides the in-memory TTL key/value store backing report,
// risk, and condition caching.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// cleanupInterval controls how often expired entries are swept. The sweep
// rebuilds the map so memory from deleted keys is actually reclaimed.
const cleanupInterval = 5 * time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is a thread-safe TTL byte cache. Expired entries behave as absent on
// Get and Exists. Get and Set are independent operations; callers that
// check-then-act race with each other by design (duplicate computation is
// tolerated rather than serialized).
type Store struct {
	clock   clockwork.Clock
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
	once    sync.Once
}

// New creates a Store using the real clock and starts the background sweep.
func New() *Store {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock creates a Store with an injected clock for expiry tests.
func NewWithClock(clk clockwork.Clock) *Store {
	s := &Store{
		clock:   clk,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get returns the value for key if present and not expired.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL, replacing any prior entry.
// Non-positive TTLs are ignored; an entry must always outlive its write.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.clock.Now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Exists reports whether key holds an unexpired entry.
func (s *Store) Exists(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Close stops the background sweep goroutine.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := s.clock.Now()
			s.mu.Lock()
			fresh := make(map[string]entry, len(s.entries)/2)
			for k, e := range s.entries {
				if now.Before(e.expiresAt) {
					fresh[k] = e
				}
			}
			s.entries = fresh
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
