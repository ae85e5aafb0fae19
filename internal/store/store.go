// ABOUTME: Bounded LRU cache of decoded sound clips
// ABOUTME: Safe for concurrent use; decode happens outside the lock
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/harperreed/keyclack/pkg/audio"
	"github.com/harperreed/keyclack/pkg/audio/decode"
)

// ErrInvalidCapacity is returned for non-positive cache capacities.
var ErrInvalidCapacity = errors.New("store capacity must be positive")

// DecodeFunc loads and decodes a sound file. It is the store's only
// collaborator; tests substitute stubs for it.
type DecodeFunc func(path string) (*audio.Clip, error)

// Store is a bounded cache of decoded clips keyed by file path.
// Eviction is strict least-recently-used; both Load hits and Get count
// as access. A single mutex guards the mapping, and it is never held
// across a decode.
type Store struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, *audio.Clip]
	decode  DecodeFunc
}

// New creates a store holding at most capacity clips. A nil decoder
// defaults to decode.File.
func New(capacity int, dec DecodeFunc) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if dec == nil {
		dec = decode.File
	}

	entries, err := simplelru.NewLRU[string, *audio.Clip](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapacity, err)
	}

	return &Store{entries: entries, decode: dec}, nil
}

// Load ensures the clip for path is cached, decoding it on a miss.
// A hit refreshes recency and never re-reads the source. Inserting
// into a full store evicts the least-recently-used entry.
func (s *Store) Load(path string) error {
	s.mu.Lock()
	if _, ok := s.entries.Get(path); ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	// Decode with the lock released so a slow file read never stalls
	// lookups for other keys.
	clip, err := s.decode(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have finished the same decode first; their
	// entry wins and this clip is discarded.
	if _, ok := s.entries.Get(path); ok {
		return nil
	}
	s.entries.Add(path, clip)
	return nil
}

// Get returns the cached clip for path, refreshing its recency.
// It never triggers a load.
func (s *Store) Get(path string) (*audio.Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(path)
}

// Len reports how many clips are currently cached.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

// EvictAll drops every cached clip. Idempotent.
func (s *Store) EvictAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Purge()
}
