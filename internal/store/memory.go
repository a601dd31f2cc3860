// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live *game.Session values for the HTTP layer.
//
// Characteristics:
//   - Sessions keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; the SQLite Journal covers resume.
//   - Get returns ErrNotFound for missing IDs.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/footle/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session and stops its countdown.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete removes a session if present.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
	return nil
}
