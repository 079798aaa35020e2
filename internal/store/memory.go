// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Games are never written anywhere else: a restart drops every session.
//
// Characteristics:
//   - Stores Session values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs its closure under the write lock, so shots on one game are
//     applied one at a time.
//   - Errors wrap ErrNotFound for missing game IDs.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/battleship/internal/game"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("not found")

// Session is one game in progress together with its bookkeeping.
// A session outlives resets; each generated field is a new round.
type Session struct {
	ID        string
	RoundID   string // identifies the current field, renewed on reset
	UserID    string // set for signed-in players
	AnonID    string // set for guests
	Daily     string // date key for daily games, empty otherwise
	State     game.GameState
	Shots     int // shots that changed the current field
	StartedAt time.Time
}

// NewSession wraps a fresh state with new random IDs.
func NewSession(userID, anonID string, st game.GameState) Session {
	return Session{
		ID:        uuid.NewString(),
		RoundID:   uuid.NewString(),
		UserID:    userID,
		AnonID:    anonID,
		State:     st,
		StartedAt: time.Now().UTC(),
	}
}

// NewRound replaces the field and starts a new round on the same session.
func (s *Session) NewRound(st game.GameState) {
	s.RoundID = uuid.NewString()
	s.State = st
	s.Shots = 0
	s.StartedAt = time.Now().UTC()
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (Session, error)

	// Update loads a session, applies fn and stores the result unless fn
	// fails. It returns the stored session.
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex       // guards sessions map
	sessions map[string]Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]Session)}
}

// Save adds or replaces the session in the map.
func (m *memory) Save(ctx context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
}

// Update applies fn to a copy of the session while holding the write lock.
func (m *memory) Update(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if err := fn(&s); err != nil {
		return m.sessions[id], err
	}
	s.ID = id
	m.sessions[id] = s
	return s, nil
}
