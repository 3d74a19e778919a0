// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live rounds (a game session plus, for AI rounds, its paired solver),
// primarily for the HTTP driver. Finished rounds are persisted elsewhere.
//
// Characteristics:
//   - Stores *Entry values keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Entry carries its own mutex so one round is mutated by one request at a time.
//   - State is lost when the process restarts; the HTTP server evicts stale
//     rounds itself (IDs + Delete).
//   - ErrNotFound is returned for missing IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/solver"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("store: round not found")

// Mode tells who makes the guesses of a round.
type Mode string

const (
	ModeHuman Mode = "human"
	// ModeAIDictionary: the AI guesses a word picked from the catalog.
	ModeAIDictionary Mode = "ai_dictionary"
	// ModeAIUser: the AI guesses a word typed by a person.
	ModeAIUser Mode = "ai_user"
	ModeDaily  Mode = "daily"
)

// Entry is one live round.
type Entry struct {
	mu sync.Mutex

	Session *game.Session
	// Solver is nil for human rounds.
	Solver solver.Solver
	Mode   Mode
	// PlayerID is set for signed-in players, AnonymousID otherwise.
	PlayerID    string
	AnonymousID string
	// DailyDate and WordIndex identify the daily word for ModeDaily rounds.
	DailyDate string
	WordIndex int
	// Persisted is set once the finished round has been settled, at FinishedAt.
	Persisted  bool
	FinishedAt time.Time
}

// Owner returns whichever identity owns the round.
func (e *Entry) Owner() string {
	if e.PlayerID != "" {
		return e.PlayerID
	}
	return e.AnonymousID
}

// Lock serialises access to the round.
func (e *Entry) Lock() { e.mu.Lock() }

// Unlock releases the round.
func (e *Entry) Unlock() { e.mu.Unlock() }

// Store defines the live-round registry.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save adds or replaces the entry under its session ID.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete drops an entry.
	Delete(ctx context.Context, id string) error

	// Len is the number of live entries.
	Len() int

	// IDs lists the IDs of all live entries, in no particular order.
	IDs() []string
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards entries map
	entries map[string]*Entry // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]*Entry)}
}

// Save adds or updates the entry in the map.
func (m *memory) Save(ctx context.Context, e *Entry) error {
	if e == nil || e.Session == nil {
		return errors.New("store: entry without session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session.ID()] = e
	return nil
}

// Get looks up an entry by ID.
func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}
