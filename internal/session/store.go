package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session state by id. Load returns (nil, nil) for an unknown
// or expired id.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Memory is an in-process Store for tests and single-node development.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Load returns a copy of the stored state, or nil when absent or expired.
func (m *Memory) Load(_ context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, id)
		return nil, nil
	}
	st := e.state
	return &st, nil
}

// Save stores a copy of the state under id with the given TTL.
func (m *Memory) Save(_ context.Context, id string, st *State, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{
		state:     *st,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete removes the state for id.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}
