package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/voicemed/platform/internal/catalog"
)

// SessionStore persists one wizard per browser session. Each session is
// driven by a single client at a time, matching the wizard's single-caller
// contract; stores serialize their own map access but do not arbitrate
// concurrent transitions on the same session.
type SessionStore interface {
	// Create starts a new session with a fresh wizard and returns its id.
	Create(ctx context.Context) (string, error)
	// Get rehydrates the session's wizard, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Wizard, error)
	// Save captures the wizard state back into the session.
	Save(ctx context.Context, id string, w *Wizard) error
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore keeps wizard snapshots in a mutex-guarded map. It is
// the default when Redis is not configured.
type MemorySessionStore struct {
	catalog *catalog.Catalog

	mu       sync.RWMutex
	sessions map[string]State
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore(cat *catalog.Catalog) *MemorySessionStore {
	return &MemorySessionStore{
		catalog:  cat,
		sessions: make(map[string]State),
	}
}

func (s *MemorySessionStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = New(s.catalog).State()
	s.mu.Unlock()

	return id, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Wizard, error) {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return Restore(s.catalog, state), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, id string, w *Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[id] = w.State()
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
