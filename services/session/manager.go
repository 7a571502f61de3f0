package session

import (
	"context"
	"sync"

	"trinhnail/database/kv"

	"github.com/google/uuid"
)

// Manager hands out one Session per browser. Each session persists its flag
// under AuthKey plus the session id.
type Manager struct {
	store      kv.Store
	passphrase string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store kv.Store, passphrase string) *Manager {
	if store == nil {
		store = kv.NewMemoryStore(0)
	}
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return &Manager{
		store:      store,
		passphrase: passphrase,
		sessions:   make(map[string]*Session),
	}
}

// NewID returns a fresh session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, creating it on first use. A session created
// after a restart picks up its persisted flag lazily.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(m.store, AuthKey+":"+id, m.passphrase)
	m.sessions[id] = s
	return s
}

// Login authenticates the session for id. A wrong passphrase leaves the
// manager untouched, so failed attempts never allocate a session.
func (m *Manager) Login(ctx context.Context, id, password string) (bool, error) {
	if password != m.passphrase {
		return false, nil
	}
	return m.Get(id).Login(ctx, password)
}

// Len reports how many sessions are held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Forget drops the in-memory session for id. Its persisted flag is untouched.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
