// Package session gates content writes behind the owner's shared passphrase.
package session

import (
	"context"
	"fmt"
	"sync"

	"trinhnail/database/kv"
)

const (
	// AuthKey is the key under which the authenticated flag is persisted.
	AuthKey = "trinh_admin_auth"

	DefaultPassphrase = "trinh888"

	authenticatedValue = "true"
)

// Session is a two-state admin login: authenticated or not.
type Session struct {
	store      kv.Store
	key        string
	passphrase string

	mu            sync.Mutex
	authenticated bool
	restored      bool
}

// New returns a session persisted under key. An empty passphrase selects the default.
func New(store kv.Store, key, passphrase string) *Session {
	if store == nil {
		store = kv.NewMemoryStore(0)
	}
	if key == "" {
		key = AuthKey
	}
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return &Session{store: store, key: key, passphrase: passphrase}
}

// Login compares password against the passphrase (case-sensitive). On a
// mismatch it returns false and leaves the state untouched. On a match the
// session is authenticated even if the flag could not be persisted; the
// persistence error is returned alongside.
func (s *Session) Login(ctx context.Context, password string) (bool, error) {
	if password != s.passphrase {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.restored = true
	if err := s.store.Set(ctx, s.key, authenticatedValue); err != nil {
		return true, fmt.Errorf("persist admin session: %w", err)
	}
	return true, nil
}

// Logout clears the flag and its persisted record unconditionally.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.restored = true
	if err := s.store.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear admin session: %w", err)
	}
	return nil
}

// IsAuthenticated reports the flag, restoring it from the store on first use.
func (s *Session) IsAuthenticated(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return s.authenticated, nil
	}

	v, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("restore admin session: %w", err)
	}
	s.authenticated = ok && v == authenticatedValue
	s.restored = true
	return s.authenticated, nil
}
