// Package kv provides the small persistent key-value stores used for the
// local content snapshot and the admin session flag.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned when a write would exceed the store's capacity.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store is a string key-value store that survives restarts.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore keeps values in process memory. Quota, when positive, bounds
// the total bytes of keys and values.
type MemoryStore struct {
	Quota int

	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{Quota: quota, data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	if m.Quota > 0 {
		used := len(key) + len(value)
		for k, v := range m.data {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used > m.Quota {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
