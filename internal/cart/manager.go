package cart

import (
	"context"
	"log"
	"sync"
)

// Manager hands out one Store per browsing session. A store is created on
// first use and restored from durable storage, so a returning session gets
// its previous cart back.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
}

func NewManager(persister Persister) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
	}
}

// Store returns the cart for the given session key, restoring it from the
// persister on first access. A failed or malformed restore degrades to an
// empty cart.
func (m *Manager) Store(ctx context.Context, sessionKey string) *Store {
	m.mu.Lock()
	if store, ok := m.stores[sessionKey]; ok {
		m.mu.Unlock()
		return store
	}
	store := NewStore(sessionKey, m.persister)
	m.stores[sessionKey] = store
	m.mu.Unlock()

	if m.persister != nil {
		lines, err := m.persister.Load(ctx, sessionKey)
		if err != nil {
			log.Printf("[CART] [WARN] restore failed for %s, starting empty: %v", sessionKey, err)
			return store
		}
		if len(lines) > 0 {
			store.Restore(lines)
		}
	}
	return store
}

// Drop forgets the in-memory store for a session. Durable state is left in
// place; the next access restores it.
func (m *Manager) Drop(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionKey)
}
