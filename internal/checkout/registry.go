package checkout

import (
	"sync"

	"storefront/internal/cart"
	"storefront/internal/models"
)

// Registry hands out one Coordinator per session, so the in-flight guard
// covers repeated submits arriving on separate requests.
type Registry struct {
	mu     sync.Mutex
	byKey  map[string]*Coordinator
	orders OrderCreator
	fees   models.FeeConfig
}

func NewRegistry(orders OrderCreator, fees models.FeeConfig) *Registry {
	return &Registry{
		byKey:  make(map[string]*Coordinator),
		orders: orders,
		fees:   fees,
	}
}

// For returns the coordinator bound to the session's cart store, creating it
// on first use.
func (r *Registry) For(sessionKey string, store *cart.Store) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if co, ok := r.byKey[sessionKey]; ok {
		return co
	}
	co := NewCoordinator(store, r.orders, r.fees)
	r.byKey[sessionKey] = co
	return co
}

// Drop closes and forgets the session's coordinator.
func (r *Registry) Drop(sessionKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if co, ok := r.byKey[sessionKey]; ok {
		co.Close()
		delete(r.byKey, sessionKey)
	}
}
