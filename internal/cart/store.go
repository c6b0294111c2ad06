package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"storefront/internal/models"
)

// Persister stores the full cart snapshot for a session key. Implementations
// live in internal/storage.
type Persister interface {
	Save(ctx context.Context, key string, lines []models.CartLine) error
	Load(ctx context.Context, key string) ([]models.CartLine, error)
	Delete(ctx context.Context, key string) error
}

// EventKind describes the effect a mutation had on the cart.
type EventKind string

const (
	EventAdded             EventKind = "added"
	EventQuantityIncreased EventKind = "quantity_increased"
	EventQuantityDecreased EventKind = "quantity_decreased"
	EventRemoved           EventKind = "removed"
	EventCleared           EventKind = "cleared"
	EventRestored          EventKind = "restored"
)

// Event is delivered to subscribers after every successful mutation.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProductID string    `json:"productId,omitempty"`
	Variant   string    `json:"variant,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
}

// Action selects the direction of a quantity update.
type Action string

const (
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
)

const persistTimeout = 2 * time.Second

// Store owns the authoritative line items of one cart. Lines are unique per
// productID+variant pair; a line never exists with quantity below 1.
type Store struct {
	mu          sync.Mutex
	key         string
	index       map[string]*models.CartLine
	order       []string
	persister   Persister
	subscribers []func(Event)
}

// NewStore returns an empty store persisting under the given session key.
// persister may be nil, in which case the cart lives in memory only.
func NewStore(key string, persister Persister) *Store {
	return &Store{
		key:       key,
		index:     make(map[string]*models.CartLine),
		persister: persister,
	}
}

// lineKey makes the productID+variant uniqueness invariant structural.
// 0x1f cannot appear in either field, so keys never collide.
func lineKey(productID, variant string) string {
	return productID + "\x1f" + variant
}

// Subscribe registers fn to receive every subsequent cart event.
// Notifications run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// AddItem merges line into the cart. An existing line for the same
// productID+variant has its quantity increased; otherwise the line is
// appended. A non-positive requested quantity is clamped to 1.
func (s *Store) AddItem(line models.CartLine) Event {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	key := lineKey(line.ProductID, line.SelectedVariant)
	var event Event
	if existing, ok := s.index[key]; ok {
		existing.Quantity += line.Quantity
		event = Event{Kind: EventQuantityIncreased, ProductID: line.ProductID, Variant: line.SelectedVariant, Quantity: existing.Quantity}
	} else {
		copied := line
		s.index[key] = &copied
		s.order = append(s.order, key)
		event = Event{Kind: EventAdded, ProductID: line.ProductID, Variant: line.SelectedVariant, Quantity: line.Quantity}
	}
	snapshot := s.linesLocked()
	s.mu.Unlock()

	s.afterMutation(event, snapshot)
	return event
}

// UpdateQuantity applies a single-step increment or decrement. A decrement
// that would reach zero removes the line entirely. An unknown line is a no-op
// and reports false.
func (s *Store) UpdateQuantity(productID, variant string, action Action) (Event, bool) {
	s.mu.Lock()
	key := lineKey(productID, variant)
	existing, ok := s.index[key]
	if !ok {
		s.mu.Unlock()
		return Event{}, false
	}

	var event Event
	switch action {
	case ActionDecrement:
		existing.Quantity--
		if existing.Quantity <= 0 {
			s.deleteLocked(key)
			event = Event{Kind: EventRemoved, ProductID: productID, Variant: variant}
		} else {
			event = Event{Kind: EventQuantityDecreased, ProductID: productID, Variant: variant, Quantity: existing.Quantity}
		}
	default:
		existing.Quantity++
		event = Event{Kind: EventQuantityIncreased, ProductID: productID, Variant: variant, Quantity: existing.Quantity}
	}
	snapshot := s.linesLocked()
	s.mu.Unlock()

	s.afterMutation(event, snapshot)
	return event, true
}

// RemoveItem deletes the line if present; unknown lines are a no-op.
func (s *Store) RemoveItem(productID, variant string) bool {
	s.mu.Lock()
	key := lineKey(productID, variant)
	if _, ok := s.index[key]; !ok {
		s.mu.Unlock()
		return false
	}
	s.deleteLocked(key)
	snapshot := s.linesLocked()
	s.mu.Unlock()

	s.afterMutation(Event{Kind: EventRemoved, ProductID: productID, Variant: variant}, snapshot)
	return true
}

// Clear empties the cart. Used after a successful checkout and by the
// explicit user action.
func (s *Store) Clear() {
	s.mu.Lock()
	s.index = make(map[string]*models.CartLine)
	s.order = nil
	s.mu.Unlock()

	s.afterMutation(Event{Kind: EventCleared}, nil)
}

// Restore replaces the cart contents from a persisted snapshot. Malformed
// entries are dropped and duplicate keys merged, so a corrupt snapshot
// degrades to a smaller (or empty) cart instead of failing.
func (s *Store) Restore(lines []models.CartLine) {
	s.mu.Lock()
	s.index = make(map[string]*models.CartLine)
	s.order = nil
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 || line.UnitPrice < 0 {
			continue
		}
		key := lineKey(line.ProductID, line.SelectedVariant)
		if existing, ok := s.index[key]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		copied := line
		s.index[key] = &copied
		s.order = append(s.order, key)
	}
	count := len(s.order)
	s.mu.Unlock()

	s.notify(Event{Kind: EventRestored, Quantity: count})
}

// Lines returns a deep copy of the cart in insertion order. Callers never see
// or touch the store's own line structs.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linesLocked()
}

// Snapshot is the serializable form written to durable storage. Identical to
// Lines; the name marks intent at call sites.
func (s *Store) Snapshot() []models.CartLine {
	return s.Lines()
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) linesLocked() []models.CartLine {
	lines := make([]models.CartLine, 0, len(s.order))
	for _, key := range s.order {
		lines = append(lines, *s.index[key])
	}
	return lines
}

func (s *Store) deleteLocked(key string) {
	delete(s.index, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// afterMutation runs outside the lock: persists the new snapshot and then
// notifies subscribers. A persistence failure is logged and otherwise
// ignored; the in-memory cart stays authoritative for the session.
func (s *Store) afterMutation(event Event, snapshot []models.CartLine) {
	if s.persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persister.Save(ctx, s.key, snapshot); err != nil {
			log.Printf("[CART] [WARN] persist failed for %s: %v", s.key, err)
		}
	}
	s.notify(event)
}

func (s *Store) notify(event Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
