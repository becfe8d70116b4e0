package cart

import (
	"log"
	"sync"

	"storefront/models"
)

// Manager hands out one engine per cart identity so every HTTP request for a
// session goes through the same serialized reducer. Engines are discarded
// wholesale when the identity changes, e.g. after a guest cart is merged
// into a user cart at login.
type Manager struct {
	mu      sync.Mutex
	sub     Submitter
	engines map[string]*Engine
}

func NewManager(sub Submitter) *Manager {
	return &Manager{
		sub:     sub,
		engines: map[string]*Engine{},
	}
}

// Lookup returns the engine for identity without creating one.
func (m *Manager) Lookup(identity string) (*Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.engines[identity]
	return e, ok
}

// Get returns the engine for identity, creating one seeded from initial when
// the identity is new. initial is ignored for an existing engine; the caller
// reconciles explicitly when it has a fresher snapshot.
func (m *Manager) Get(identity string, initial *models.Cart) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[identity]; ok {
		return e
	}
	e := NewEngine(identity, initial, m.sub)
	m.engines[identity] = e

	// Submission failures are advisory; the HTTP layer has already answered
	// with the optimistic snapshot, so they only get logged here.
	go func() {
		for err := range e.Errors() {
			log.Printf("cart %s: %v", identity, err)
		}
	}()

	return e
}

// Drop closes and forgets the engine for identity.
func (m *Manager) Drop(identity string) {
	m.mu.Lock()
	e, ok := m.engines[identity]
	delete(m.engines, identity)
	m.mu.Unlock()

	if ok {
		e.Close()
	}
}
