// internal/domain/identity/events.go
package identity

import (
	"context"
	"sync"
)

// EventType distinguishes authentication-state changes
type EventType string

const (
	EventSignIn  EventType = "sign_in"
	EventSignOut EventType = "sign_out"
)

// Event describes an authentication-state change for one device
type Event struct {
	Type     EventType
	UserID   uint
	DeviceID string
}

// Handler receives authentication events
type Handler func(ctx context.Context, ev Event)

// Bus fans authentication events out to subscribers. Dispatch is
// synchronous and in subscription order, so a handler that must complete
// before the caller proceeds (wishlist reconciliation at sign-in) can
// rely on Publish returning only after it ran.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers an event to every subscriber
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
