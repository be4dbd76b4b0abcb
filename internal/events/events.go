// Package events provides in-process pub/sub for grid mutations.
package events

import (
	"sync"
	"time"
)

// Event types published by the session layer.
const (
	TypeSlotPlaced      = "slot.placed"
	TypeSlotEdited      = "slot.edited"
	TypeSlotDeleted     = "slot.deleted"
	TypeSlotBulkDeleted = "slot.bulk_deleted"
	TypeStageAdded      = "stage.added"
	TypeStageRemoved    = "stage.removed"
	TypeStageSelected   = "stage.selected"
	TypeBlackoutToggled = "blackout.toggled"
	TypeLineupFinalized = "lineup.finalized"
)

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	SessionID string
	Details   string
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event) error

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// SubscribeAll registers a handler for every known event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range []string{
		TypeSlotPlaced, TypeSlotEdited, TypeSlotDeleted, TypeSlotBulkDeleted,
		TypeStageAdded, TypeStageRemoved, TypeStageSelected,
		TypeBlackoutToggled, TypeLineupFinalized,
	} {
		b.Subscribe(t, handler)
	}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}
