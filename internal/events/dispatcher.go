package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher; handlers run on the
// request goroutine, so no background work is introduced.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event. Handler errors
// never fail the originating request.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// RegisterAuditLogger subscribes a zap-backed listener that mirrors every
// audit event into the service log.
func RegisterAuditLogger(d Dispatcher, logger *zap.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.Info("audit event",
			zap.String("type", string(event.Type)),
			zap.Int64("editor_id", event.EditorID),
			zap.Int64("entity_id", event.EntityID),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
	for _, t := range []EventType{EventProjectUpdated, EventTicketUpdated, EventPersonnelChanged, EventUserUpdated} {
		d.Subscribe(t, handler)
	}
}
