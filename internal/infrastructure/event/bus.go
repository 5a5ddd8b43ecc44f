package event

import (
	"sync"

	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
)

// HandlerFunc processes a single domain event
type HandlerFunc func(event shared.DomainEvent)

// InMemoryEventBus implements EventPublisher with in-process pub/sub.
// Events are delivered synchronously after the aggregate save; a
// failing or panicking handler never fails the publish.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryEventBus) Subscribe(handler HandlerFunc, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish delivers events to all registered handlers
func (b *InMemoryEventBus) Publish(events ...shared.DomainEvent) {
	for _, event := range events {
		b.logger.Info("domain event published",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("tenant_id", event.TenantID().String()),
		)

		b.mu.RLock()
		handlers := b.handlers[event.EventType()]
		b.mu.RUnlock()

		for _, handler := range handlers {
			b.dispatch(handler, event)
		}
	}
}

// dispatch runs a handler with panic isolation
func (b *InMemoryEventBus) dispatch(handler HandlerFunc, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	handler(event)
}

// Ensure InMemoryEventBus implements EventPublisher
var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
