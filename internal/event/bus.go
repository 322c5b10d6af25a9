// Package event provides the in-process pub/sub bus that carries storefront
// notifications (cart adds, catalog refreshes) between components.
package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is a single message published on the bus.
type Event struct {
	Topic     string    `json:"topic"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Handler processes a published event. Handlers run synchronously on the
// publisher's goroutine; long-running work belongs in the handler's own
// goroutine.
type Handler func(ctx context.Context, e Event)

// Bus is a topic-based publish/subscribe bus. Subscriptions to the empty
// topic via SubscribeAll receive every event.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler // topic -> id -> handler
	all      map[int]Handler
	logger   *zap.Logger
}

// NewBus creates an event bus that logs deliveries at debug level.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string]map[int]Handler),
		all:      make(map[int]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic. The returned function removes
// the subscription.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]Handler)
	}
	b.handlers[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}

// SubscribeAll registers a handler for every topic. The returned function
// removes the subscription.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.all[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers an event synchronously to all matching subscribers.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.handlers[event.Topic])+len(b.all))
	for _, h := range b.handlers[event.Topic] {
		matched = append(matched, h)
	}
	for _, h := range b.all {
		matched = append(matched, h)
	}
	b.mu.RUnlock()

	b.logger.Debug("publishing event",
		zap.String("topic", event.Topic),
		zap.String("source", event.Source),
		zap.Int("subscribers", len(matched)),
	)

	for _, h := range matched {
		b.deliver(ctx, event, h)
	}
	return nil
}

// deliver invokes a single handler, recovering from panics so one bad
// subscriber cannot take down the publisher.
func (b *Bus) deliver(ctx context.Context, event Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.Any("panic", r),
			)
		}
	}()
	h(ctx, event)
}

// PublishAsync delivers an event on a separate goroutine, never blocking
// the caller.
func (b *Bus) PublishAsync(ctx context.Context, event Event) {
	go func() {
		_ = b.Publish(ctx, event)
	}()
}
