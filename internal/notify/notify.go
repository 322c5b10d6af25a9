// Package notify defines the user-facing notification boundary. The core
// only emits notifications; rendering them (toasts, badges) belongs to the
// storefront frontend, which consumes the event bus.
package notify

import (
	"context"

	"github.com/freshplate/storefront/internal/event"
)

// TopicSuccess carries fire-and-forget success messages for the user.
const TopicSuccess = "notify.success"

// Notifier delivers user-visible notifications.
type Notifier interface {
	// Success reports a successful user action. Fire-and-forget: failures
	// to deliver are not surfaced to the caller.
	Success(ctx context.Context, message string)
}

// Compile-time interface guard.
var _ Notifier = (*BusNotifier)(nil)

// BusNotifier publishes notifications on the in-process event bus.
type BusNotifier struct {
	bus    *event.Bus
	source string
}

// NewBusNotifier creates a Notifier that publishes from the named source.
func NewBusNotifier(bus *event.Bus, source string) *BusNotifier {
	return &BusNotifier{bus: bus, source: source}
}

// Success publishes the message on TopicSuccess without blocking the caller.
func (n *BusNotifier) Success(ctx context.Context, message string) {
	n.bus.PublishAsync(ctx, event.Event{
		Topic:   TopicSuccess,
		Source:  n.source,
		Payload: message,
	})
}
