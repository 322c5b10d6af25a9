package testutil

import (
	"context"
	"sync"

	"github.com/freshplate/storefront/internal/notify"
)

// Compile-time interface check.
var _ notify.Notifier = (*MockNotifier)(nil)

// MockNotifier is a thread-safe Notifier that records all success messages
// for later inspection.
type MockNotifier struct {
	mu       sync.Mutex
	messages []string
}

// NewMockNotifier returns a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Success records the message synchronously.
func (n *MockNotifier) Success(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

// Messages returns a copy of all recorded messages.
func (n *MockNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// Reset clears all recorded messages.
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = nil
}
