// Package cart implements the per-user persisted shopping-cart ledger.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/freshplate/storefront/internal/notify"
	"github.com/freshplate/storefront/internal/services"
	"github.com/freshplate/storefront/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// keyPrefix versions the persisted key scheme so a future ledger format can
// migrate old entries instead of silently misreading them.
const keyPrefix = "cart:v1:"

// AnonymousUser is the sentinel ledger scope used when no user identity is
// supplied. Anonymous adds are accepted, not rejected; they share one cart.
const AnonymousUser = "anonymous"

var addsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_cart_adds_total",
	Help: "Successful cart add operations.",
})

// PersistenceError reports a failed ledger read or write. The ledger is not
// updated until the underlying write succeeds, so a caller seeing this
// error can assume the previous persisted state is intact.
type PersistenceError struct {
	Op  string // "read", "decode", or "write"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cart %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Ledger accumulates product quantities per user identity. State is loaded
// from and written back to a key-value repository on every merge, so the
// persisted mapping is the source of truth across sessions.
//
// Merges serialize on a ledger-wide mutex: the load-increment-save cycle
// must not interleave, or concurrent adds for the same user read the same
// snapshot and one increment is lost.
type Ledger struct {
	repo     services.CartRepository
	notifier notify.Notifier
	logger   *zap.Logger

	mu sync.Mutex // Serialize merges
}

// NewLedger creates a cart ledger over the given repository.
func NewLedger(repo services.CartRepository, notifier notify.Notifier, logger *zap.Logger) *Ledger {
	return &Ledger{repo: repo, notifier: notifier, logger: logger}
}

// Key returns the versioned persistence key for a user identity. An empty
// identity maps to the shared anonymous scope.
func Key(userKey string) string {
	if userKey == "" {
		userKey = AnonymousUser
	}
	return keyPrefix + userKey
}

// AddOne merges one unit of product into the user's ledger: an existing
// line's count is incremented while its product snapshot (name and price at
// first add) is kept; a new line starts at count 1. The merge is commutative
// per product id, so rapid repeated clicks only ever raise the count.
// Returns the updated line.
func (l *Ledger) AddOne(ctx context.Context, userKey string, product models.Product) (models.CartLine, error) {
	key := Key(userKey)

	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.load(ctx, key)
	if err != nil {
		return models.CartLine{}, err
	}

	id := strconv.Itoa(product.ID)
	line, ok := lines[id]
	if ok {
		line.Count++
	} else {
		line = models.CartLine{Product: product, Count: 1}
	}
	lines[id] = line

	if err := l.save(ctx, key, lines); err != nil {
		return models.CartLine{}, err
	}

	addsTotal.Inc()
	l.logger.Debug("cart line merged",
		zap.String("key", key),
		zap.Int("product_id", product.ID),
		zap.Int("count", line.Count),
	)
	l.notifier.Success(ctx, fmt.Sprintf("%s added to your cart", product.Name))

	return line, nil
}

// Lines returns the user's current cart contents keyed by product id. An
// absent ledger yields an empty mapping, not an error.
func (l *Ledger) Lines(ctx context.Context, userKey string) (map[string]models.CartLine, error) {
	return l.load(ctx, Key(userKey))
}

func (l *Ledger) load(ctx context.Context, key string) (map[string]models.CartLine, error) {
	raw, err := l.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return map[string]models.CartLine{}, nil
		}
		return nil, &PersistenceError{Op: "read", Key: key, Err: err}
	}

	var lines map[string]models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	if lines == nil {
		lines = map[string]models.CartLine{}
	}
	return lines, nil
}

func (l *Ledger) save(ctx context.Context, key string, lines map[string]models.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	if err := l.repo.Set(ctx, key, string(raw)); err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}
