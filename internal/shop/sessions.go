package shop

import (
	"sync"
	"time"

	"github.com/freshplate/storefront/internal/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle browsing session keeps its
// controller before being pruned.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	ctl      *Controller
	lastSeen time.Time
}

// Sessions maps session ids to per-session controllers. Expired sessions
// are pruned lazily on access.
type Sessions struct {
	fetcher catalog.Fetcher
	logger  *zap.Logger
	ttl     time.Duration

	mu   sync.Mutex
	byID map[string]*session
	now  func() time.Time // Overridable in tests.
}

// NewSessions creates a session table whose controllers fetch through the
// given fetcher. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessions(fetcher catalog.Fetcher, logger *zap.Logger, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		fetcher: fetcher,
		logger:  logger,
		ttl:     ttl,
		byID:    make(map[string]*session),
		now:     time.Now,
	}
}

// Get returns the controller for id, creating a fresh session (with a new
// id) when id is empty or unknown. The returned id identifies the session
// the controller belongs to.
func (s *Sessions) Get(id string) (*Controller, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	if id != "" {
		if sess, ok := s.byID[id]; ok {
			sess.lastSeen = now
			return sess.ctl, id
		}
	}

	id = uuid.New().String()
	ctl := NewController(s.fetcher, s.logger.Named("controller"))
	s.byID[id] = &session{ctl: ctl, lastSeen: now}
	s.logger.Debug("session created", zap.String("session_id", id))
	return ctl, id
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Sessions) pruneLocked(now time.Time) {
	for id, sess := range s.byID {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.byID, id)
		}
	}
}
