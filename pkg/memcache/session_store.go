// pkg/memcache/session_store.go
package mem

import (
	"time"

	"github.com/patrickmn/go-cache"

	"dayout/internal/planner"
	"dayout/pkg/utils"
)

type SessionStore interface {
	Put(session *planner.Session)

	// Get returns the session for id and extends its lifetime.
	// Returns ErrSessionNotFound if missing/expired.
	Get(id string) (*planner.Session, error)
}

type Sessions struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewSessions keeps idle sessions for ttl; expired ones are swept every ttl/2.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Sessions{
		items: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

func (s *Sessions) Put(session *planner.Session) {
	s.items.Set(session.ID(), session, s.ttl)
}

func (s *Sessions) Get(id string) (*planner.Session, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	session := v.(*planner.Session)
	s.items.Set(id, session, s.ttl) // sliding expiry
	return session, nil
}
