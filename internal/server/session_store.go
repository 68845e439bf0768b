package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"kpp/view"
)

// session is one reader's viewer. mu serializes every use of viewer.
type session struct {
	mu        sync.Mutex
	ID        string
	Name      string
	viewer    *view.Viewer
	ExpiresAt time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	clock    func() time.Time
}

func newSessionStore(ttl time.Duration, clock func() time.Time) *sessionStore {
	if clock == nil {
		clock = time.Now
	}
	return &sessionStore{sessions: make(map[string]*session), ttl: ttl, clock: clock}
}

// get returns a live session and extends its lifetime.
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.clock()
	if !sess.ExpiresAt.IsZero() && now.After(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.ExpiresAt = now.Add(s.ttl)
	return sess, true
}

// put stores a new session for v. swept counts the expired sessions
// dropped on the way.
func (s *sessionStore) put(name string, v *view.Viewer) (sess *session, swept int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swept = s.sweepLocked()
	sess = &session{
		ID:        uuid.NewString(),
		Name:      name,
		viewer:    v,
		ExpiresAt: s.clock().Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return sess, swept
}

// sweepLocked drops expired sessions and reports how many went.
func (s *sessionStore) sweepLocked() int {
	now := s.clock()
	n := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
