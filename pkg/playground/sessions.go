package playground

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session owns the ReplayStore of one browser.
type Session struct {
	ID    string
	Store *ReplayStore

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last request that resolved the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is the registry of live sessions keyed by the session cookie.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cookie string
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// NewSessions builds a registry from opts. Callers are expected to pass an
// Options value produced by NewOptions so defaults apply.
func NewSessions(opts Options) *Sessions {
	opts = NewOptions(func(o *Options) { *o = opts })
	return &Sessions{
		sessions: make(map[string]*Session),
		cookie:   opts.CookieName,
		ttl:      opts.SessionTTL,
		now:      opts.Now,
		newID:    opts.NewID,
		logger:   opts.Logger,
	}
}

// Resolve returns the session named by the request cookie. When the cookie
// is missing, unknown, or expired a new session with an empty store is
// created, the cookie is set on w, and created is true.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) (session *Session, created bool) {
	if existing := s.FromRequest(r); existing != nil {
		return existing, false
	}

	now := s.now()
	session = &Session{
		ID:       s.newID(),
		Store:    NewReplayStore(),
		lastSeen: now,
	}
	id := session.ID
	session.Store.Observe(func(change Change) {
		s.logger.Debug("replay store changed", "session", id, "form", change.Form, "revision", change.Revision, "reset", change.Submission == nil)
	})
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", "session", session.ID)
	return session, true
}

// FromRequest returns the live session named by the request cookie, or nil,
// and marks it as seen. It never creates a session.
func (s *Sessions) FromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	now := s.now()
	session, ok := s.lookup(cookie.Value, now)
	if !ok {
		return nil
	}
	session.touch(now)
	return session
}

// Get returns the session with id if it has not expired.
func (s *Sessions) Get(id string) (*Session, bool) {
	return s.lookup(id, s.now())
}

func (s *Sessions) lookup(id string, now time.Time) (*Session, bool) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if s.expired(session, now) {
		return nil, false
	}
	return session, true
}

func (s *Sessions) expired(session *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.LastSeen()) > s.ttl
}

// Len returns the number of tracked sessions, expired ones included until
// the next Sweep.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Sessions) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(s.now()); removed > 0 {
				s.logger.Debug("expired sessions swept", "removed", removed)
			}
		}
	}
}

func newSessionID() string {
	return uuid.NewString()
}
