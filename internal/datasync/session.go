package datasync

import (
	"sync"

	"github.com/unilinkng/backend/internal/models"
)

// Session is the authenticated caller's identity, carried explicitly into
// every screen instead of re-fetched ad hoc.
type Session struct {
	UserID  string
	Profile models.ProfileCompact
}

// SessionProvider exposes the current session and a change stream. The
// production provider wraps the hosted auth client; tests use
// NewMemorySessions directly.
type SessionProvider interface {
	Current() *Session
	OnChange(fn func(*Session)) (unsubscribe func())
	SignOut()
}

// MemorySessions is an in-process SessionProvider with callback fan-out
type MemorySessions struct {
	mu        sync.Mutex
	current   *Session
	nextID    int
	callbacks map[int]func(*Session)
}

// NewMemorySessions creates a provider with no active session
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{callbacks: make(map[int]func(*Session))}
}

// Current returns the active session, or nil when signed out
func (s *MemorySessions) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the active session and notifies listeners
func (s *MemorySessions) Set(session *Session) {
	s.mu.Lock()
	s.current = session
	fns := make([]func(*Session), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// OnChange registers a session-change listener and returns its release
func (s *MemorySessions) OnChange(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.callbacks[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.callbacks, id)
		s.mu.Unlock()
	}
}

// SignOut clears the session and notifies listeners
func (s *MemorySessions) SignOut() {
	s.Set(nil)
}
