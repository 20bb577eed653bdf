// Package session keeps the live editing sessions of the HTTP API.
//
// A [Session] wraps one [editor.Editor]. Editors are not safe for concurrent
// use, so every access goes through [Session.Do], which holds the session's
// own lock. The [Registry] guards the session map with an RWMutex and drops
// sessions that have been idle longer than their TTL.
//
// # Usage
//
//	reg := session.NewRegistry(30 * time.Minute)
//	sess := reg.Create(editor.New(course.New(course.DefaultOptions())))
//
//	err := sess.Do(func(ed *editor.Editor) error {
//	    ed.PointerDown(10, 10)
//	    return nil
//	})
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flashtrack/pkg/editor"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = 30 * time.Minute

// Session is one live editor.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	editor   *editor.Editor
	name     string
	lastUsed time.Time
	ttl      time.Duration
	now      func() time.Time
}

// Do runs fn with exclusive access to the session's editor and marks the
// session as used.
func (s *Session) Do(fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return fn(s.editor)
}

// Name returns the course name the session was opened from or last saved
// under.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName records the course name of the session. Name and SetName must
// not be called from inside Do.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// ExpiresAt returns when the session expires if left idle.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed.Add(s.ttl)
}

func (s *Session) expired(now time.Time) bool {
	return s.ttl > 0 && now.After(s.ExpiresAt())
}

// Registry holds the live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry. A non-positive ttl disables
// expiry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session around ed.
func (r *Registry) Create(ed *editor.Editor) *Session {
	now := r.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		editor:    ed,
		lastUsed:  now,
		ttl:       r.ttl,
		now:       r.now,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get returns the session with the given id. Expired sessions are removed
// and reported as ErrNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.expired(r.now()) {
		r.remove(id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session.
func (r *Registry) Delete(id string) error {
	if !r.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of registered sessions, expired ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (r *Registry) Cleanup() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, sess := range r.sessions {
		if sess.expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}
