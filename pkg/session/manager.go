package session

import (
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-roleform/pkg/model"
)

// ErrNotFound is returned when a session id is unknown or has expired.
var ErrNotFound = errors.New("session: not found")

// Manager tracks live sessions for hosts that serve many forms at once.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	options     []Option
}

// NewManager creates a manager. Sessions idle for longer than idleTimeout are
// dropped on lookup and by Cleanup; zero disables expiry.
func NewManager(idleTimeout time.Duration, options ...Option) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		options:     options,
	}
}

// Create starts a session over schema and registers it.
func (m *Manager) Create(schema model.Schema, options ...Option) *Session {
	opts := append(append([]Option(nil), m.options...), options...)
	s := New(schema, opts...)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.IsIdle(m.idleTimeout) && m.evictIdle(id, s) {
		return nil, ErrNotFound
	}
	return s, nil
}

// evictIdle removes s under the write lock if it is still registered as id
// and still idle. A session touched since the unlocked check survives.
func (m *Manager) evictIdle(id string, s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.sessions[id]; !ok || current != s {
		return true
	}
	if !s.IsIdle(m.idleTimeout) {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Remove deletes a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes idle sessions and returns how many were dropped. Called
// periodically by hosts.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.IsIdle(m.idleTimeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
