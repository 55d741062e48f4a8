// Package session keeps one filter engine per browsing client.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobboard-engine/internal/filter"
)

var ErrNotFound = errors.New("session not found")

type entry struct {
	engine   *filter.Engine
	lastSeen time.Time
}

// Manager owns every live session. Engine operations run under the
// manager's lock, so each user action is applied atomically.
type Manager struct {
	mu       sync.Mutex
	index    *filter.Index
	sessions map[string]*entry
	idle     time.Duration
	now      func() time.Time
}

func NewManager(index *filter.Index, idle time.Duration) *Manager {
	return &Manager{
		index:    index,
		sessions: make(map[string]*entry),
		idle:     idle,
		now:      time.Now,
	}
}

func (m *Manager) Create() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &entry{engine: m.index.NewEngine(), lastSeen: m.now()}
	m.mu.Unlock()
	return id
}

// Do runs fn against the session's engine and marks the session as used.
func (m *Manager) Do(id string, fn func(e *filter.Engine)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.lastSeen = m.now()
	fn(s.engine)
	return nil
}

func (m *Manager) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) SetIdle(d time.Duration) {
	m.mu.Lock()
	m.idle = d
	m.mu.Unlock()
}

// Sweep removes sessions idle for longer than the idle timeout and
// returns their ids.
func (m *Manager) Sweep(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var gone []string
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idle {
			delete(m.sessions, id)
			gone = append(gone, id)
		}
	}
	return gone
}
