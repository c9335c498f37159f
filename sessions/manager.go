package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Factory builds a fresh session for a conversation id.
type Factory func(conversationID string) *Session

// Manager maps conversation ids to live sessions.
type Manager struct {
	factory Factory
	logger  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	pending  map[string]chan struct{}
	cron     *cron.Cron
}

func NewManager(factory Factory, logger zerolog.Logger) *Manager {
	return &Manager{
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*Session),
		pending:  make(map[string]chan struct{}),
	}
}

// GetOrCreate returns the session for id, creating it when needed. The
// boolean reports whether a new session was created. The factory runs
// outside the lock; concurrent callers for the same id wait for that one
// construction.
func (m *Manager) GetOrCreate(conversationID string) (*Session, bool) {
	for {
		m.mu.Lock()
		if s, ok := m.sessions[conversationID]; ok {
			m.mu.Unlock()
			return s, false
		}
		wait, building := m.pending[conversationID]
		if !building {
			done := make(chan struct{})
			m.pending[conversationID] = done
			m.mu.Unlock()
			return m.build(conversationID, done), true
		}
		m.mu.Unlock()
		<-wait
	}
}

func (m *Manager) build(conversationID string, done chan struct{}) *Session {
	var s *Session
	defer func() {
		m.mu.Lock()
		if s != nil {
			m.sessions[conversationID] = s
		}
		delete(m.pending, conversationID)
		m.mu.Unlock()
		close(done)
	}()

	s = m.factory(conversationID)
	m.logger.Debug().Str("conversation", conversationID).Msg("session created")
	return s
}

func (m *Manager) Get(conversationID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	return s, ok
}

func (m *Manager) Delete(conversationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[conversationID]; !ok {
		return false
	}
	delete(m.sessions, conversationID)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than ttl. Sessions with a turn in
// flight or an attached connection are never dropped.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.Busy() || s.Attached() || s.LastActive().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.logger.Info().Int("removed", removed).Int("remaining", len(m.sessions)).Msg("swept idle sessions")
	}
	return removed
}

// StartCleanup runs Sweep on a cron schedule such as "@every 10m".
func (m *Manager) StartCleanup(schedule string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		return fmt.Errorf("session cleanup already running")
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { m.Sweep(ttl) }); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	c.Start()
	m.cron = c
	return nil
}

// Stop halts the cleanup job and waits for a running sweep to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
