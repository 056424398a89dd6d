// Package session tracks connected players on a lease basis: a session that
// is not touched within the lease period is reaped.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one connected player's lease.
type Session struct {
	ID       string
	PlayerID string
	GameID   string
	Created  time.Time
	LastSeen time.Time
}

// Manager owns the session table.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	lease    time.Duration
	limit    int
	logger   *zap.Logger
}

// NewManager creates a manager with the given lease period. A limit of zero
// means unlimited.
func NewManager(lease time.Duration, limit int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		lease:    lease,
		limit:    limit,
		logger:   logger,
	}
}

// Create opens a session for a player.
func (m *Manager) Create(playerID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.limit > 0 && len(m.sessions) >= m.limit {
		return nil, fmt.Errorf("session limit of %d reached", m.limit)
	}
	now := time.Now()
	s := &Session{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		Created:  now,
		LastSeen: now,
	}
	m.sessions[s.ID] = s
	m.logger.Debug("session created",
		zap.String("session_id", s.ID),
		zap.String("player_id", playerID))
	return s, nil
}

// Get returns a copy of the session, refusing expired ones.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok || time.Since(s.LastSeen) > m.lease {
		return nil, false
	}
	cpy := *s
	return &cpy, true
}

// Touch renews the lease. Returns false for unknown or expired sessions.
func (m *Manager) Touch(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || time.Since(s.LastSeen) > m.lease {
		return false
	}
	s.LastSeen = time.Now()
	return true
}

// Bind attaches the session to a game.
func (m *Manager) Bind(sessionID, gameID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	s.GameID = gameID
	return true
}

// Close drops one session.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// CloseAll drops every session. Called during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.logger.Info("all sessions closed", zap.Int("count", n))
}

// Count returns the number of live sessions, expired included until reaped.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions reaps expired sessions periodically until the
// context is cancelled. Run it in its own goroutine.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	interval := m.lease / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.lease)
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.logger.Debug("session expired",
				zap.String("session_id", id),
				zap.String("player_id", s.PlayerID))
		}
	}
}
