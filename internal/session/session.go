package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/game"
	"github.com/gokatarajesh/flagquiz/internal/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

// Session owns one player's game.State. Do serializes access to it.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	state    *game.State
	lastSeen time.Time
	attached int
	now      func() time.Time
}

// Do runs fn with exclusive access to the game state.
func (s *Session) Do(fn func(*game.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return fn(s.state)
}

// Snapshot reads the current render view.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.state.Snapshot()
}

// Attach marks a live connection on the session. Attached sessions are never swept.
func (s *Session) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached++
	s.lastSeen = s.now()
}

// Detach releases a connection taken with Attach.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 {
		s.attached--
	}
	s.lastSeen = s.now()
}

func (s *Session) idleBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached == 0 && s.lastSeen.Before(cutoff)
}

// LastSeen is the time of the most recent access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ManagerOptions tunes session creation.
type ManagerOptions struct {
	MaxDrawFactor int
	Now           func() time.Time
}

// Manager keeps sessions in memory for the life of the process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	catalog    game.Catalog
	tokens     *TokenManager
	metrics    *metrics.Collectors
	logger     zerolog.Logger
	drawFactor int
	now        func() time.Time
}

// NewManager builds a session registry over a shared catalog.
func NewManager(cat game.Catalog, tokens *TokenManager, m *metrics.Collectors, logger zerolog.Logger, opts ManagerOptions) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions:   make(map[uuid.UUID]*Session),
		catalog:    cat,
		tokens:     tokens,
		metrics:    m,
		logger:     logger.With().Str("component", "session_manager").Logger(),
		drawFactor: opts.MaxDrawFactor,
		now:        now,
	}
}

// Create registers a fresh session and returns it with its signed token.
func (m *Manager) Create(ctx context.Context) (*Session, string, error) {
	id := uuid.New()
	token, err := m.tokens.Issue(id)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	now := m.now()
	sess := &Session{
		ID:        id,
		CreatedAt: now,
		lastSeen:  now,
		now:       m.now,
		state: game.NewState(m.catalog, game.Options{
			Rand:          rngFor(id),
			MaxDrawFactor: m.drawFactor,
		}),
	}

	m.mu.Lock()
	m.sessions[id] = sess
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(count))
	}
	m.logger.Debug().Str("session_id", id.String()).Msg("session created")
	return sess, token, nil
}

// Resolve maps a token to its live session.
func (m *Manager) Resolve(token string) (*Session, error) {
	id, err := m.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	sess, ok := m.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get looks a session up by id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Len reports how many sessions are held.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle drops detached sessions not used for longer than maxIdle and returns how
// many went.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.idleBefore(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(count))
	}
	return removed
}

// rngFor seeds a per-session generator from the session id.
func rngFor(id uuid.UUID) *rand.Rand {
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(id[:8]), binary.BigEndian.Uint64(id[8:])))
}
