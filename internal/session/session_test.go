package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
	"github.com/gokatarajesh/flagquiz/internal/game"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	cat, err := catalog.NewEmbeddedSource().Load(context.Background())
	require.NoError(t, err)
	tokens := NewTokenManager(TokenConfig{Secret: []byte("secret")})
	opts := ManagerOptions{}
	if clock != nil {
		opts.Now = clock.Now
	}
	return NewManager(cat, tokens, nil, zerolog.New(io.Discard), opts)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(TokenConfig{Secret: []byte("secret")})
	id := uuid.New()

	token, err := tm.Issue(id)
	require.NoError(t, err)

	got, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenRejectsTamperingAndForeignSecrets(t *testing.T) {
	tm := NewTokenManager(TokenConfig{Secret: []byte("secret")})
	token, err := tm.Issue(uuid.New())
	require.NoError(t, err)

	_, err = tm.Parse(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager(TokenConfig{Secret: []byte("other")})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tm := NewTokenManager(TokenConfig{Secret: []byte("secret"), TTL: time.Minute})
	tm.now = clock.Now

	token, err := tm.Issue(uuid.New())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManagerCreateAndResolve(t *testing.T) {
	m := newTestManager(t, nil)

	sess, token, err := m.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	err = got.Do(func(s *game.State) error { return s.Start() })
	require.NoError(t, err)
	assert.Equal(t, game.PhaseInRound, sess.Snapshot().Phase)
}

func TestResolveUnknownSession(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := m.tokens.Issue(uuid.New())
	require.NoError(t, err)

	_, err = m.Resolve(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newTestManager(t, nil)
	a, _, err := m.Create(context.Background())
	require.NoError(t, err)
	b, _, err := m.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, a.Do(func(s *game.State) error { return s.Start() }))
	assert.Equal(t, game.PhaseInRound, a.Snapshot().Phase)
	assert.Equal(t, game.PhaseNotStarted, b.Snapshot().Phase)
}

func TestSweepIdle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	stale, _, err := m.Create(context.Background())
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, _, err := m.Create(context.Background())
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	removed := m.SweepIdle(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestReadsAndConnectionsKeepSessionsAlive(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	reader, _, err := m.Create(context.Background())
	require.NoError(t, err)
	connected, _, err := m.Create(context.Background())
	require.NoError(t, err)
	connected.Attach()

	clock.Advance(25 * time.Minute)
	reader.Snapshot()
	clock.Advance(25 * time.Minute)

	assert.Equal(t, 0, m.SweepIdle(30*time.Minute))
	assert.Equal(t, 2, m.Len())

	connected.Detach()
	clock.Advance(31 * time.Minute)
	assert.Equal(t, 2, m.SweepIdle(30*time.Minute))
	assert.Equal(t, 0, m.Len())
}

func TestSweeperStopsOnCancel(t *testing.T) {
	m := newTestManager(t, nil)
	w := NewSweeper(m, time.Millisecond, time.Hour, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
