package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_TOKEN_SECRET", "test-secret")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "flagquiz", cfg.Name)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 20*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, "embedded", cfg.Catalog.Source)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 64, cfg.Game.MaxDrawFactor)
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_TOKEN_SECRET", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveDrawFactor(t *testing.T) {
	t.Setenv("SESSION_TOKEN_SECRET", "test-secret")
	t.Setenv("GAME_MAX_DRAW_FACTOR", "0")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := Postgres{Host: "db", Port: 5433, User: "u", Password: "p", Database: "flags", SSLMode: "disable", MaxConns: 2}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=flags sslmode=disable pool_max_conns=2", p.DSN())
}
