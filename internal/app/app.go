package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
	"github.com/gokatarajesh/flagquiz/internal/config"
	"github.com/gokatarajesh/flagquiz/internal/db/queries"
	"github.com/gokatarajesh/flagquiz/internal/db/repository"
	"github.com/gokatarajesh/flagquiz/internal/logging"
	"github.com/gokatarajesh/flagquiz/internal/metrics"
	"github.com/gokatarajesh/flagquiz/internal/play"
	"github.com/gokatarajesh/flagquiz/internal/server"
	"github.com/gokatarajesh/flagquiz/internal/session"
	ws "github.com/gokatarajesh/flagquiz/pkg/http/ws"
)

// Application aggregates shared infrastructure (catalog store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	sweeper   *session.Sweeper
	bgCancels []context.CancelFunc
}

// New bootstraps logger, metrics, the catalog and its optional Postgres/Redis
// backing, the session manager and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gameMetrics := metrics.New(reg)

	a := &Application{
		cfg:       cfg,
		logger:    logger,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}

	openOpts := catalog.OpenOptions{
		Kind:   cfg.Catalog.Source,
		Logger: logger,
	}

	if cfg.Catalog.Source == catalog.KindPostgres {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		openOpts.Repo = repository.NewCountryRepository(queries.New(pool))
	}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		openOpts.Cache = catalog.NewRedisCache(a.redis,
			catalog.CacheKey(cfg.Catalog.CachePrefix, cfg.Catalog.Source), cfg.Catalog.CacheTTL)
	}

	cat, err := catalog.Open(ctx, openOpts)
	if err != nil {
		a.closeStores()
		return nil, err
	}

	tokens := session.NewTokenManager(session.TokenConfig{
		Secret: []byte(cfg.Session.TokenSecret),
		TTL:    cfg.Session.TokenTTL,
		Issuer: cfg.Name,
	})
	sessions := session.NewManager(cat, tokens, gameMetrics, logger, session.ManagerOptions{
		MaxDrawFactor: cfg.Game.MaxDrawFactor,
	})
	a.sweeper = session.NewSweeper(sessions, cfg.Session.SweepInterval, cfg.Session.IdleTTL, logger)

	ctrl := play.NewController(gameMetrics, logger)
	httpHandlers := play.NewHTTPHandlers(sessions, ctrl, cat, logger)
	wsHandler := play.NewHandler(sessions, ctrl, ws.NewHub(logger), logger)

	a.http = server.NewHTTPServer(cfg, logger, reg,
		server.Dependencies{Pool: a.pool, Redis: a.redis},
		server.Routes{
			CreateSession: httpHandlers.CreateSession,
			Catalog:       httpHandlers.Catalog,
			GameState:     httpHandlers.State,
			GameStart:     httpHandlers.Start,
			GameAnswer:    httpHandlers.Answer,
			PlayWS:        wsHandler.HandleWebSocket,
		},
	)

	return a, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.closeStores()
	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.sweeper == nil {
		return
	}
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.sweeper.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("session sweeper stopped")
		}
	}()
}

func (a *Application) closeStores() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
