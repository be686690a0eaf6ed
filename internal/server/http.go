package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/config"
	"github.com/gokatarajesh/flagquiz/internal/logging"
	httperrors "github.com/gokatarajesh/flagquiz/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades.
var WSUpgrader = websocket.Upgrader{
	// TODO: restrict origins once the web client has a fixed host.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Routes are the play endpoints mounted by NewHTTPServer. Nil handlers are skipped.
type Routes struct {
	CreateSession http.HandlerFunc
	Catalog       http.HandlerFunc
	GameState     http.HandlerFunc
	GameStart     http.HandlerFunc
	GameAnswer    http.HandlerFunc
	PlayWS        http.HandlerFunc
}

// Dependencies are pinged by /v1/ping. Either may be nil when not configured.
type Dependencies struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// NewHandler builds the route table.
func NewHandler(logger zerolog.Logger, gatherer prometheus.Gatherer, deps Dependencies, routes Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pingDependencies(ctx, deps); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	handle(mux, "/v1/sessions", routes.CreateSession)
	handle(mux, "/v1/catalog", routes.Catalog)
	handle(mux, "/v1/game", routes.GameState)
	handle(mux, "/v1/game/start", routes.GameStart)
	handle(mux, "/v1/game/answer", routes.GameAnswer)

	if routes.PlayWS != nil {
		mux.HandleFunc("/ws/play", routes.PlayWS)
	} else {
		mux.HandleFunc("/ws/play", func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "WebSocket play not configured")
		})
	}

	return withLogger(mux, logger)
}

// NewHTTPServer wires the route table into an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, gatherer prometheus.Gatherer, deps Dependencies, routes Routes) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(logger, gatherer, deps, routes),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if h != nil {
		mux.HandleFunc(pattern, h)
	}
}

func pingDependencies(ctx context.Context, deps Dependencies) error {
	if deps.Pool != nil {
		if err := deps.Pool.Ping(ctx); err != nil {
			return err
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

func withLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), logger)))
	})
}
