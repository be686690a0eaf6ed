package play

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/game"
	"github.com/gokatarajesh/flagquiz/internal/metrics"
	"github.com/gokatarajesh/flagquiz/internal/session"
	httperrors "github.com/gokatarajesh/flagquiz/pkg/http/errors"
	ws "github.com/gokatarajesh/flagquiz/pkg/http/ws"
)

// Outcome of one answer as seen by a client.
type Outcome struct {
	Correct bool
	Over    bool
	Reason  string
	State   game.Snapshot
}

// Controller applies player actions to a session's game state. It is shared by the
// WebSocket and REST surfaces.
type Controller struct {
	metrics *metrics.Collectors
	logger  zerolog.Logger
}

func NewController(m *metrics.Collectors, logger zerolog.Logger) *Controller {
	return &Controller{
		metrics: m,
		logger:  logger.With().Str("component", "play_controller").Logger(),
	}
}

// Start begins a new sequence for the session.
func (c *Controller) Start(sess *session.Session) (game.Snapshot, error) {
	var snap game.Snapshot
	err := sess.Do(func(s *game.State) error {
		if err := s.Start(); err != nil {
			return err
		}
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return game.Snapshot{}, err
	}
	c.metrics.IncStarted()
	c.logger.Debug().Str("session_id", sess.ID.String()).Msg("game started")
	return snap, nil
}

// Answer submits slot for the session's current round.
func (c *Controller) Answer(sess *session.Session, slot int) (Outcome, error) {
	var out Outcome
	err := sess.Do(func(s *game.State) error {
		correct, err := s.Answer(slot)
		switch {
		case errors.Is(err, game.ErrCatalogExhausted):
			out.Reason = ws.ReasonCatalogExhausted
		case err != nil:
			return err
		case !correct:
			out.Reason = ws.ReasonWrongAnswer
		}
		out.Correct = correct
		out.Over = !s.InProgress()
		out.State = s.Snapshot()
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	result := metrics.ResultCorrect
	switch out.Reason {
	case ws.ReasonWrongAnswer:
		result = metrics.ResultWrong
	case ws.ReasonCatalogExhausted:
		result = metrics.ResultExhausted
	}
	c.metrics.ObserveAnswer(result, out.Over, out.State.Level)

	if out.Over {
		c.logger.Info().
			Str("session_id", sess.ID.String()).
			Str("reason", out.Reason).
			Int("level", out.State.Level).
			Int("best", out.State.Best).
			Msg("sequence ended")
	}
	return out, nil
}

// statePayload converts a snapshot to its wire form.
func statePayload(snap game.Snapshot) ws.GameStatePayload {
	flags := make([]string, 0, len(snap.Flags))
	if snap.Phase != game.PhaseNotStarted {
		flags = append(flags, snap.Flags[:]...)
	}
	return ws.GameStatePayload{
		Phase:       string(snap.Phase),
		CountryName: snap.CountryName,
		Flags:       flags,
		Level:       snap.Level,
		Best:        snap.Best,
	}
}

// classify maps domain errors to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidSlot):
		return http.StatusBadRequest, httperrors.ErrCodeInvalidSlot
	case errors.Is(err, game.ErrNotInProgress):
		return http.StatusConflict, httperrors.ErrCodeNotInProgress
	case errors.Is(err, game.ErrNoRound):
		return http.StatusConflict, httperrors.ErrCodeNoRound
	case errors.Is(err, game.ErrCatalogTooSmall):
		return http.StatusServiceUnavailable, httperrors.ErrCodeCatalogTooSmall
	case errors.Is(err, game.ErrCatalogExhausted):
		return http.StatusServiceUnavailable, httperrors.ErrCodeCatalogExhausted
	case errors.Is(err, session.ErrExpiredToken):
		return http.StatusUnauthorized, httperrors.ErrCodeTokenExpired
	case errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized, httperrors.ErrCodeInvalidToken
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, httperrors.ErrCodeSessionNotFound
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError
	}
}
