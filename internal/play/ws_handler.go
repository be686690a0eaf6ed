package play

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/server"
	"github.com/gokatarajesh/flagquiz/internal/session"
	httperrors "github.com/gokatarajesh/flagquiz/pkg/http/errors"
	ws "github.com/gokatarajesh/flagquiz/pkg/http/ws"
)

// Handler drives a session's game over a WebSocket.
type Handler struct {
	sessions *session.Manager
	ctrl     *Controller
	hub      *ws.Hub
	logger   zerolog.Logger
}

// NewHandler creates a play WebSocket handler.
func NewHandler(sessions *session.Manager, ctrl *Controller, hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		ctrl:     ctrl,
		hub:      hub,
		logger:   logger.With().Str("component", "play_ws").Logger(),
	}
}

// HandleWebSocket resolves the session token and upgrades the connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return
	}

	sess, err := h.sessions.Resolve(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket session resolution failed")
		status, code := classify(err)
		httperrors.RespondError(w, status, code, err.Error())
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, sess)
}

// HandleConnection runs the read loop for one connection until it closes.
func (h *Handler) HandleConnection(conn *websocket.Conn, sess *session.Session) {
	logger := h.logger.With().Str("session_id", sess.ID.String()).Logger()
	wsConn := ws.NewConnection(conn, logger)
	sess.Attach()
	defer sess.Detach()
	h.hub.Register(sess.ID, wsConn)

	go wsConn.WritePump()

	if err := h.send(sess, ws.TypeGameState, "", statePayload(sess.Snapshot())); err != nil {
		logger.Warn().Err(err).Msg("initial state send failed")
	}

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(sess, msg)
	})

	h.hub.Unregister(sess.ID, wsConn)
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(sess *session.Session, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeStartGame:
		return h.handleStart(sess, msg.RequestID)
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(sess, msg.RequestID, msg.Payload)
	case ws.TypeRequestState:
		return h.send(sess, ws.TypeGameState, msg.RequestID, statePayload(sess.Snapshot()))
	case ws.TypePing:
		return h.send(sess, ws.TypePong, msg.RequestID, nil)
	default:
		return h.sendError(sess, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleStart(sess *session.Session, requestID string) error {
	snap, err := h.ctrl.Start(sess)
	if err != nil {
		_, code := classify(err)
		return h.sendError(sess, requestID, code, err.Error())
	}
	return h.send(sess, ws.TypeGameState, requestID, statePayload(snap))
}

func (h *Handler) handleSubmitAnswer(sess *session.Session, requestID string, payload json.RawMessage) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Slot == nil {
		return h.sendError(sess, requestID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
	}

	out, err := h.ctrl.Answer(sess, *req.Slot)
	if err != nil {
		_, code := classify(err)
		return h.sendError(sess, requestID, code, err.Error())
	}

	if err := h.send(sess, ws.TypeAnswerResult, requestID, ws.AnswerResultPayload{
		Correct: out.Correct,
		State:   statePayload(out.State),
	}); err != nil {
		return err
	}
	if !out.Over {
		return nil
	}
	return h.send(sess, ws.TypeGameOver, requestID, ws.GameOverPayload{
		Reason: out.Reason,
		Level:  out.State.Level,
		Best:   out.State.Best,
	})
}

func (h *Handler) send(sess *session.Session, msgType, requestID string, payload interface{}) error {
	msg, err := ws.NewMessage(msgType, requestID, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	return h.hub.Send(sess.ID, msg)
}

func (h *Handler) sendError(sess *session.Session, requestID, code, message string) error {
	return h.send(sess, ws.TypeError, requestID, ws.ErrorPayload{Code: code, Message: message})
}
