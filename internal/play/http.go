package play

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/flagquiz/internal/catalog"
	"github.com/gokatarajesh/flagquiz/internal/session"
	httperrors "github.com/gokatarajesh/flagquiz/pkg/http/errors"
	ws "github.com/gokatarajesh/flagquiz/pkg/http/ws"
)

// HTTPHandlers provides REST endpoints for sessions, the catalog and turn-by-turn play.
type HTTPHandlers struct {
	sessions *session.Manager
	ctrl     *Controller
	catalog  *catalog.Catalog
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for play endpoints.
func NewHTTPHandlers(sessions *session.Manager, ctrl *Controller, cat *catalog.Catalog, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		sessions: sessions,
		ctrl:     ctrl,
		catalog:  cat,
		logger:   logger.With().Str("component", "play_http").Logger(),
	}
}

type createSessionResponse struct {
	SessionID string              `json:"session_id"`
	Token     string              `json:"token"`
	State     ws.GameStatePayload `json:"state"`
}

type answerRequest struct {
	Slot *int `json:"slot"`
}

type answerResponse struct {
	Correct bool                `json:"correct"`
	Over    bool                `json:"over"`
	Reason  string              `json:"reason,omitempty"`
	State   ws.GameStatePayload `json:"state"`
}

// CreateSession handles POST /v1/sessions
func (h *HTTPHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	sess, token, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("session creation failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSessionCreation, "Could not create session")
		return
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID.String(),
		Token:     token,
		State:     statePayload(sess.Snapshot()),
	})
}

// Catalog handles GET /v1/catalog
func (h *HTTPHandlers) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	countries := h.catalog.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(countries),
		"countries": countries,
	})
}

// State handles GET /v1/game
func (h *HTTPHandlers) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, statePayload(sess.Snapshot()))
}

// Start handles POST /v1/game/start
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	snap, err := h.ctrl.Start(sess)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statePayload(snap))
}

// Answer handles POST /v1/game/answer
func (h *HTTPHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	sess, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondError(w, http.StatusBadRequest, httperrors.ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Slot == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "slot is required", "slot")
		return
	}

	out, err := h.ctrl.Answer(sess, *req.Slot)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, answerResponse{
		Correct: out.Correct,
		Over:    out.Over,
		Reason:  out.Reason,
		State:   statePayload(out.State),
	})
}

func (h *HTTPHandlers) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	token := tokenFromRequest(r)
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return nil, false
	}
	sess, err := h.sessions.Resolve(token)
	if err != nil {
		h.respondDomainError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *HTTPHandlers) respondDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("code", code).Msg("play request failed")
	}
	httperrors.RespondError(w, status, code, err.Error())
}

// tokenFromRequest reads a bearer token, falling back to the token query parameter.
func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
