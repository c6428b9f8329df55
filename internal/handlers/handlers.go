package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/penalty"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/session"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// ResultsReader reads finalized games
type ResultsReader interface {
	GetGame(ctx context.Context, gid int) (*models.GameRecord, error)
	HeadToHead(ctx context.Context, tid0, tid1 int) ([]models.HeadToHeadEntry, error)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	// ctx outlives requests; pacing loops and websocket pumps run under it
	ctx       context.Context
	sessions  *session.Manager
	hub       *hub.Hub
	results   ResultsReader
	penalties *penalty.Model
	registry  *registry.Registry
	logger    zerolog.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(
	ctx context.Context,
	sessions *session.Manager,
	h *hub.Hub,
	results ResultsReader,
	penalties *penalty.Model,
	reg *registry.Registry,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		ctx:       ctx,
		sessions:  sessions,
		hub:       h,
		results:   results,
		penalties: penalties,
		registry:  reg,
		logger:    logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sports := make([]string, 0)
	for _, m := range h.registry.EnabledSports() {
		sports = append(sports, m.GetSportKey())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().UTC(),
		"service":         "game-results-service",
		"active_sessions": h.sessions.Active(),
		"active_clients":  h.hub.GetClientCount(),
		"sports":          sports,
	})
}

// statusFor maps domain errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrUnknownSport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		h.logger.Warn().Err(err).Int("status", status).Msg(message)
	}

	msg := message
	if err != nil && status < http.StatusInternalServerError {
		msg = message + ": " + err.Error()
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
		Code:    status,
	})
}
