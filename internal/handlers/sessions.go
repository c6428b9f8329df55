package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/session"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// maxAdvance caps a single advance request
const maxAdvance = 500

// CreateGameRequest is the body of POST /api/v1/games
type CreateGameRequest struct {
	League   models.LeagueSettings    `json:"league"`
	BoxScore models.BoxScore          `json:"box_score"`
	Events   json.RawMessage          `json:"events"`
	Result   *models.SimulationResult `json:"result,omitempty"`
}

// CreateGame starts a paused live session
// POST /api/v1/games
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var events []models.Event
	if len(req.Events) > 0 {
		decoded, err := models.DecodeEvents(req.Events)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid events", err)
			return
		}
		events = decoded
	}

	snap, err := h.sessions.Create(r.Context(), session.Spec{
		League:   req.League,
		BoxScore: req.BoxScore,
		Events:   events,
		Result:   req.Result,
	})
	if err != nil {
		h.respondError(w, statusFor(err), "failed to create session", err)
		return
	}

	respondJSON(w, http.StatusCreated, snap)
}

// Advance plays the next n increments
// POST /api/v1/games/{sessionID}/advance?n=N
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	n := parseIntParam(r, "n", 1)
	if n < 1 || n > maxAdvance {
		h.respondError(w, http.StatusBadRequest, "n must be between 1 and 500", nil)
		return
	}

	updates, err := h.sessions.Advance(r.Context(), chi.URLParam(r, "sessionID"), n)
	if err != nil {
		h.respondError(w, statusFor(err), "failed to advance session", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"updates": updates,
		"count":   len(updates),
		"done":    len(updates) > 0 && updates[len(updates)-1].Done,
	})
}

// GetBoxScore returns the latest increment
// GET /api/v1/games/{sessionID}/boxscore
func (h *Handler) GetBoxScore(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Snapshot(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, statusFor(err), "failed to load box score", err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// GetFinal returns the finalized game record once playback has ended
// GET /api/v1/games/{sessionID}/final
func (h *Handler) GetFinal(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sessions.Final(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, statusFor(err), "failed to load final record", err)
		return
	}
	if rec == nil {
		h.respondError(w, http.StatusConflict, "game has not been finalized", nil)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Play starts the pacing loop
// POST /api/v1/games/{sessionID}/play
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.sessions.Play(h.ctx, id); err != nil {
		h.respondError(w, statusFor(err), "failed to start playback", err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]interface{}{"session_id": id, "playing": true})
}

// Stop pauses the pacing loop
// DELETE /api/v1/games/{sessionID}/play
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.sessions.Stop(id); err != nil {
		h.respondError(w, statusFor(err), "failed to stop playback", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"session_id": id, "playing": false})
}

// DeleteGame forgets a session
// DELETE /api/v1/games/{sessionID}
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		h.respondError(w, statusFor(err), "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
