package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/penalty"
)

// GetResult returns a stored game record
// GET /api/v1/results/{gid}
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gid, err := strconv.Atoi(chi.URLParam(r, "gid"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "gid must be an integer", nil)
		return
	}

	rec, err := h.results.GetGame(ctx, gid)
	if err != nil {
		h.respondError(w, statusFor(err), "failed to retrieve game", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetHeadToHead lists games between two teams
// GET /api/v1/head-to-head?tid0=1&tid1=2
func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tid0, tid1 := parseIntParam(r, "tid0", -1), parseIntParam(r, "tid1", -1)
	if tid0 < 0 || tid1 < 0 {
		h.respondError(w, http.StatusBadRequest, "tid0 and tid1 are required", nil)
		return
	}

	games, err := h.results.HeadToHead(ctx, tid0, tid1)
	if err != nil {
		h.respondError(w, statusFor(err), "failed to retrieve head-to-head", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// penaltyView is one row of the penalty table as served
type penaltyView struct {
	Name               string  `json:"name"`
	Side               string  `json:"side"`
	Yards              int     `json:"yards"`
	AutomaticFirstDown bool    `json:"automatic_first_down"`
	SpotFoul           bool    `json:"spot_foul"`
	PerSeason          int64   `json:"per_season"`
	Probability        string  `json:"probability"`
	ProbabilityForPlay float64 `json:"probability_for_play,omitempty"`
}

// GetPenalties lists the loaded penalty table, optionally narrowed to the
// infractions possible on one play category
// GET /api/v1/penalties?category=pass
func (h *Handler) GetPenalties(w http.ResponseWriter, r *http.Request) {
	category := penalty.PlayCategory(r.URL.Query().Get("category"))

	infractions := h.penalties.Infractions()
	if category != "" {
		if _, ok := h.penalties.Opportunities()[category]; !ok {
			h.respondError(w, http.StatusBadRequest, "unknown play category", nil)
			return
		}
		infractions = h.penalties.ForCategory(category)
	}

	views := make([]penaltyView, 0, len(infractions))
	for _, inf := range infractions {
		v := penaltyView{
			Name:               inf.Name,
			Side:               string(inf.Side),
			Yards:              inf.Yards,
			AutomaticFirstDown: inf.AutomaticFirstDown,
			SpotFoul:           inf.SpotFoul,
			PerSeason:          inf.PerSeason,
			Probability:        inf.Probability().String(),
		}
		if category != "" {
			v.ProbabilityForPlay = inf.ProbabilityFor(category)
		}
		views = append(views, v)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"penalties":     views,
		"count":         len(views),
		"opportunities": h.penalties.Opportunities(),
	})
}
