package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.EventConsumed("hockey", models.EventStat)
	r.EventConsumed("hockey", models.EventStat)
	r.EventConsumed("hockey", models.EventText)
	r.GameFinalized("hockey", "decided")
	r.NarrativeEmitted(models.LogPlayerFeat)
	r.SessionsActive(3)
	r.ClientsConnected(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.eventsConsumed.WithLabelValues("hockey", "stat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.eventsConsumed.WithLabelValues("hockey", "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesFinalized.WithLabelValues("hockey", "decided")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.narratives.WithLabelValues("playerFeat")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.activeSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.wsClients))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.GameFinalized("basketball", "tie")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `game_results_games_finalized_total{outcome="tie",sport="basketball"} 1`)
}
