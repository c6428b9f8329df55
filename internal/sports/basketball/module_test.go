package basketball

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

func TestGameScore(t *testing.T) {
	p := models.GamePlayer{Stats: map[string]float64{
		"pts": 30, "fg": 11, "fga": 20, "ft": 6, "fta": 8,
		"orb": 2, "drb": 8, "ast": 5, "stl": 2, "blk": 1, "tov": 3, "pf": 2,
	}}

	// 30 + 4.4 - 14 - 0.8 + 1.4 + 2.4 + 2 + 3.5 + 0.7 - 0.8 - 3
	assert.InDelta(t, 25.8, New(true).ValueScore(p), 1e-9)
}

func TestModule_Structure(t *testing.T) {
	m := New(true)
	assert.Equal(t, "basketball", m.GetSportKey())
	assert.Equal(t, 4, m.NumPeriods())
	assert.Equal(t, "Q", m.PeriodName(true))
	assert.False(t, m.TracksTies())
	assert.Equal(t, "global_composite", m.MVPPolicy().Name())
}
