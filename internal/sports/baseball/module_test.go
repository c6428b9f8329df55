package baseball

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModule_Structure(t *testing.T) {
	m := New(true)
	assert.Equal(t, "baseball", m.GetSportKey())
	assert.Equal(t, 9, m.NumPeriods())
	assert.Equal(t, "I", m.PeriodName(true))
	assert.Equal(t, "inning", m.PeriodName(false))
	assert.False(t, m.TracksTies())
	assert.True(t, m.CarriesSeasonStats())
	assert.Equal(t, "winner_best_value", m.MVPPolicy().Name())
}
