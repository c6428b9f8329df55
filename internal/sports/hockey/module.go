package hockey

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/mvp"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Module implements SportModule for hockey
type Module struct {
	enabled bool
}

// New creates a new hockey sport module
func New(enabled bool) *Module {
	return &Module{enabled: enabled}
}

func (m *Module) GetSportKey() string {
	return "hockey"
}

func (m *Module) GetDisplayName() string {
	return "Hockey"
}

func (m *Module) IsEnabled() bool {
	return m.enabled
}

func (m *Module) NumPeriods() int {
	return 3
}

func (m *Module) PeriodName(short bool) string {
	if short {
		return "P"
	}
	return "period"
}

func (m *Module) TracksTies() bool {
	return true
}

func (m *Module) CarriesSeasonStats() bool {
	return false
}

// ValueScore counts points for skaters and saves for goalies
func (m *Module) ValueScore(p models.GamePlayer) float64 {
	s := p.Stats
	return 3*s["g"] + 2*s["a"] + s["sv"]/10 - s["ga"]/2 + s["blk"]/4 + s["hit"]/8
}

func (m *Module) MVPPolicy() contracts.MVPPolicy {
	return mvp.WinnerBestValue{Score: m.ValueScore}
}
