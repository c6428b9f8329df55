package baseball

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/mvp"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Module implements SportModule for baseball
type Module struct {
	enabled bool
}

// New creates a new baseball sport module
func New(enabled bool) *Module {
	return &Module{enabled: enabled}
}

func (m *Module) GetSportKey() string {
	return "baseball"
}

func (m *Module) GetDisplayName() string {
	return "Baseball"
}

func (m *Module) IsEnabled() bool {
	return m.enabled
}

func (m *Module) NumPeriods() int {
	return 9
}

func (m *Module) PeriodName(short bool) string {
	if short {
		return "I"
	}
	return "inning"
}

func (m *Module) TracksTies() bool {
	return false
}

// CarriesSeasonStats is true: box scores show season lines, batting order
// and substitution slots.
func (m *Module) CarriesSeasonStats() bool {
	return true
}

// ValueScore adds batting production to pitching outs, less earned runs
func (m *Module) ValueScore(p models.GamePlayer) float64 {
	s := p.Stats
	batting := s["h"] + s["2b"] + 2*s["3b"] + 3*s["hr"] + s["rbi"] + s["r"] + s["bb"]/2 + s["sb"]/2
	pitching := s["outs"]/3 + s["soPit"]/2 - 1.5*s["er"] + 2*s["w"] + 2*s["sv"]
	return batting + pitching
}

func (m *Module) MVPPolicy() contracts.MVPPolicy {
	return mvp.WinnerBestValue{Score: m.ValueScore}
}
