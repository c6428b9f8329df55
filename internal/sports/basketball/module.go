package basketball

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/mvp"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Module implements SportModule for basketball
type Module struct {
	enabled bool
}

// New creates a new basketball sport module
func New(enabled bool) *Module {
	return &Module{enabled: enabled}
}

func (m *Module) GetSportKey() string {
	return "basketball"
}

func (m *Module) GetDisplayName() string {
	return "Basketball"
}

func (m *Module) IsEnabled() bool {
	return m.enabled
}

func (m *Module) NumPeriods() int {
	return 4
}

func (m *Module) PeriodName(short bool) string {
	if short {
		return "Q"
	}
	return "quarter"
}

func (m *Module) TracksTies() bool {
	return false
}

func (m *Module) CarriesSeasonStats() bool {
	return false
}

// ValueScore rates a player by game score
func (m *Module) ValueScore(p models.GamePlayer) float64 {
	return LineFromStats(p.Stats).GameScore()
}

// MVPPolicy compares everyone in the game, with a bonus for the winners, since
// game score already rewards efficiency.
func (m *Module) MVPPolicy() contracts.MVPPolicy {
	return mvp.GlobalComposite{
		Score:     m.ValueScore,
		BonusStat: models.StatPoints,
		WinBonus:  8,
	}
}
