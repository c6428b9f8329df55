package american_football

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/mvp"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Module implements SportModule for American football
type Module struct {
	enabled bool
}

// New creates a new football sport module
func New(enabled bool) *Module {
	return &Module{enabled: enabled}
}

func (m *Module) GetSportKey() string {
	return "american_football"
}

func (m *Module) GetDisplayName() string {
	return "Football"
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

// TracksTies is true; regular season games can end level after overtime.
func (m *Module) TracksTies() bool {
	return true
}

func (m *Module) CarriesSeasonStats() bool {
	return false
}

// ValueScore weighs yards and touchdowns on offense with big plays on defense
func (m *Module) ValueScore(p models.GamePlayer) float64 {
	s := p.Stats
	offense := s["pssYds"]/25 + 4*s["pssTD"] - 2*s["pssInt"] +
		s["rusYds"]/10 + 6*s["rusTD"] +
		s["recYds"]/10 + 6*s["recTD"] -
		2*s["fmbLost"]
	defense := s["defTck"]/2 + 2*s["defSk"] + 3*s["defInt"] + 3*s["defFmbRec"] + 6*s["defIntTD"] + 6*s["defFmbTD"]
	kicking := 3*s["fg"] + s["xp"]
	return offense + defense + kicking
}

func (m *Module) MVPPolicy() contracts.MVPPolicy {
	return mvp.WinnerBestValue{Score: m.ValueScore}
}
