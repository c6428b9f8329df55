package contracts

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// SportModule is the pluggable interface for the sport-specific parts of the
// results pipeline
type SportModule interface {
	// Identification
	GetSportKey() string    // "american_football", "basketball"
	GetDisplayName() string // "Football", "Basketball"
	IsEnabled() bool

	// Game structure
	NumPeriods() int              // Regulation periods
	PeriodName(short bool) string // "quarter"/"Q", "period"/"P", "inning"/"I"
	TracksTies() bool             // Regular-season games may end tied
	CarriesSeasonStats() bool     // Persist season totals and lineup slots per player

	// Player valuation
	ValueScore(p models.GamePlayer) float64
	MVPPolicy() MVPPolicy
}

// MVPPolicy selects the most valuable participant of a finished game
type MVPPolicy interface {
	Name() string
	// SelectMVP returns the MVP's stat row and team index, or ok=false when no
	// player qualifies.
	SelectMVP(game *models.GameRecord) (player models.GamePlayer, team int, ok bool)
}
