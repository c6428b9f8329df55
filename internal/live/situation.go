package live

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// FieldPosition describes a line of scrimmage measured from the offense's own
// goal line.
func FieldPosition(scrimmage int) string {
	switch {
	case scrimmage == 50:
		return "50 yd line"
	case scrimmage > 50:
		return fmt.Sprintf("opp %d", 100-scrimmage)
	default:
		return fmt.Sprintf("own %d", scrimmage)
	}
}

// Situation renders the pre-snap summary for the team with the ball, e.g.
// "BOS ball, 3rd & 4, opp 35" or "BOS kicking off".
func Situation(abbrev string, e models.ClockEvent) string {
	if e.AwaitingKickoff {
		return abbrev + " kicking off"
	}
	return fmt.Sprintf("%s ball, %s & %d, %s", abbrev, format.Ordinal(e.Down), e.ToGo, FieldPosition(e.Scrimmage))
}

// updateSportState applies a clock event to the drive state. A new drive
// starts when a kickoff is pending or the ball changed sides.
func updateSportState(st *models.SportState, side int, e models.ClockEvent, text string) {
	if e.AwaitingKickoff || st.Side != side {
		st.Side = side
		st.NumPlays = 0
		st.InitialScrimmage = e.Scrimmage
		st.Plays = []string{}
	}
	st.AwaitingKickoff = e.AwaitingKickoff
	st.Text = text
	st.Scrimmage = e.Scrimmage
	if e.AwaitingKickoff {
		st.ToGo = nil
	} else {
		toGo := e.ToGo
		st.ToGo = &toGo
	}
}
