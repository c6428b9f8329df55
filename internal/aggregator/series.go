package aggregator

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// FindSeries returns the pairing between tid0 and tid1 in the bracket's
// current round, or among the play-in games while those are being played.
// Home/away order does not matter: a series' home side has home advantage
// for the series, which need not match this game's home side.
func FindSeries(ps *models.PlayoffSeries, tid0, tid1 int) *models.SeriesPairing {
	if ps == nil {
		return nil
	}

	if ps.CurrentRound == models.PlayInRound {
		for i := range ps.PlayIns {
			for j := range ps.PlayIns[i] {
				if ps.PlayIns[i][j].Matches(tid0, tid1) {
					return &ps.PlayIns[i][j]
				}
			}
		}
		return nil
	}

	if ps.CurrentRound < 0 || ps.CurrentRound >= len(ps.Series) {
		return nil
	}
	round := ps.Series[ps.CurrentRound]
	for j := range round {
		if round[j].Matches(tid0, tid1) {
			return &round[j]
		}
	}
	return nil
}

// NumGamesToWinSeries is how many wins take a best-of-n series
func NumGamesToWinSeries(numGames int) int {
	return (numGames + 1) / 2
}

// playoffContext is a playoff game's series situation after the game
type playoffContext struct {
	currentRound        int
	numGamesThisRound   int
	numGamesToWinSeries int
	infos               [2]models.PlayoffInfo // Game team order
	pairing             *models.SeriesPairing
	series              *models.PlayoffSeries
}

// newPlayoffContext derives each game side's seed and series record including
// this game's result. pts is in game team order.
func newPlayoffContext(ps *models.PlayoffSeries, pairing *models.SeriesPairing, tids, pts [2]int, numGamesPlayoffSeries []int) (*playoffContext, error) {
	if pairing.Away == nil {
		return nil, fmt.Errorf("series for team %d is a bye", pairing.Home.TeamID)
	}

	first, second := pairing.Home, *pairing.Away
	if pairing.Home.TeamID != tids[0] {
		first, second = second, first
	}

	firstWon, secondWon := 0, 0
	if pts[0] > pts[1] {
		firstWon = 1
	} else if pts[1] > pts[0] {
		secondWon = 1
	}

	pc := &playoffContext{
		currentRound: ps.CurrentRound,
		pairing:      pairing,
		series:       ps,
		infos: [2]models.PlayoffInfo{
			{Seed: first.Seed, Won: first.Won + firstWon, Lost: second.Won + secondWon},
			{Seed: second.Seed, Won: second.Won + secondWon, Lost: first.Won + firstWon},
		},
	}

	if ps.CurrentRound == models.PlayInRound {
		pc.numGamesThisRound = 1
		pc.numGamesToWinSeries = 1
		return pc, nil
	}
	if ps.CurrentRound >= len(numGamesPlayoffSeries) {
		return nil, fmt.Errorf("round %d beyond the %d configured playoff rounds", ps.CurrentRound, len(numGamesPlayoffSeries))
	}
	pc.numGamesThisRound = numGamesPlayoffSeries[ps.CurrentRound]
	pc.numGamesToWinSeries = NumGamesToWinSeries(pc.numGamesThisRound)
	return pc, nil
}

// gameNumber is the number of this game within the series
func (pc *playoffContext) gameNumber() int {
	return pc.infos[0].Won + pc.infos[0].Lost
}

// recordWin credits the series side of the winning team. Sides are matched
// by team id only to find which side won.
func (pc *playoffContext) recordWin(winnerTid int) {
	if pc.pairing.Home.TeamID == winnerTid {
		pc.pairing.Home.Won++
	} else if pc.pairing.Away != nil && pc.pairing.Away.TeamID == winnerTid {
		pc.pairing.Away.Won++
	}
}

// RoundName names a playoff round for narrative text.
func RoundName(currentRound, numRounds int, byConference bool) string {
	switch {
	case currentRound == models.PlayInRound:
		return "play-in tournament game"
	case currentRound >= numRounds-1:
		return "finals"
	case currentRound >= numRounds-2:
		if byConference {
			return "conference finals"
		}
		return "semifinals"
	default:
		return format.Ordinal(currentRound+1) + " round of the playoffs"
	}
}
