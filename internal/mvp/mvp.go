// Package mvp holds the policies that pick a game's most valuable player.
// Each sport module chooses one.
package mvp

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// ScoreFunc rates one player's game
type ScoreFunc func(p models.GamePlayer) float64

// WinnerBestValue picks the best single player on the winning side.
type WinnerBestValue struct {
	Score ScoreFunc
}

func (w WinnerBestValue) Name() string { return "winner_best_value" }

// SelectMVP returns the top-rated player of the winning team. Earlier players
// win ties.
func (w WinnerBestValue) SelectMVP(game *models.GameRecord) (models.GamePlayer, int, bool) {
	for t := range game.Teams {
		if game.Teams[t].TeamID != game.Won.TeamID {
			continue
		}

		best := -1
		bestScore := math.Inf(-1)
		for i, p := range game.Teams[t].Players {
			if s := w.Score(p); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			return models.GamePlayer{}, 0, false
		}
		return game.Teams[t].Players[best], t, true
	}
	return models.GamePlayer{}, 0, false
}

// GlobalComposite rates every player in the game, on both teams, by
// Score + BonusStat/2 + WinBonus (winners only) and picks the maximum.
type GlobalComposite struct {
	Score     ScoreFunc
	BonusStat string
	WinBonus  float64
}

func (g GlobalComposite) Name() string { return "global_composite" }

// SelectMVP returns the highest composite across both teams.
func (g GlobalComposite) SelectMVP(game *models.GameRecord) (models.GamePlayer, int, bool) {
	var (
		found    bool
		mvp      models.GamePlayer
		mvpTeam  int
		maxScore = math.Inf(-1)
	)

	for t := range game.Teams {
		bonus := 0.0
		if game.Teams[t].TeamID == game.Won.TeamID {
			bonus = g.WinBonus
		}
		for _, p := range game.Teams[t].Players {
			score := g.Score(p) + p.Stat(g.BonusStat)/2 + bonus
			if score > maxScore {
				found, mvp, mvpTeam, maxScore = true, p, t, score
			}
		}
	}

	return mvp, mvpTeam, found
}
