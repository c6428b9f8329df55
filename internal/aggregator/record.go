package aggregator

import (
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// buildRecord copies the simulation output into a game record. Team records
// are as of before the game.
func (a *Aggregator) buildRecord(league models.LeagueSettings, result models.SimulationResult) *models.GameRecord {
	rec := &models.GameRecord{
		GameID:            result.GameID,
		SportKey:          a.sport.GetSportKey(),
		Day:               result.Day,
		Season:            league.Season,
		Playoffs:          league.Phase == models.PhasePlayoffs,
		NumPeriods:        a.sport.NumPeriods(),
		Overtimes:         result.Overtimes,
		Attendance:        result.Attendance,
		NumPlayersOnCourt: result.NumPlayersOnCourt,
		ScoringSummary:    append([]models.ScoringEntry(nil), result.ScoringSummary...),
		ClutchPlays:       []string{},
		ForceWin:          copyInt(result.ForceWin),
		CreatedAt:         a.now(),
	}

	for t, tr := range result.Teams {
		team := models.GameTeam{
			TeamID:  tr.ID,
			Ovr:     tr.Ovr,
			Won:     tr.Won,
			Lost:    tr.Lost,
			Tied:    copyInt(tr.Tied),
			OTL:     copyInt(tr.OTL),
			Stats:   copyStats(tr.Stats),
			Players: make([]models.GamePlayer, 0, len(tr.Players)),
		}

		for _, pr := range tr.Players {
			p := models.GamePlayer{
				PlayerID:     pr.ID,
				Name:         pr.Name,
				Pos:          pr.Pos,
				Stats:        copyStats(pr.Stats),
				Skills:       append([]string{}, pr.Skills...),
				JerseyNumber: pr.JerseyNumber,
				Injury: models.Injury{
					Type:           pr.Injury.Type,
					GamesRemaining: pr.Injury.GamesRemaining,
					NewThisGame:    pr.Injury.NewThisGame,
					PlayingThrough: pr.Injury.PlayingThrough,
				},
			}
			if pr.InjuryAtStart != nil {
				injury := *pr.InjuryAtStart
				p.InjuryAtStart = &injury
			}
			if a.sport.CarriesSeasonStats() {
				p.SeasonStats = copyStats(pr.SeasonStats)
				p.BattingOrder = copyInt(pr.BattingOrder)
				p.SubIndex = copyInt(pr.SubIndex)
			}
			team.Players = append(team.Players, p)
		}

		rec.Teams[t] = team
	}

	return rec
}

// outcome is who won a game, in game team order
type outcome struct {
	winner, loser int
	tied          bool
}

func decideOutcome(result models.SimulationResult) outcome {
	p0, p1 := result.Pts(0), result.Pts(1)
	o := outcome{winner: 1, loser: 0, tied: p0 == p1}
	if p0 > p1 {
		o.winner, o.loser = 0, 1
	}
	return o
}

// applyOutcome fills in won/lost and updates the teams' records. Records only
// move before the playoffs.
func (a *Aggregator) applyOutcome(rec *models.GameRecord, league models.LeagueSettings, result models.SimulationResult, o outcome) {
	rec.Won = models.TeamScore{TeamID: result.Teams[o.winner].ID, Pts: result.Pts(o.winner)}
	rec.Lost = models.TeamScore{TeamID: result.Teams[o.loser].ID, Pts: result.Pts(o.loser)}
	rec.Tied = o.tied

	if league.Phase >= models.PhasePlayoffs {
		return
	}

	w, l := &rec.Teams[o.winner], &rec.Teams[o.loser]
	if o.tied && a.sport.TracksTies() && w.Tied != nil && l.Tied != nil {
		*w.Tied++
		*l.Tied++
		return
	}

	w.Won++
	if league.OvertimeLosses && rec.Overtimes > 0 && l.OTL != nil {
		*l.OTL++
	} else {
		l.Lost++
	}
}

func copyStats(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
