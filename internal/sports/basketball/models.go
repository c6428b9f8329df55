package basketball

import "github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"

// PlayerLine is a basketball box score line read from a generic stat map
type PlayerLine struct {
	Points        float64
	FieldGoals    float64
	FieldGoalAtts float64
	FreeThrows    float64
	FreeThrowAtts float64
	OffRebounds   float64
	DefRebounds   float64
	Assists       float64
	Steals        float64
	Blocks        float64
	Turnovers     float64
	PersonalFouls float64
}

// LineFromStats reads the keys the simulation writes for a basketball player
func LineFromStats(stats map[string]float64) PlayerLine {
	return PlayerLine{
		Points:        stats[models.StatPoints],
		FieldGoals:    stats["fg"],
		FieldGoalAtts: stats["fga"],
		FreeThrows:    stats["ft"],
		FreeThrowAtts: stats["fta"],
		OffRebounds:   stats["orb"],
		DefRebounds:   stats["drb"],
		Assists:       stats["ast"],
		Steals:        stats["stl"],
		Blocks:        stats["blk"],
		Turnovers:     stats["tov"],
		PersonalFouls: stats["pf"],
	}
}

// GameScore is John Hollinger's single-game productivity measure
func (l PlayerLine) GameScore() float64 {
	return l.Points +
		0.4*l.FieldGoals -
		0.7*l.FieldGoalAtts -
		0.4*(l.FreeThrowAtts-l.FreeThrows) +
		0.7*l.OffRebounds +
		0.3*l.DefRebounds +
		l.Steals +
		0.7*l.Assists +
		0.7*l.Blocks -
		0.4*l.PersonalFouls -
		l.Turnovers
}
