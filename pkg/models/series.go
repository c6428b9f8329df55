package models

// PlayInRound is the current-round marker used while the play-in tournament
// is being played.
const PlayInRound = -1

// PlayoffSeries is the bracket state for one season
type PlayoffSeries struct {
	Season       int               `json:"season"`
	CurrentRound int               `json:"current_round"`
	Series       [][]SeriesPairing `json:"series"`             // Indexed by round
	PlayIns      [][]SeriesPairing `json:"play_ins,omitempty"` // Present when a play-in exists
}

// SeriesPairing is a two-sided matchup within a round. Home means home
// advantage for the series, not for any individual game.
type SeriesPairing struct {
	Home SeriesSide  `json:"home"`
	Away *SeriesSide `json:"away,omitempty"` // nil for a bye
}

// SeriesSide is one side of a pairing
type SeriesSide struct {
	TeamID int  `json:"tid"`
	Won    int  `json:"won"`
	Seed   *int `json:"seed,omitempty"`
}

// Matches reports whether the pairing is between tid0 and tid1 in either order.
func (s SeriesPairing) Matches(tid0, tid1 int) bool {
	if s.Away == nil {
		return false
	}
	if s.Home.TeamID == tid0 && s.Away.TeamID == tid1 {
		return true
	}
	return s.Home.TeamID == tid1 && s.Away.TeamID == tid0
}

// HeadToHeadEntry records a single game between two teams
type HeadToHeadEntry struct {
	Season       int    `json:"season"`
	TeamIDs      [2]int `json:"tids"` // Winner first
	Pts          [2]int `json:"pts"`
	Overtime     bool   `json:"overtime"`
	PlayoffRound *int   `json:"playoff_round,omitempty"`
	SeriesWinner *int   `json:"series_winner,omitempty"`
}

// AllStars is the season's All-Star game bookkeeping
type AllStars struct {
	Season    int               `json:"season"`
	GameID    *int              `json:"gid,omitempty"`
	TeamNames [2]string         `json:"team_names"`
	Teams     [2][]AllStarEntry `json:"teams"`
	MVP       *AllStarMVP       `json:"mvp,omitempty"`
	Score     *[2]int           `json:"score,omitempty"`
	Overtimes int               `json:"overtimes"`
}

// AllStarEntry maps a player on an All-Star roster to their real team
type AllStarEntry struct {
	PlayerID int    `json:"pid"`
	TeamID   int    `json:"tid"`
	Name     string `json:"name"`
}

// AllStarMVP is the selected All-Star game MVP
type AllStarMVP struct {
	PlayerID int    `json:"pid"`
	TeamID   int    `json:"tid"`
	Name     string `json:"name"`
}

// RealTeam returns the real team of a player on All-Star side t.
func (a *AllStars) RealTeam(t, pid int) (int, bool) {
	if t < 0 || t > 1 {
		return 0, false
	}
	for _, entry := range a.Teams[t] {
		if entry.PlayerID == pid {
			return entry.TeamID, true
		}
	}
	return 0, false
}
