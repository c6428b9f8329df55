package models

import "strings"

// LongestSuffix marks stats that hold the longest single play (e.g. "rusLng")
// rather than a running total.
const LongestSuffix = "Lng"

// Stat keys with special handling in the live box score.
const (
	StatPoints  = "pts"
	StatMinutes = "min"
)

// BoxScore is the box score of a game while it is being played back.
// Team index 0 is the away side and index 1 the home side, so the home team
// renders at the bottom.
type BoxScore struct {
	GameID         int            `json:"gid"`
	SportKey       string         `json:"sport_key"`
	NumPeriods     int            `json:"num_periods"`
	Teams          [2]TeamBox     `json:"teams"`
	Quarter        string         `json:"quarter"`       // "2nd quarter", "1st overtime"
	QuarterShort   string         `json:"quarter_short"` // "Q2", "OT"
	Overtime       string         `json:"overtime"`      // "", " (OT)", " (2OT)"
	Time           string         `json:"time"`
	ScoringSummary []ScoringEntry `json:"scoring_summary"`
	ClutchPlays    []string       `json:"clutch_plays,omitempty"`
}

// TeamBox holds one team's side of a live box score.
type TeamBox struct {
	TeamID  int                `json:"tid"`
	Abbrev  string             `json:"abbrev"`
	Name    string             `json:"name"`
	PtsQtrs []int              `json:"pts_qtrs"` // Period-by-period points
	Stats   map[string]float64 `json:"stats"`
	Players []PlayerBox        `json:"players"`
}

// PlayerBox is a player's running line in a live box score.
type PlayerBox struct {
	PlayerID int                `json:"pid"`
	Name     string             `json:"name"`
	Pos      string             `json:"pos"`
	Stats    map[string]float64 `json:"stats"`
	Injury   *Injury            `json:"injury,omitempty"`
}

// Injury describes a player's injury state.
type Injury struct {
	Type           string `json:"type"`
	GamesRemaining int    `json:"games_remaining"` // -1 means indefinite
	NewThisGame    bool   `json:"new_this_game,omitempty"`
	PlayingThrough bool   `json:"playing_through,omitempty"`
}

// GamesRemainingUnknown is used for injuries sustained during live playback,
// before the injury length has been decided.
const GamesRemainingUnknown = -1

// ScoringEntry is one line of the scoring summary.
type ScoringEntry struct {
	Side   int    `json:"t"` // 0 or 1, in box score order
	Period string `json:"quarter"`
	Time   string `json:"time"`
	Text   string `json:"text"`
}

// Player returns the player with the given id, or nil.
func (t *TeamBox) Player(pid int) *PlayerBox {
	for i := range t.Players {
		if t.Players[i].PlayerID == pid {
			return &t.Players[i]
		}
	}
	return nil
}

// Points returns the team's running point total.
func (t *TeamBox) Points() int {
	total := 0
	for _, pts := range t.PtsQtrs {
		total += pts
	}
	return total
}

// IsLongestStat reports whether a stat key tracks a single longest play.
func IsLongestStat(key string) bool {
	return strings.HasSuffix(key, LongestSuffix)
}
