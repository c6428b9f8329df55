package models

import "time"

// Phase is the point of the season a game is played in
type Phase int

const (
	PhaseExpansionDraft Phase = -2
	PhaseFantasyDraft   Phase = -1
	PhasePreseason      Phase = 0
	PhaseRegularSeason  Phase = 1
	PhaseAfterTradeDL   Phase = 2
	PhasePlayoffs       Phase = 3
)

// LeagueSettings is the slice of league state the results pipeline reads
type LeagueSettings struct {
	Season                int   `json:"season"`
	Phase                 Phase `json:"phase"`
	UserTeamID            int   `json:"user_tid"`
	NumGamesPlayoffSeries []int `json:"num_games_playoff_series"` // Games per round
	PlayoffsByConference  bool  `json:"playoffs_by_conference"`
	OvertimeLosses        bool  `json:"otl"`
}

// NumPlayoffRounds returns how many rounds the playoffs have.
func (s LeagueSettings) NumPlayoffRounds() int {
	return len(s.NumGamesPlayoffSeries)
}

// TeamScore names a team and its final points
type TeamScore struct {
	TeamID int `json:"tid"`
	Pts    int `json:"pts"`
}

// GameRecord is the persisted, immutable record of a completed game
type GameRecord struct {
	GameID              int            `json:"gid"`
	SportKey            string         `json:"sport_key"`
	Day                 int            `json:"day"`
	Season              int            `json:"season"`
	Playoffs            bool           `json:"playoffs"`
	NumPeriods          int            `json:"num_periods"`
	Overtimes           int            `json:"overtimes"`
	Attendance          int            `json:"att"`
	NumPlayersOnCourt   int            `json:"num_players_on_court,omitempty"`
	Won                 TeamScore      `json:"won"`
	Lost                TeamScore      `json:"lost"`
	Tied                bool           `json:"tied,omitempty"`
	Teams               [2]GameTeam    `json:"teams"`
	ScoringSummary      []ScoringEntry `json:"scoring_summary,omitempty"`
	ClutchPlays         []string       `json:"clutch_plays"`
	NumGamesToWinSeries int            `json:"num_games_to_win_series,omitempty"`
	SeriesWinner        *int           `json:"series_winner,omitempty"`
	ForceWin            *int           `json:"force_win,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// GameTeam is one team's side of a persisted game record. Won/Lost/Tied/OTL
// are the team's record after this game.
type GameTeam struct {
	TeamID   int                `json:"tid"`
	Ovr      int                `json:"ovr"`
	Won      int                `json:"won"`
	Lost     int                `json:"lost"`
	Tied     *int               `json:"tied,omitempty"`
	OTL      *int               `json:"otl,omitempty"`
	Stats    map[string]float64 `json:"stats"`
	Players  []GamePlayer       `json:"players"`
	Playoffs *PlayoffInfo       `json:"playoffs,omitempty"`
}

// Pts returns the team's points from its stat line.
func (t GameTeam) Pts() int {
	return int(t.Stats[StatPoints])
}

// GamePlayer is a flattened per-player stat row of a persisted game
type GamePlayer struct {
	PlayerID      int                `json:"pid"`
	Name          string             `json:"name"`
	Pos           string             `json:"pos"`
	Stats         map[string]float64 `json:"stats"`
	Skills        []string           `json:"skills"`
	Injury        Injury             `json:"injury"`
	InjuryAtStart *Injury            `json:"injury_at_start,omitempty"`
	JerseyNumber  string             `json:"jersey_number,omitempty"`
	SeasonStats   map[string]float64 `json:"season_stats,omitempty"`
	BattingOrder  *int               `json:"batting_order,omitempty"`
	SubIndex      *int               `json:"sub_index,omitempty"`
}

// Stat returns a stat value, zero when absent.
func (p GamePlayer) Stat(key string) float64 {
	return p.Stats[key]
}

// PlayoffInfo is a team's series context going into games-to-win
type PlayoffInfo struct {
	Seed *int `json:"seed,omitempty"`
	Won  int  `json:"won"`
	Lost int  `json:"lost"`
}
