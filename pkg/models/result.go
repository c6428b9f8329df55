package models

// All-Star games use reserved negative team ids.
const (
	AllStarTeam0 = -1
	AllStarTeam1 = -2
)

// SimulationResult is what the game engine hands over once a game is played
type SimulationResult struct {
	GameID            int            `json:"gid"`
	Day               int            `json:"day"`
	Teams             [2]TeamResult  `json:"team"`
	Overtimes         int            `json:"overtimes"`
	Attendance        int            `json:"att"`
	NumPlayersOnCourt int            `json:"num_players_on_court,omitempty"`
	ScoringSummary    []ScoringEntry `json:"scoring_summary,omitempty"`
	ClutchPlays       []ClutchPlay   `json:"clutch_plays,omitempty"`
	ForceWin          *int           `json:"force_win,omitempty"`
}

// IsAllStar reports whether the result is from the All-Star game.
func (r SimulationResult) IsAllStar() bool {
	return r.Teams[0].ID == AllStarTeam0 && r.Teams[1].ID == AllStarTeam1
}

// Pts returns the final points of team index t.
func (r SimulationResult) Pts(t int) int {
	return int(r.Teams[t].Stats[StatPoints])
}

// TeamResult is one team's output from the simulation
type TeamResult struct {
	ID      int                `json:"id"`
	Ovr     int                `json:"ovr"`
	Won     int                `json:"won"`
	Lost    int                `json:"lost"`
	Tied    *int               `json:"tied,omitempty"` // nil when the sport does not track ties
	OTL     *int               `json:"otl,omitempty"`
	Stats   map[string]float64 `json:"stat"`
	Players []PlayerResult     `json:"player"`
}

// PlayerResult is one player's output from the simulation
type PlayerResult struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Pos           string             `json:"pos"`
	Stats         map[string]float64 `json:"stat"`
	Skills        []string           `json:"skills"`
	Injury        Injury             `json:"injury"`
	InjuryAtStart *Injury            `json:"injury_at_start,omitempty"`
	JerseyNumber  string             `json:"jersey_number,omitempty"`
	SeasonStats   map[string]float64 `json:"season_stats,omitempty"`
	BattingOrder  *int               `json:"batting_order,omitempty"`
	SubIndex      *int               `json:"sub_index,omitempty"`
}

// ClutchPlay is a highlighted play picked by the simulation. Text is a
// sentence fragment; the game context is appended when the game is written.
type ClutchPlay struct {
	Text             string `json:"text"`
	PlayerIDs        []int  `json:"pids"`
	TeamIDs          []int  `json:"tids"`
	ShowNotification *bool  `json:"show_notification,omitempty"`
}
