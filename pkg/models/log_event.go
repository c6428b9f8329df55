package models

import "time"

// LogEventType tags a narrative event
type LogEventType string

const (
	LogGameWon    LogEventType = "gameWon"
	LogGameLost   LogEventType = "gameLost"
	LogGameTied   LogEventType = "gameTied"
	LogPlayoffs   LogEventType = "playoffs"
	LogPlayerFeat LogEventType = "playerFeat"
	LogAward      LogEventType = "award"
)

// LogEvent is a narrative event for the news feed and notifications. Text may
// contain HTML links into the league.
type LogEvent struct {
	ID               string       `json:"id"`
	Type             LogEventType `json:"type"`
	Text             string       `json:"text"`
	Season           int          `json:"season"`
	TeamIDs          []int        `json:"tids"`
	PlayerIDs        []int        `json:"pids,omitempty"`
	Score            int          `json:"score"`
	SaveToDB         bool         `json:"save_to_db"`
	ShowNotification bool         `json:"show_notification"`
	CreatedAt        time.Time    `json:"created_at"`
}

// SignalType tags a state-change signal for other observers
type SignalType string

const (
	SignalGameMerged    SignalType = "gameMerged"
	SignalSeriesUpdated SignalType = "seriesUpdated"
)

// Signal tells other observers that shared state changed
type Signal struct {
	Type    SignalType  `json:"type"`
	GameID  int         `json:"gid"`
	Season  int         `json:"season"`
	Payload interface{} `json:"payload,omitempty"`
}

// MergedGame is the payload of a gameMerged signal
type MergedGame struct {
	GameID     int           `json:"gid"`
	ForceWin   *int          `json:"force_win,omitempty"`
	Overtimes  int           `json:"overtimes"`
	NumPeriods int           `json:"num_periods"`
	Teams      [2]MergedTeam `json:"teams"`
}

// MergedTeam is one side of a MergedGame
type MergedTeam struct {
	TeamID   int          `json:"tid"`
	Ovr      int          `json:"ovr"`
	Pts      int          `json:"pts"`
	Playoffs *PlayoffInfo `json:"playoffs,omitempty"`
}
