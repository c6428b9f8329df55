package models

import (
	"encoding/json"
	"time"
)

// Message types for WebSocket communication
const (
	MessageTypeLiveUpdate  = "live_update"
	MessageTypeGameFinal   = "game_final"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// LiveUpdate is one displayable increment of a live game
type LiveUpdate struct {
	SessionID        string     `json:"session_id"`
	GameID           int        `json:"gid"`
	SportKey         string     `json:"sport_key"`
	Text             string     `json:"text,omitempty"`
	PossessionChange bool       `json:"possession_change"`
	Overtimes        int        `json:"overtimes"`
	Quarters         []string   `json:"quarters"`
	Done             bool       `json:"done"`
	BoxScore         *BoxScore  `json:"box_score,omitempty"`
	SportState       SportState `json:"sport_state"`
}

// SportState is the compact football situation shown next to a live box score
type SportState struct {
	AwaitingKickoff  bool     `json:"awaiting_kickoff"`
	Side             int      `json:"t"`
	NumPlays         int      `json:"num_plays"`
	InitialScrimmage int      `json:"initial_scrimmage"`
	Scrimmage        int      `json:"scrimmage"`
	ToGo             *int     `json:"to_go,omitempty"` // nil while awaiting a kickoff
	Plays            []string `json:"plays"`
	Text             string   `json:"text"`
}

// DefaultSportState is the state before the opening kickoff.
func DefaultSportState() SportState {
	return SportState{
		AwaitingKickoff: true,
		Plays:           []string{},
	}
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	Sessions []string `json:"sessions,omitempty"` // Filter by live session IDs
	Sports   []string `json:"sports,omitempty"`   // Filter by sport keys
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
