package models

import (
	"encoding/json"
	"fmt"
)

// EventKind tags a live game event
type EventKind string

const (
	EventText            EventKind = "text"
	EventClock           EventKind = "clock"
	EventStat            EventKind = "stat"
	EventRemoveLastScore EventKind = "removeLastScore"
	EventScoringSummary  EventKind = "scoringSummary"
)

// AbbrevPlaceholder is replaced with the acting team's abbreviation in event
// text. The parens keep it from colliding with ABBREV0/ABBREV1 in penalty text.
const AbbrevPlaceholder = "(ABBREV)"

// Event is one entry of the play-by-play stream produced by the game
// simulation. The set of implementations is closed.
type Event interface {
	Kind() EventKind
	Header() EventHeader
	isEvent()
}

// EventHeader holds the fields every event kind carries. Side uses the
// simulation's team order, which is the reverse of box score order.
type EventHeader struct {
	Side           int           `json:"t"`
	Period         string        `json:"quarter,omitempty"`
	Time           string        `json:"time,omitempty"`
	ScoringSummary *ScoringEntry `json:"scoringSummary,omitempty"`
}

// TextEvent is a play description. It always pauses playback.
type TextEvent struct {
	EventHeader
	Text            string `json:"text"`
	InjuredPlayerID *int   `json:"injuredPID,omitempty"`
	// PossessionChange, when set by the producer, overrides text matching.
	PossessionChange *bool `json:"possessionChange,omitempty"`
}

// ClockEvent reports the down, distance and spot before a snap. It always
// pauses playback.
type ClockEvent struct {
	EventHeader
	Down            int  `json:"down,omitempty"`
	ToGo            int  `json:"toGo,omitempty"`
	Scrimmage       int  `json:"scrimmage"`
	AwaitingKickoff bool `json:"awaitingKickoff,omitempty"`
}

// StatEvent adds to a team stat and optionally a player stat.
type StatEvent struct {
	EventHeader
	Stat     string  `json:"s"`
	Amount   float64 `json:"amt"`
	PlayerID *int    `json:"pid,omitempty"`
}

// RemoveLastScoreEvent retracts the latest scoring summary entry.
type RemoveLastScoreEvent struct {
	EventHeader
}

// ScoringSummaryEvent only carries a scoring summary entry.
type ScoringSummaryEvent struct {
	EventHeader
}

func (e TextEvent) Kind() EventKind            { return EventText }
func (e ClockEvent) Kind() EventKind           { return EventClock }
func (e StatEvent) Kind() EventKind            { return EventStat }
func (e RemoveLastScoreEvent) Kind() EventKind { return EventRemoveLastScore }
func (e ScoringSummaryEvent) Kind() EventKind  { return EventScoringSummary }

func (e EventHeader) Header() EventHeader { return e }

func (TextEvent) isEvent()            {}
func (ClockEvent) isEvent()           {}
func (StatEvent) isEvent()            {}
func (RemoveLastScoreEvent) isEvent() {}
func (ScoringSummaryEvent) isEvent()  {}

// envelope is the wire shape of an event: a type tag next to the kind's fields
type envelope struct {
	Type EventKind `json:"type"`
}

// DecodeEvent parses one JSON-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding event type: %w", err)
	}

	var (
		event Event
		err   error
	)
	switch env.Type {
	case EventText:
		var e TextEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventClock:
		var e ClockEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventStat:
		var e StatEvent
		err = json.Unmarshal(data, &e)
		if err == nil && e.Stat == "" {
			err = fmt.Errorf("stat event without stat key")
		}
		event = e
	case EventRemoveLastScore:
		var e RemoveLastScoreEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventScoringSummary:
		var e ScoringSummaryEvent
		err = json.Unmarshal(data, &e)
		if err == nil && e.ScoringSummary == nil {
			err = fmt.Errorf("scoring summary event without entry")
		}
		event = e
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", env.Type, err)
	}

	return event, nil
}

// DecodeEvents parses a JSON array of events, preserving order.
func DecodeEvents(data []byte) ([]Event, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding event list: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for i, r := range raw {
		e, err := DecodeEvent(r)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}

	return events, nil
}
