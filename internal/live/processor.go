// Package live turns the simulation's play-by-play event stream into a box
// score that fills in as the game is watched.
//
// Advance consumes events from the front of the queue until it reaches one
// worth pausing on (a play description or a pre-snap clock update), so each
// call yields one displayable increment. Stats and scoring summary changes in
// between are applied silently.
package live

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// State is what a session carries between Advance calls besides the box score
type State struct {
	Quarters  []string // Period labels seen so far, in order
	Overtimes int
	Sport     models.SportState
}

// NewState returns the state before the first event.
func NewState() State {
	return State{
		Quarters: []string{},
		Sport:    models.DefaultSportState(),
	}
}

// Result is one displayable increment
type Result struct {
	Overtimes        int
	PossessionChange bool
	Quarters         []string
	SportState       models.SportState
	Text             string
	// Stop is true when a text or clock event was reached, or the queue ran out.
	Stop bool
	// Done is true when no events are left.
	Done bool
	// Consumed is how many events this call removed from the queue.
	Consumed int
}

// EventObserver is told about every event consumed
type EventObserver interface {
	EventConsumed(sportKey string, kind models.EventKind)
}

// Processor applies events to a live box score for one sport
type Processor struct {
	sport    contracts.SportModule
	logger   zerolog.Logger
	observer EventObserver
}

// NewProcessor creates a processor. observer may be nil.
func NewProcessor(sport contracts.SportModule, logger zerolog.Logger, observer EventObserver) *Processor {
	return &Processor{
		sport:    sport,
		logger:   logger.With().Str("component", "live").Str("sport", sport.GetSportKey()).Logger(),
		observer: observer,
	}
}

// Advance consumes events until one that pauses playback. It mutates box and
// st. On an empty queue it returns Stop and Done without touching either.
func (p *Processor) Advance(q *Queue, box *models.BoxScore, st *State) Result {
	res := Result{}

	for !res.Stop {
		e, ok := q.Pop()
		if !ok {
			res.Stop = true
			break
		}
		res.Consumed++
		if p.observer != nil {
			p.observer.EventConsumed(p.sport.GetSportKey(), e.Kind())
		}

		// Simulation order is the reverse of box score order
		h := e.Header()
		if h.Side != 0 && h.Side != 1 {
			p.logger.Error().Int("t", h.Side).Str("kind", string(e.Kind())).Msg("event has invalid side, skipping")
			continue
		}
		side := 1 - h.Side

		p.startPeriod(box, st, h)

		switch ev := e.(type) {
		case models.TextEvent:
			res.PossessionChange = p.applyText(box, st, side, ev, &res.Text)
			res.Stop = true
		case models.ClockEvent:
			res.Text = p.applyClock(box, st, side, ev)
			res.Stop = true
		case models.StatEvent:
			p.applyStat(box, side, ev)
		case models.RemoveLastScoreEvent:
			if n := len(box.ScoringSummary); n > 0 {
				box.ScoringSummary = box.ScoringSummary[:n-1]
			}
		case models.ScoringSummaryEvent:
			// Only the attached entry below
		}

		if h.ScoringSummary != nil {
			entry := *h.ScoringSummary
			entry.Side = side
			if entry.Period == "" {
				entry.Period = h.Period
			}
			if entry.Time == "" {
				entry.Time = h.Time
			}
			box.ScoringSummary = append(box.ScoringSummary, entry)
		}
	}

	res.Done = q.Len() == 0
	res.Overtimes = st.Overtimes
	res.Quarters = append([]string(nil), st.Quarters...)
	res.SportState = st.Sport
	res.SportState.Plays = append([]string{}, st.Sport.Plays...)
	return res
}

// startPeriod opens a new period when the event carries an unseen period
// label, or when no period has been opened yet.
func (p *Processor) startPeriod(box *models.BoxScore, st *State, h models.EventHeader) {
	if len(st.Quarters) > 0 && (h.Period == "" || contains(st.Quarters, h.Period)) {
		return
	}

	label := h.Period
	if label == "" {
		label = p.sport.PeriodName(true) + "1"
	}
	st.Quarters = append(st.Quarters, label)
	box.Teams[0].PtsQtrs = append(box.Teams[0].PtsQtrs, 0)
	box.Teams[1].PtsQtrs = append(box.Teams[1].PtsQtrs, 0)

	regulation := box.NumPeriods
	if regulation == 0 {
		regulation = p.sport.NumPeriods()
	}
	period := len(box.Teams[0].PtsQtrs)
	if period > regulation {
		st.Overtimes++
		box.Overtime = OvertimeSuffix(st.Overtimes)
		box.Quarter = format.Ordinal(st.Overtimes) + " overtime"
		box.QuarterShort = OvertimeShort(st.Overtimes)
	} else {
		box.Quarter = format.Ordinal(period) + " " + p.sport.PeriodName(false)
		box.QuarterShort = fmt.Sprintf("%s%d", p.sport.PeriodName(true), period)
	}

	if h.Time != "" {
		box.Time = h.Time
	}
}

func (p *Processor) applyText(box *models.BoxScore, st *State, side int, e models.TextEvent, text *string) bool {
	team := &box.Teams[side]

	if e.InjuredPlayerID != nil {
		if pl := team.Player(*e.InjuredPlayerID); pl != nil {
			pl.Injury = &models.Injury{Type: "Injured", GamesRemaining: models.GamesRemainingUnknown}
		} else {
			p.logger.Error().
				Int("pid", *e.InjuredPlayerID).
				Int("tid", team.TeamID).
				Msg("injured player not in box score")
		}
	}

	changed := possessionChanged(e)

	*text = strings.Replace(e.Text, models.AbbrevPlaceholder, "("+team.Abbrev+")", 1)
	if e.Time != "" {
		box.Time = e.Time
	}

	if !st.Sport.AwaitingKickoff && !changed {
		st.Sport.NumPlays++
		st.Sport.Plays = append(st.Sport.Plays, *text)
	}

	return changed
}

func (p *Processor) applyClock(box *models.BoxScore, st *State, side int, e models.ClockEvent) string {
	situation := Situation(box.Teams[side].Abbrev, e)
	if e.Time != "" {
		box.Time = e.Time
	}
	updateSportState(&st.Sport, side, e, situation)
	return e.Time + " - " + situation
}

func (p *Processor) applyStat(box *models.BoxScore, side int, e models.StatEvent) {
	team := &box.Teams[side]

	if e.Stat == models.StatPoints {
		if n := len(team.PtsQtrs); n > 0 {
			team.PtsQtrs[n-1] += int(e.Amount)
		}
	}

	// Minutes are tracked by the clock, not by stat events
	if e.Stat == models.StatMinutes {
		return
	}

	longest := models.IsLongestStat(e.Stat)

	if e.PlayerID != nil {
		pl := team.Player(*e.PlayerID)
		if pl == nil {
			p.logger.Warn().Int("pid", *e.PlayerID).Int("tid", team.TeamID).Str("stat", e.Stat).Msg("stat for player not in box score")
		} else {
			if pl.Stats == nil {
				pl.Stats = make(map[string]float64)
			}
			if longest {
				pl.Stats[e.Stat] = e.Amount
			} else {
				pl.Stats[e.Stat] += e.Amount
			}
		}
	}

	if team.Stats == nil {
		team.Stats = make(map[string]float64)
	}
	if longest {
		team.Stats[e.Stat] = e.Amount
	} else {
		team.Stats[e.Stat] += e.Amount
	}
}

// OvertimeSuffix is the score suffix after n overtimes: " (OT)", " (2OT)".
func OvertimeSuffix(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return " (OT)"
	default:
		return fmt.Sprintf(" (%dOT)", n)
	}
}

// OvertimeShort is the short period label of the nth overtime: "OT", "2OT".
func OvertimeShort(n int) string {
	if n == 1 {
		return "OT"
	}
	return fmt.Sprintf("%dOT", n)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
