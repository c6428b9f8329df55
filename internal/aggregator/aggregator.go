// Package aggregator turns a finished simulation into the persisted game
// record. It settles the outcome and the records that follow from it, attaches
// playoff series context, writes the narrative events for the news feed,
// handles All-Star bookkeeping, and updates head-to-head and series state.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Stores are the collaborators a game is written through
type Stores struct {
	Games      contracts.GameStore
	Series     contracts.SeriesStore
	HeadToHead contracts.HeadToHeadStore
	AllStars   contracts.AllStarStore
	Players    contracts.RosterLookup
	Teams      contracts.TeamLookup
	Sink       contracts.EventSink
}

// Observer is told about finished games and emitted events
type Observer interface {
	GameFinalized(sportKey, outcome string)
	NarrativeEmitted(eventType models.LogEventType)
}

// Aggregator finalizes games of one sport
type Aggregator struct {
	sport    contracts.SportModule
	stores   Stores
	links    format.Links
	retry    *retry.Policy
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithRetry sets the policy used for store writes.
func WithRetry(p *retry.Policy) Option {
	return func(a *Aggregator) { a.retry = p }
}

// WithObserver reports outcomes and events, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) { a.observer = o }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New creates an aggregator for a sport.
func New(sport contracts.SportModule, stores Stores, links format.Links, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		sport:  sport,
		stores: stores,
		links:  links,
		retry:  retry.NewPolicy(3, 200*time.Millisecond),
		logger: logger.With().Str("component", "aggregator").Str("sport", sport.GetSportKey()).Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Finalize writes a finished game. Missing series, All-Star or MVP data only
// makes the result less detailed; an error is returned only when the game
// record itself could not be stored.
func (a *Aggregator) Finalize(ctx context.Context, league models.LeagueSettings, result models.SimulationResult) (*models.GameRecord, error) {
	r := &run{
		league:  league,
		result:  result,
		outcome: decideOutcome(result),
		teams:   make(map[int]models.Team),
		log:     a.logger.With().Int("gid", result.GameID).Logger(),
	}
	log := r.log

	// 1. Per team and per player record
	r.rec = a.buildRecord(league, result)

	if r.allStarGame() {
		allStars, err := a.stores.AllStars.GetAllStars(ctx, league.Season)
		if err != nil {
			log.Warn().Err(err).Int("season", league.Season).Msg("all-star record not found")
		} else {
			r.allStars = allStars
		}
	}

	// 2. Winner, loser and team records
	a.applyOutcome(r.rec, league, result, r.outcome)

	// 3. Playoff series context
	if league.Phase == models.PhasePlayoffs {
		r.playoffs = a.loadPlayoffContext(ctx, log, r)
		if r.playoffs != nil {
			r.rec.Teams[0].Playoffs = &r.playoffs.infos[0]
			r.rec.Teams[1].Playoffs = &r.playoffs.infos[1]
			r.rec.NumGamesToWinSeries = r.playoffs.numGamesToWinSeries
		}
	}

	// 4. Game notice for the user
	switch {
	case r.userPlayed():
		a.emit(ctx, log, a.userGameEvent(ctx, r))
	case r.allStarGame() && r.allStars != nil:
		a.emit(ctx, log, a.allStarGameEvent(r))
	}

	// 5. Series summary, emitted before the series is updated below
	if event, ok := a.seriesSummaryEvent(ctx, r); ok {
		a.emit(ctx, log, event)
	}

	if r.userPlayed() || r.allStarGame() {
		a.signal(ctx, log, models.Signal{
			Type:    models.SignalGameMerged,
			GameID:  result.GameID,
			Season:  league.Season,
			Payload: mergedGame(r),
		})
	}

	// 6. Clutch plays
	for _, cp := range result.ClutchPlays {
		a.emit(ctx, log, a.clutchPlayEvent(ctx, r, cp))
	}

	// 7. All-Star MVP
	if r.allStarGame() {
		a.allStarMVP(ctx, log, r)
	}

	// 8. Series winner and head-to-head
	var playoffRound *int
	if r.playoffs != nil {
		round := r.playoffs.currentRound
		playoffRound = &round
		if !r.outcome.tied && r.playoffs.infos[r.outcome.winner].Won == r.playoffs.numGamesToWinSeries {
			winner := r.rec.Won.TeamID
			r.rec.SeriesWinner = &winner
		}
	}
	entry := models.HeadToHeadEntry{
		Season:       league.Season,
		TeamIDs:      [2]int{r.rec.Won.TeamID, r.rec.Lost.TeamID},
		Pts:          [2]int{r.rec.Won.Pts, r.rec.Lost.Pts},
		Overtime:     r.rec.Overtimes > 0,
		PlayoffRound: playoffRound,
		SeriesWinner: copyInt(r.rec.SeriesWinner),
	}
	if err := a.retry.Execute(ctx, func(ctx context.Context) error {
		return a.stores.HeadToHead.AddGame(ctx, entry)
	}); err != nil {
		log.Error().Err(err).Msg("head-to-head entry not recorded")
	}

	// 9. The game record
	if err := a.retry.Execute(ctx, func(ctx context.Context) error {
		err := a.stores.Games.PutGame(ctx, r.rec)
		if errors.Is(err, contracts.ErrGameExists) {
			return retry.Permanent(err)
		}
		return err
	}); err != nil {
		return nil, fmt.Errorf("storing game %d: %w", result.GameID, err)
	}

	a.updateSeries(ctx, log, r)

	if a.observer != nil {
		a.observer.GameFinalized(a.sport.GetSportKey(), outcomeLabel(r.outcome))
	}
	log.Info().
		Int("won_tid", r.rec.Won.TeamID).
		Int("lost_tid", r.rec.Lost.TeamID).
		Str("score", r.scoreText()).
		Bool("tied", r.rec.Tied).
		Msg("game finalized")

	return r.rec, nil
}

func (a *Aggregator) loadPlayoffContext(ctx context.Context, log zerolog.Logger, r *run) *playoffContext {
	ps, err := a.stores.Series.GetSeries(ctx, r.league.Season)
	if err != nil {
		log.Warn().Err(err).Int("season", r.league.Season).Msg("playoff series not found, skipping playoff context")
		return nil
	}

	tids := [2]int{r.result.Teams[0].ID, r.result.Teams[1].ID}
	pairing := FindSeries(ps, tids[0], tids[1])
	if pairing == nil {
		log.Warn().Int("tid0", tids[0]).Int("tid1", tids[1]).Int("round", ps.CurrentRound).Msg("no series between teams, skipping playoff context")
		return nil
	}

	pc, err := newPlayoffContext(ps, pairing, tids, [2]int{r.result.Pts(0), r.result.Pts(1)}, r.league.NumGamesPlayoffSeries)
	if err != nil {
		log.Warn().Err(err).Msg("skipping playoff context")
		return nil
	}
	return pc
}

// allStarMVP picks the MVP, adds the award sentence to the box score and
// records it on the season's All-Star entry.
func (a *Aggregator) allStarMVP(ctx context.Context, log zerolog.Logger, r *run) {
	defer func() {
		if r.allStars == nil {
			return
		}
		gid := r.result.GameID
		r.allStars.GameID = &gid
		r.allStars.Score = &[2]int{r.result.Pts(0), r.result.Pts(1)}
		r.allStars.Overtimes = r.result.Overtimes
		if err := a.retry.Execute(ctx, func(ctx context.Context) error {
			return a.stores.AllStars.PutAllStars(ctx, r.allStars)
		}); err != nil {
			log.Error().Err(err).Msg("all-star record not saved")
		}
	}()

	mvp, _, ok := a.sport.MVPPolicy().SelectMVP(r.rec)
	if !ok {
		log.Info().Str("policy", a.sport.MVPPolicy().Name()).Msg("no all-star mvp candidate")
		return
	}

	// The roster entry has the player's real team
	p, err := a.stores.Players.GetPlayer(ctx, mvp.PlayerID)
	if err != nil {
		log.Warn().Err(err).Int("pid", mvp.PlayerID).Msg("all-star mvp not on roster, no award")
		return
	}

	if r.allStars != nil {
		r.allStars.MVP = &models.AllStarMVP{PlayerID: p.ID, TeamID: p.TeamID, Name: p.Name()}
	}

	text := a.allStarMVPText(ctx, r, mvp.Name, mvp.PlayerID, p.TeamID)
	r.rec.ClutchPlays = append(r.rec.ClutchPlays, text)
	a.emit(ctx, log, models.LogEvent{
		Type:             models.LogAward,
		Text:             text,
		Season:           r.league.Season,
		TeamIDs:          []int{p.TeamID},
		PlayerIDs:        []int{mvp.PlayerID},
		Score:            20,
		SaveToDB:         true,
		ShowNotification: p.TeamID == r.league.UserTeamID,
	})
}

// updateSeries credits the winning side of the series and tells observers.
func (a *Aggregator) updateSeries(ctx context.Context, log zerolog.Logger, r *run) {
	if r.playoffs == nil || r.outcome.tied {
		return
	}

	r.playoffs.recordWin(r.rec.Won.TeamID)
	err := a.retry.Execute(ctx, func(ctx context.Context) error {
		return a.stores.Series.PutSeries(ctx, r.playoffs.series)
	})
	if err != nil {
		log.Error().Err(err).Msg("playoff series not updated")
		return
	}

	a.signal(ctx, log, models.Signal{
		Type:    models.SignalSeriesUpdated,
		GameID:  r.result.GameID,
		Season:  r.league.Season,
		Payload: r.playoffs.series,
	})
}

// emit delivers a narrative event. Delivery failures are logged; the game is
// still written.
func (a *Aggregator) emit(ctx context.Context, log zerolog.Logger, event models.LogEvent) {
	event.ID = a.newID()
	event.CreatedAt = a.now()

	if err := a.stores.Sink.Emit(ctx, event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("narrative event not delivered")
		return
	}
	if a.observer != nil {
		a.observer.NarrativeEmitted(event.Type)
	}
}

func (a *Aggregator) signal(ctx context.Context, log zerolog.Logger, s models.Signal) {
	if err := a.stores.Sink.Signal(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("type", string(s.Type)).Msg("signal not delivered")
	}
}

func mergedGame(r *run) models.MergedGame {
	mg := models.MergedGame{
		GameID:     r.result.GameID,
		ForceWin:   copyInt(r.result.ForceWin),
		Overtimes:  r.result.Overtimes,
		NumPeriods: r.rec.NumPeriods,
	}
	for t := range mg.Teams {
		mg.Teams[t] = models.MergedTeam{
			TeamID:   r.result.Teams[t].ID,
			Ovr:      r.result.Teams[t].Ovr,
			Pts:      r.result.Pts(t),
			Playoffs: r.rec.Teams[t].Playoffs,
		}
	}
	return mg
}

func outcomeLabel(o outcome) string {
	if o.tied {
		return "tie"
	}
	return "decided"
}
