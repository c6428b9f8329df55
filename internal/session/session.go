// Package session hosts live playback of simulated games. Each session owns
// the event queue, box score and sport state of one game and hands out one
// displayable increment at a time, either on request or from a fixed-delay
// pacing loop. Increments are cached, streamed and pushed to viewers; the game
// is finalized once its queue runs out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/live"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// ErrNotFound is returned for an unknown session id
var ErrNotFound = errors.New("session not found")

// DefaultPace is the delay between increments of a playing session
const DefaultPace = 1 * time.Second

// FinalizeTimeout bounds one attempt to write a finished game
const FinalizeTimeout = 30 * time.Second

// Finalizer writes a finished game
type Finalizer interface {
	Finalize(ctx context.Context, league models.LeagueSettings, result models.SimulationResult) (*models.GameRecord, error)
}

// Broadcaster pushes increments and final records to viewers
type Broadcaster interface {
	PublishLive(update models.LiveUpdate)
	PublishFinal(sessionID, sportKey string, rec *models.GameRecord)
}

// SnapshotWriter caches a session's latest increment
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, update models.LiveUpdate) error
}

// LivePublisher appends increments to a durable stream
type LivePublisher interface {
	PublishLiveUpdate(ctx context.Context, update models.LiveUpdate) error
}

// Observer is told how many sessions are still playing
type Observer interface {
	SessionsActive(n int)
}

// Deps are the manager's collaborators. Everything but Registry may be nil.
type Deps struct {
	Registry    *registry.Registry
	Finalizers  map[string]Finalizer // By sport key
	Cache       SnapshotWriter
	Streams     LivePublisher
	Broadcaster Broadcaster
	Events      live.EventObserver
	Observer    Observer
	Pace        time.Duration
}

// Spec describes a simulated game to play back
type Spec struct {
	League   models.LeagueSettings
	BoxScore models.BoxScore // Seed: teams, players and sport key
	Events   []models.Event
	// Result is finalized when playback ends. nil plays back without writing
	// a game record.
	Result *models.SimulationResult
}

// Session is one game being played back
type Session struct {
	ID       string
	SportKey string

	mu         sync.Mutex
	league     models.LeagueSettings
	result     *models.SimulationResult
	processor  *live.Processor
	queue      *live.Queue
	box        *models.BoxScore
	state      live.State
	last       models.LiveUpdate
	done       bool
	final      *models.GameRecord
	cancelPlay context.CancelFunc
	playGen    int

	finalizeMu sync.Mutex // Held across a Finalize call
}

// Manager owns the live sessions of the service
type Manager struct {
	deps   Deps
	logger zerolog.Logger
	newID  func() string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(deps Deps, logger zerolog.Logger) *Manager {
	if deps.Pace <= 0 {
		deps.Pace = DefaultPace
	}
	return &Manager{
		deps:     deps,
		logger:   logger.With().Str("component", "session").Logger(),
		newID:    uuid.NewString,
		sessions: make(map[string]*Session),
	}
}

// Create starts a paused session and returns its initial snapshot.
func (m *Manager) Create(ctx context.Context, spec Spec) (models.LiveUpdate, error) {
	module, err := m.deps.Registry.GetModule(spec.BoxScore.SportKey)
	if err != nil {
		return models.LiveUpdate{}, err
	}
	if spec.Result != nil {
		if _, ok := m.deps.Finalizers[module.GetSportKey()]; !ok {
			return models.LiveUpdate{}, fmt.Errorf("no finalizer for sport %s", module.GetSportKey())
		}
	}

	box, err := cloneBox(&spec.BoxScore)
	if err != nil {
		return models.LiveUpdate{}, fmt.Errorf("copying box score: %w", err)
	}
	seedBox(box, module)

	s := &Session{
		ID:        m.newID(),
		SportKey:  module.GetSportKey(),
		league:    spec.League,
		result:    spec.Result,
		processor: live.NewProcessor(module, m.logger, m.deps.Events),
		queue:     live.NewQueue(spec.Events),
		box:       box,
		state:     live.NewState(),
	}
	s.last, err = s.snapshot(live.Result{SportState: s.state.Sport, Quarters: []string{}})
	if err != nil {
		return models.LiveUpdate{}, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().
		Str("session_id", s.ID).
		Str("sport", s.SportKey).
		Int("gid", box.GameID).
		Int("events", len(spec.Events)).
		Msg("session created")
	m.cache(ctx, s.last)
	m.reportActive()

	return s.last, nil
}

// Advance plays up to n increments and returns them in order. It stops early
// when the game ends. Advancing a finished session returns its final
// increment again. When the game record cannot be written the error is
// returned along with the increments played; the next Advance retries the
// write.
func (m *Manager) Advance(ctx context.Context, id string, n int) ([]models.LiveUpdate, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	updates := make([]models.LiveUpdate, 0, n)
	for i := 0; i < n; i++ {
		u, done, err := m.step(ctx, s)
		if err != nil {
			if done {
				updates = append(updates, u)
			}
			return updates, err
		}
		updates = append(updates, u)
		if done {
			break
		}
	}
	return updates, nil
}

// Snapshot returns the latest increment of a session
func (m *Manager) Snapshot(id string) (models.LiveUpdate, error) {
	s, err := m.get(id)
	if err != nil {
		return models.LiveUpdate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, nil
}

// Final returns the finalized game record, or nil while the game is playing
// or when finalizing failed.
func (m *Manager) Final(id string) (*models.GameRecord, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final, nil
}

// Play starts the pacing loop. ctx bounds the loop's lifetime. Playing an
// already playing session is a no-op, as is playing a finished one whose
// record is stored.
func (m *Manager) Play(ctx context.Context, id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.cancelPlay != nil || (s.done && !s.pendingFinal()) {
		s.mu.Unlock()
		return nil
	}
	playCtx, cancel := context.WithCancel(ctx)
	s.cancelPlay = cancel
	s.playGen++
	gen := s.playGen
	s.mu.Unlock()

	go m.play(playCtx, s, gen)
	return nil
}

// Playing reports whether the pacing loop is running
func (m *Manager) Playing(id string) (bool, error) {
	s, err := m.get(id)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelPlay != nil, nil
}

// Stop pauses a playing session
func (m *Manager) Stop(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.stopPlaying()
	return nil
}

// Delete stops and forgets a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.stopPlaying()
	m.reportActive()
	return nil
}

// Active returns how many sessions have not finished
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, s := range m.sessions {
		s.mu.Lock()
		if !s.done {
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// play is the pacing loop. gen identifies this loop so a finished loop
// does not cancel one started after it.
func (m *Manager) play(ctx context.Context, s *Session, gen int) {
	log := m.logger.With().Str("session_id", s.ID).Logger()
	log.Info().Dur("pace", m.deps.Pace).Msg("playback started")

	ticker := time.NewTicker(m.deps.Pace)
	defer ticker.Stop()
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.playGen == gen && s.cancelPlay != nil {
			s.cancelPlay()
			s.cancelPlay = nil
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("playback stopped")
			return
		case <-ticker.C:
			_, done, err := m.step(ctx, s)
			if err != nil {
				log.Error().Err(err).Msg("playback failed")
				return
			}
			if done {
				log.Info().Msg("playback finished")
				return
			}
		}
	}
}

// step produces one increment. Once the queue is exhausted it returns the
// last increment unchanged and retries finalizing until a record is stored.
func (m *Manager) step(ctx context.Context, s *Session) (models.LiveUpdate, bool, error) {
	s.mu.Lock()
	if s.done {
		pending := s.pendingFinal()
		s.mu.Unlock()
		if pending {
			if err := m.finalize(ctx, s); err != nil {
				return s.lastUpdate(), true, err
			}
		}
		return s.lastUpdate(), true, nil
	}

	res := s.processor.Advance(s.queue, s.box, &s.state)
	u, err := s.snapshot(res)
	if err != nil {
		s.mu.Unlock()
		return models.LiveUpdate{}, false, err
	}
	s.last = u
	s.done = res.Done
	s.mu.Unlock()

	m.publish(ctx, u)
	if !res.Done {
		return u, false, nil
	}

	m.reportActive()
	if err := m.finalize(ctx, s); err != nil {
		return u, true, err
	}
	return s.lastUpdate(), true, nil
}

func (m *Manager) publish(ctx context.Context, u models.LiveUpdate) {
	m.cache(ctx, u)
	if m.deps.Streams != nil {
		if err := m.deps.Streams.PublishLiveUpdate(ctx, u); err != nil {
			m.logger.Error().Err(err).Str("session_id", u.SessionID).Msg("error publishing live update")
		}
	}
	if m.deps.Broadcaster != nil {
		m.deps.Broadcaster.PublishLive(u)
	}
}

func (m *Manager) cache(ctx context.Context, u models.LiveUpdate) {
	if m.deps.Cache == nil {
		return
	}
	if err := m.deps.Cache.WriteSnapshot(ctx, u); err != nil {
		m.logger.Error().Err(err).Str("session_id", u.SessionID).Msg("error caching snapshot")
	}
}

// finalize writes the game record. It runs detached from ctx's cancellation
// so a dropped request or shutdown does not abandon a write in progress.
// Concurrent callers are serialized and only the first success is kept.
func (m *Manager) finalize(ctx context.Context, s *Session) error {
	s.finalizeMu.Lock()
	defer s.finalizeMu.Unlock()

	s.mu.Lock()
	pending := s.pendingFinal()
	s.mu.Unlock()
	if !pending {
		return nil
	}

	log := m.logger.With().Str("session_id", s.ID).Int("gid", s.result.GameID).Logger()
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FinalizeTimeout)
	defer cancel()

	rec, err := m.deps.Finalizers[s.SportKey].Finalize(fctx, s.league, *s.result)
	if err != nil {
		log.Error().Err(err).Msg("error finalizing game, will retry on next advance")
		return fmt.Errorf("finalizing game %d: %w", s.result.GameID, err)
	}

	s.mu.Lock()
	s.final = rec
	s.box.ClutchPlays = append([]string(nil), rec.ClutchPlays...)
	if box, err := cloneBox(s.box); err == nil {
		s.last.BoxScore = box
	}
	s.mu.Unlock()

	log.Info().Msg("game finalized")
	if m.deps.Broadcaster != nil {
		m.deps.Broadcaster.PublishFinal(s.ID, s.SportKey, rec)
	}
	return nil
}

func (m *Manager) reportActive() {
	if m.deps.Observer != nil {
		m.deps.Observer.SessionsActive(m.Active())
	}
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// pendingFinal reports whether the game ended with a result not yet stored.
// Callers hold s.mu.
func (s *Session) pendingFinal() bool {
	return s.done && s.result != nil && s.final == nil
}

func (s *Session) lastUpdate() models.LiveUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) stopPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPlay != nil {
		s.cancelPlay()
		s.cancelPlay = nil
	}
}

// snapshot builds an increment carrying a copy of the box score, since
// viewers serialize it after the session has moved on. Callers hold s.mu.
func (s *Session) snapshot(res live.Result) (models.LiveUpdate, error) {
	box, err := cloneBox(s.box)
	if err != nil {
		return models.LiveUpdate{}, fmt.Errorf("copying box score: %w", err)
	}
	return models.LiveUpdate{
		SessionID:        s.ID,
		GameID:           s.box.GameID,
		SportKey:         s.SportKey,
		Text:             res.Text,
		PossessionChange: res.PossessionChange,
		Overtimes:        res.Overtimes,
		Quarters:         res.Quarters,
		Done:             res.Done,
		BoxScore:         box,
		SportState:       res.SportState,
	}, nil
}

// seedBox fills in what the processor expects to be present
func seedBox(box *models.BoxScore, module contracts.SportModule) {
	box.SportKey = module.GetSportKey()
	if box.NumPeriods == 0 {
		box.NumPeriods = module.NumPeriods()
	}
	if box.ScoringSummary == nil {
		box.ScoringSummary = []models.ScoringEntry{}
	}
	for t := range box.Teams {
		team := &box.Teams[t]
		if team.Stats == nil {
			team.Stats = map[string]float64{}
		}
		if team.PtsQtrs == nil {
			team.PtsQtrs = []int{}
		}
		for p := range team.Players {
			if team.Players[p].Stats == nil {
				team.Players[p].Stats = map[string]float64{}
			}
		}
	}
}

func cloneBox(box *models.BoxScore) (*models.BoxScore, error) {
	data, err := json.Marshal(box)
	if err != nil {
		return nil, err
	}
	var out models.BoxScore
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
