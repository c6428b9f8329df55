package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// Memory keeps everything in process. It backs tests and single-node runs
// without a database.
type Memory struct {
	mu         sync.RWMutex
	games      map[int]*models.GameRecord
	series     map[int]*models.PlayoffSeries
	allStars   map[int]*models.AllStars
	players    map[int]models.Player
	teams      map[int]models.Team
	headToHead []models.HeadToHeadEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		games:    make(map[int]*models.GameRecord),
		series:   make(map[int]*models.PlayoffSeries),
		allStars: make(map[int]*models.AllStars),
		players:  make(map[int]models.Player),
		teams:    make(map[int]models.Team),
	}
}

// PutGame stores a game record. A game id can only be written once.
func (m *Memory) PutGame(ctx context.Context, game *models.GameRecord) error {
	c, err := clone(game)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[game.GameID]; ok {
		return fmt.Errorf("game %d: %w", game.GameID, contracts.ErrGameExists)
	}
	m.games[game.GameID] = c
	return nil
}

func (m *Memory) GetGame(ctx context.Context, gid int) (*models.GameRecord, error) {
	m.mu.RLock()
	g, ok := m.games[gid]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game %d: %w", gid, ErrNotFound)
	}
	return clone(g)
}

// DeleteGame removes a game record.
func (m *Memory) DeleteGame(ctx context.Context, gid int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[gid]; !ok {
		return fmt.Errorf("game %d: %w", gid, ErrNotFound)
	}
	delete(m.games, gid)
	return nil
}

func (m *Memory) GetSeries(ctx context.Context, season int) (*models.PlayoffSeries, error) {
	m.mu.RLock()
	s, ok := m.series[season]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("playoff series %d: %w", season, ErrNotFound)
	}
	return clone(s)
}

func (m *Memory) PutSeries(ctx context.Context, series *models.PlayoffSeries) error {
	c, err := clone(series)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.series[series.Season] = c
	m.mu.Unlock()
	return nil
}

func (m *Memory) AddGame(ctx context.Context, entry models.HeadToHeadEntry) error {
	m.mu.Lock()
	m.headToHead = append(m.headToHead, entry)
	m.mu.Unlock()
	return nil
}

// HeadToHead returns the entries involving both teams, oldest first.
func (m *Memory) HeadToHead(ctx context.Context, tid0, tid1 int) ([]models.HeadToHeadEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.HeadToHeadEntry
	for _, e := range m.headToHead {
		if (e.TeamIDs[0] == tid0 && e.TeamIDs[1] == tid1) || (e.TeamIDs[0] == tid1 && e.TeamIDs[1] == tid0) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) GetAllStars(ctx context.Context, season int) (*models.AllStars, error) {
	m.mu.RLock()
	a, ok := m.allStars[season]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("all-stars %d: %w", season, ErrNotFound)
	}
	return clone(a)
}

func (m *Memory) PutAllStars(ctx context.Context, allStars *models.AllStars) error {
	c, err := clone(allStars)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.allStars[allStars.Season] = c
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetPlayer(ctx context.Context, pid int) (*models.Player, error) {
	m.mu.RLock()
	p, ok := m.players[pid]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("player %d: %w", pid, ErrNotFound)
	}
	return &p, nil
}

// PutPlayer adds or replaces a roster entry.
func (m *Memory) PutPlayer(ctx context.Context, p models.Player) error {
	m.mu.Lock()
	m.players[p.ID] = p
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetTeam(ctx context.Context, tid int) (*models.Team, error) {
	m.mu.RLock()
	t, ok := m.teams[tid]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("team %d: %w", tid, ErrNotFound)
	}
	return &t, nil
}

// PutTeam adds or replaces team metadata.
func (m *Memory) PutTeam(ctx context.Context, t models.Team) error {
	m.mu.Lock()
	m.teams[t.ID] = t
	m.mu.Unlock()
	return nil
}

// Teams returns all teams ordered by id.
func (m *Memory) Teams(ctx context.Context) ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
