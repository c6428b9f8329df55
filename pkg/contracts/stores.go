package contracts

import (
	"context"
	"errors"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// RosterLookup reads players by id
type RosterLookup interface {
	GetPlayer(ctx context.Context, pid int) (*models.Player, error)
}

// TeamLookup reads team display metadata by id
type TeamLookup interface {
	GetTeam(ctx context.Context, tid int) (*models.Team, error)
}

// ErrGameExists is returned by GameStore.PutGame for a game id that is
// already stored. Records are written once.
var ErrGameExists = errors.New("game record already exists")

// GameStore persists finished game records
type GameStore interface {
	PutGame(ctx context.Context, game *models.GameRecord) error
	GetGame(ctx context.Context, gid int) (*models.GameRecord, error)
}

// SeriesStore reads and updates playoff brackets
type SeriesStore interface {
	GetSeries(ctx context.Context, season int) (*models.PlayoffSeries, error)
	PutSeries(ctx context.Context, series *models.PlayoffSeries) error
}

// HeadToHeadStore appends single-game head-to-head results
type HeadToHeadStore interface {
	AddGame(ctx context.Context, entry models.HeadToHeadEntry) error
}

// AllStarStore reads and writes the season's All-Star game bookkeeping
type AllStarStore interface {
	GetAllStars(ctx context.Context, season int) (*models.AllStars, error)
	PutAllStars(ctx context.Context, allStars *models.AllStars) error
}

// EventSink delivers narrative events and state-change signals. Emit must not
// return before the event is visible to readers of the sink.
type EventSink interface {
	Emit(ctx context.Context, event models.LogEvent) error
	Signal(ctx context.Context, signal models.Signal) error
}
