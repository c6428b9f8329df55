package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// uniqueViolation is the postgres error code for a duplicate key
const uniqueViolation = "23505"

// Schema creates the tables used by Postgres. It is safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS teams (
	tid    INTEGER PRIMARY KEY,
	abbrev TEXT NOT NULL,
	region TEXT NOT NULL,
	name   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	pid        INTEGER PRIMARY KEY,
	tid        INTEGER NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	gid        INTEGER PRIMARY KEY,
	season     INTEGER NOT NULL,
	sport_key  TEXT NOT NULL,
	won_tid    INTEGER NOT NULL,
	lost_tid   INTEGER NOT NULL,
	playoffs   BOOLEAN NOT NULL,
	record     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS playoff_series (
	season     INTEGER PRIMARY KEY,
	bracket    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS head_to_head (
	id            BIGSERIAL PRIMARY KEY,
	season        INTEGER NOT NULL,
	tids          INTEGER[] NOT NULL,
	pts           INTEGER[] NOT NULL,
	overtime      BOOLEAN NOT NULL,
	playoff_round INTEGER,
	series_winner INTEGER
);

CREATE TABLE IF NOT EXISTS all_stars (
	season     INTEGER PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// Postgres stores records in PostgreSQL. Nested records are kept as JSONB.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates any missing tables.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (p *Postgres) PutGame(ctx context.Context, game *models.GameRecord) error {
	record, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to encode game %d: %w", game.GameID, err)
	}

	query := `
		INSERT INTO games (gid, season, sport_key, won_tid, lost_tid, playoffs, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = p.db.ExecContext(ctx, query,
		game.GameID,
		game.Season,
		game.SportKey,
		game.Won.TeamID,
		game.Lost.TeamID,
		game.Playoffs,
		record,
		game.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("game %d: %w", game.GameID, contracts.ErrGameExists)
		}
		return fmt.Errorf("failed to insert game %d: %w", game.GameID, err)
	}

	return nil
}

func (p *Postgres) GetGame(ctx context.Context, gid int) (*models.GameRecord, error) {
	var record []byte
	err := p.db.QueryRowContext(ctx, `SELECT record FROM games WHERE gid = $1`, gid).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %d: %w", gid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query game %d: %w", gid, err)
	}

	var game models.GameRecord
	if err := json.Unmarshal(record, &game); err != nil {
		return nil, fmt.Errorf("failed to decode game %d: %w", gid, err)
	}
	return &game, nil
}

// DeleteGame removes a game record.
func (p *Postgres) DeleteGame(ctx context.Context, gid int) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM games WHERE gid = $1`, gid)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", gid, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %d: %w", gid, ErrNotFound)
	}
	return nil
}

func (p *Postgres) GetSeries(ctx context.Context, season int) (*models.PlayoffSeries, error) {
	var bracket []byte
	err := p.db.QueryRowContext(ctx, `SELECT bracket FROM playoff_series WHERE season = $1`, season).Scan(&bracket)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("playoff series %d: %w", season, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query playoff series %d: %w", season, err)
	}

	var series models.PlayoffSeries
	if err := json.Unmarshal(bracket, &series); err != nil {
		return nil, fmt.Errorf("failed to decode playoff series %d: %w", season, err)
	}
	return &series, nil
}

func (p *Postgres) PutSeries(ctx context.Context, series *models.PlayoffSeries) error {
	bracket, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode playoff series %d: %w", series.Season, err)
	}

	query := `
		INSERT INTO playoff_series (season, bracket, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (season) DO UPDATE SET bracket = EXCLUDED.bracket, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, series.Season, bracket, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert playoff series %d: %w", series.Season, err)
	}
	return nil
}

func (p *Postgres) AddGame(ctx context.Context, entry models.HeadToHeadEntry) error {
	query := `
		INSERT INTO head_to_head (season, tids, pts, overtime, playoff_round, series_winner)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := p.db.ExecContext(ctx, query,
		entry.Season,
		pq.Array([]int64{int64(entry.TeamIDs[0]), int64(entry.TeamIDs[1])}),
		pq.Array([]int64{int64(entry.Pts[0]), int64(entry.Pts[1])}),
		entry.Overtime,
		nullInt(entry.PlayoffRound),
		nullInt(entry.SeriesWinner),
	)
	if err != nil {
		return fmt.Errorf("failed to insert head-to-head entry: %w", err)
	}
	return nil
}

// HeadToHead returns the entries involving both teams, oldest first.
func (p *Postgres) HeadToHead(ctx context.Context, tid0, tid1 int) ([]models.HeadToHeadEntry, error) {
	query := `
		SELECT season, tids, pts, overtime, playoff_round, series_winner
		FROM head_to_head
		WHERE tids @> $1
		ORDER BY id
	`
	rows, err := p.db.QueryContext(ctx, query, pq.Array([]int64{int64(tid0), int64(tid1)}))
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head: %w", err)
	}
	defer rows.Close()

	var entries []models.HeadToHeadEntry
	for rows.Next() {
		var (
			e             models.HeadToHeadEntry
			tids, pts     []int64
			round, winner sql.NullInt64
		)
		if err := rows.Scan(&e.Season, pq.Array(&tids), pq.Array(&pts), &e.Overtime, &round, &winner); err != nil {
			return nil, fmt.Errorf("failed to scan head-to-head: %w", err)
		}
		if len(tids) != 2 || len(pts) != 2 {
			return nil, fmt.Errorf("malformed head-to-head row for season %d", e.Season)
		}
		e.TeamIDs = [2]int{int(tids[0]), int(tids[1])}
		e.Pts = [2]int{int(pts[0]), int(pts[1])}
		e.PlayoffRound = intFromNull(round)
		e.SeriesWinner = intFromNull(winner)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (p *Postgres) GetAllStars(ctx context.Context, season int) (*models.AllStars, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM all_stars WHERE season = $1`, season).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("all-stars %d: %w", season, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query all-stars %d: %w", season, err)
	}

	var allStars models.AllStars
	if err := json.Unmarshal(data, &allStars); err != nil {
		return nil, fmt.Errorf("failed to decode all-stars %d: %w", season, err)
	}
	return &allStars, nil
}

func (p *Postgres) PutAllStars(ctx context.Context, allStars *models.AllStars) error {
	data, err := json.Marshal(allStars)
	if err != nil {
		return fmt.Errorf("failed to encode all-stars %d: %w", allStars.Season, err)
	}

	query := `
		INSERT INTO all_stars (season, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (season) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, allStars.Season, data, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert all-stars %d: %w", allStars.Season, err)
	}
	return nil
}

func (p *Postgres) GetPlayer(ctx context.Context, pid int) (*models.Player, error) {
	var pl models.Player
	err := p.db.QueryRowContext(ctx,
		`SELECT pid, tid, first_name, last_name FROM players WHERE pid = $1`, pid,
	).Scan(&pl.ID, &pl.TeamID, &pl.FirstName, &pl.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %d: %w", pid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query player %d: %w", pid, err)
	}
	return &pl, nil
}

// PutPlayer adds or replaces a roster entry.
func (p *Postgres) PutPlayer(ctx context.Context, pl models.Player) error {
	query := `
		INSERT INTO players (pid, tid, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pid) DO UPDATE SET tid = EXCLUDED.tid, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
	`
	if _, err := p.db.ExecContext(ctx, query, pl.ID, pl.TeamID, pl.FirstName, pl.LastName); err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", pl.ID, err)
	}
	return nil
}

func (p *Postgres) GetTeam(ctx context.Context, tid int) (*models.Team, error) {
	var t models.Team
	err := p.db.QueryRowContext(ctx,
		`SELECT tid, abbrev, region, name FROM teams WHERE tid = $1`, tid,
	).Scan(&t.ID, &t.Abbrev, &t.Region, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %d: %w", tid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query team %d: %w", tid, err)
	}
	return &t, nil
}

// PutTeam adds or replaces team metadata.
func (p *Postgres) PutTeam(ctx context.Context, t models.Team) error {
	query := `
		INSERT INTO teams (tid, abbrev, region, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tid) DO UPDATE SET abbrev = EXCLUDED.abbrev, region = EXCLUDED.region, name = EXCLUDED.name
	`
	if _, err := p.db.ExecContext(ctx, query, t.ID, t.Abbrev, t.Region, t.Name); err != nil {
		return fmt.Errorf("failed to upsert team %d: %w", t.ID, err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
