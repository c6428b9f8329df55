package aggregator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/american_football"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/basketball"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/hockey"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

const season = 2025

type recordingSink struct {
	mu      sync.Mutex
	order   []string
	events  []models.LogEvent
	signals []models.Signal
}

func (s *recordingSink) Emit(ctx context.Context, e models.LogEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "event:"+string(e.Type))
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Signal(ctx context.Context, sig models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, "signal:"+string(sig.Type))
	s.signals = append(s.signals, sig)
	return nil
}

func (s *recordingSink) ofType(t models.LogEventType) []models.LogEvent {
	var out []models.LogEvent
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSink) index(entry string) int {
	for i, o := range s.order {
		if o == entry {
			return i
		}
	}
	return -1
}

type failingGames struct {
	*store.Memory
	calls int
}

func (f *failingGames) PutGame(ctx context.Context, game *models.GameRecord) error {
	f.calls++
	return errors.New("connection refused")
}

type fixture struct {
	mem  *store.Memory
	sink *recordingSink
	agg  *Aggregator
}

func newFixture(t *testing.T, sport contracts.SportModule) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutTeam(ctx, models.Team{ID: 1, Abbrev: "ATL", Region: "Atlanta", Name: "Atlanta Bees"}))
	require.NoError(t, mem.PutTeam(ctx, models.Team{ID: 2, Abbrev: "BOS", Region: "Boston", Name: "Boston Crusaders"}))
	require.NoError(t, mem.PutTeam(ctx, models.Team{ID: 5, Abbrev: "CHI", Region: "Chicago", Name: "Chicago Whirlwinds"}))
	require.NoError(t, mem.PutTeam(ctx, models.Team{ID: 6, Abbrev: "DAL", Region: "Dallas", Name: "Dallas Snipers"}))

	sink := &recordingSink{}
	f := &fixture{mem: mem, sink: sink}
	f.agg = New(sport, f.stores(), format.Links{Base: "/l/1"}, zerolog.Nop(),
		WithRetry(retry.NewPolicy(1, 0)),
		WithClock(func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }),
	)
	return f
}

func (f *fixture) stores() Stores {
	return Stores{
		Games:      f.mem,
		Series:     f.mem,
		HeadToHead: f.mem,
		AllStars:   f.mem,
		Players:    f.mem,
		Teams:      f.mem,
		Sink:       f.sink,
	}
}

func intPtr(i int) *int { return &i }

func teamResult(tid, pts, won, lost int) models.TeamResult {
	return models.TeamResult{
		ID:    tid,
		Won:   won,
		Lost:  lost,
		Tied:  intPtr(0),
		OTL:   intPtr(0),
		Stats: map[string]float64{"pts": float64(pts)},
		Players: []models.PlayerResult{
			{ID: tid * 10, Name: "Player " + string(rune('A'+tid)), Stats: map[string]float64{"pts": float64(pts)}, Skills: []string{"V"}},
		},
	}
}

func regularSeason(user int) models.LeagueSettings {
	return models.LeagueSettings{
		Season:                season,
		Phase:                 models.PhaseRegularSeason,
		UserTeamID:            user,
		NumGamesPlayoffSeries: []int{7, 7, 7, 7},
	}
}

func TestFinalize_WinAndLoss(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	result := models.SimulationResult{
		GameID: 100,
		Day:    3,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 3, 4), teamResult(2, 17, 1, 6)},
	}

	rec, err := f.agg.Finalize(context.Background(), regularSeason(1), result)
	require.NoError(t, err)

	assert.Equal(t, models.TeamScore{TeamID: 1, Pts: 24}, rec.Won)
	assert.Equal(t, models.TeamScore{TeamID: 2, Pts: 17}, rec.Lost)
	assert.False(t, rec.Tied)
	assert.Equal(t, 4, rec.Teams[0].Won)
	assert.Equal(t, 4, rec.Teams[0].Lost)
	assert.Equal(t, 1, rec.Teams[1].Won)
	assert.Equal(t, 7, rec.Teams[1].Lost)
	assert.Equal(t, 0, *rec.Teams[0].Tied)
	assert.Equal(t, 0, *rec.Teams[1].Tied)
	assert.Equal(t, 4, rec.NumPeriods)
	assert.Equal(t, []string{"V"}, rec.Teams[0].Players[0].Skills)

	stored, err := f.mem.GetGame(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, rec.Won, stored.Won)

	won := f.sink.ofType(models.LogGameWon)
	require.Len(t, won, 1)
	assert.Contains(t, won[0].Text, "Your team defeated the")
	assert.Contains(t, won[0].Text, "Boston Crusaders")
	assert.True(t, strings.HasSuffix(won[0].Text, `<a href="/l/1/game_log/ATL_1/2025/100">24-17</a>.`), won[0].Text)
	assert.False(t, won[0].SaveToDB)
	assert.NotEmpty(t, won[0].ID)

	h2h, err := f.mem.HeadToHead(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, h2h, 1)
	assert.Equal(t, [2]int{1, 2}, h2h[0].TeamIDs)
	assert.Nil(t, h2h[0].PlayoffRound)

	assert.Equal(t, 1, f.sink.index("signal:"+string(models.SignalGameMerged)))
}

func TestFinalize_UserLost(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	result := models.SimulationResult{
		GameID: 101,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
	}

	_, err := f.agg.Finalize(context.Background(), regularSeason(2), result)
	require.NoError(t, err)

	lost := f.sink.ofType(models.LogGameLost)
	require.Len(t, lost, 1)
	assert.Contains(t, lost[0].Text, "Your team lost to the")
	assert.Contains(t, lost[0].Text, "Atlanta Bees")
	assert.Contains(t, lost[0].Text, `/game_log/BOS_2/2025/101">24-17</a>`)
}

func TestFinalize_Tie(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	result := models.SimulationResult{
		GameID:    102,
		Overtimes: 1,
		Teams:     [2]models.TeamResult{teamResult(1, 20, 3, 4), teamResult(2, 20, 1, 6)},
	}

	rec, err := f.agg.Finalize(context.Background(), regularSeason(1), result)
	require.NoError(t, err)

	assert.True(t, rec.Tied)
	assert.Equal(t, 1, *rec.Teams[0].Tied)
	assert.Equal(t, 1, *rec.Teams[1].Tied)
	assert.Equal(t, 3, rec.Teams[0].Won)
	assert.Equal(t, 4, rec.Teams[0].Lost)
	assert.Equal(t, 1, rec.Teams[1].Won)
	assert.Equal(t, 6, rec.Teams[1].Lost)

	tied := f.sink.ofType(models.LogGameTied)
	require.Len(t, tied, 1)
	assert.Contains(t, tied[0].Text, "Your team tied the")
	assert.Contains(t, tied[0].Text, "Boston Crusaders")
}

func TestFinalize_OvertimeLoss(t *testing.T) {
	f := newFixture(t, hockey.New(true))
	league := regularSeason(99)
	league.OvertimeLosses = true
	result := models.SimulationResult{
		GameID:    103,
		Overtimes: 1,
		Teams:     [2]models.TeamResult{teamResult(1, 2, 5, 5), teamResult(2, 3, 5, 5)},
	}

	rec, err := f.agg.Finalize(context.Background(), league, result)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.Won.TeamID)
	assert.Equal(t, 6, rec.Teams[1].Won)
	assert.Equal(t, 5, rec.Teams[0].Lost)
	assert.Equal(t, 1, *rec.Teams[0].OTL)
	assert.Empty(t, f.sink.events)
	assert.Empty(t, f.sink.signals)
}

func finalsSeries() *models.PlayoffSeries {
	return &models.PlayoffSeries{
		Season:       season,
		CurrentRound: 3,
		Series: [][]models.SeriesPairing{
			{}, {}, {},
			{{
				Home: models.SeriesSide{TeamID: 2, Won: 3, Seed: intPtr(1)},
				Away: &models.SeriesSide{TeamID: 1, Won: 3, Seed: intPtr(2)},
			}},
		},
	}
}

func playoffLeague(user int) models.LeagueSettings {
	l := regularSeason(user)
	l.Phase = models.PhasePlayoffs
	return l
}

func TestFinalize_SeriesWinner(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	ctx := context.Background()
	require.NoError(t, f.mem.PutSeries(ctx, finalsSeries()))

	result := models.SimulationResult{
		GameID: 104,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 10, 7), teamResult(2, 17, 12, 5)},
		ClutchPlays: []models.ClutchPlay{
			{Text: "Player B threw the winning touchdown", PlayerIDs: []int{10}, TeamIDs: []int{1}},
		},
	}

	rec, err := f.agg.Finalize(ctx, playoffLeague(1), result)
	require.NoError(t, err)

	assert.True(t, rec.Playoffs)
	require.NotNil(t, rec.SeriesWinner)
	assert.Equal(t, 1, *rec.SeriesWinner)
	assert.Equal(t, 4, rec.NumGamesToWinSeries)
	require.NotNil(t, rec.Teams[0].Playoffs)
	assert.Equal(t, models.PlayoffInfo{Seed: intPtr(2), Won: 4, Lost: 3}, *rec.Teams[0].Playoffs)
	assert.Equal(t, models.PlayoffInfo{Seed: intPtr(1), Won: 3, Lost: 4}, *rec.Teams[1].Playoffs)

	// Playoff games leave the season record alone
	assert.Equal(t, 10, rec.Teams[0].Won)
	assert.Equal(t, 5, rec.Teams[1].Lost)

	h2h, err := f.mem.HeadToHead(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, h2h, 1)
	require.NotNil(t, h2h[0].SeriesWinner)
	assert.Equal(t, 1, *h2h[0].SeriesWinner)
	require.NotNil(t, h2h[0].PlayoffRound)
	assert.Equal(t, 3, *h2h[0].PlayoffRound)

	summary := f.sink.ofType(models.LogPlayoffs)
	require.Len(t, summary, 1)
	assert.Contains(t, summary[0].Text, "in game 7 of the finals, winning the series 4-3.")
	assert.Equal(t, 20, summary[0].Score)
	assert.False(t, summary[0].ShowNotification)

	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 1)
	assert.True(t, strings.HasSuffix(feats[0].Text, "win over the Boston Crusaders, winning the finals 4-3."), feats[0].Text)
	assert.Equal(t, 20, feats[0].Score)

	summaryAt := f.sink.index("event:" + string(models.LogPlayoffs))
	updatedAt := f.sink.index("signal:" + string(models.SignalSeriesUpdated))
	require.GreaterOrEqual(t, summaryAt, 0)
	require.GreaterOrEqual(t, updatedAt, 0)
	assert.Less(t, summaryAt, updatedAt)

	ps, err := f.mem.GetSeries(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, 4, ps.Series[3][0].Away.Won)
	assert.Equal(t, 3, ps.Series[3][0].Home.Won)
}

func TestFinalize_SeriesSummaryLeadTexts(t *testing.T) {
	tests := []struct {
		name     string
		homeWon  int
		awayWon  int
		pts      [2]int
		wantText string
		round    int
	}{
		{"evening", 1, 0, [2]int{24, 17}, ", evening the series at 1-1.", 3},
		{"taking lead", 0, 0, [2]int{24, 17}, ", taking a 1-0 series lead.", 3},
		{"extending lead", 0, 2, [2]int{24, 17}, ", extending their 3-0 series lead.", 3},
		{"closing deficit", 3, 0, [2]int{24, 17}, ", closing their 1-3 series deficit.", 3},
		{"semifinals", 0, 0, [2]int{24, 17}, "in game 1 of the semifinals, taking a 1-0 series lead.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, american_football.New(true))
			ctx := context.Background()
			ps := finalsSeries()
			ps.CurrentRound = tt.round
			ps.Series[tt.round] = ps.Series[3]
			ps.Series[tt.round][0].Home.Won = tt.homeWon
			ps.Series[tt.round][0].Away.Won = tt.awayWon
			require.NoError(t, f.mem.PutSeries(ctx, ps))

			result := models.SimulationResult{
				GameID: 105,
				Teams:  [2]models.TeamResult{teamResult(1, tt.pts[0], 0, 0), teamResult(2, tt.pts[1], 0, 0)},
			}
			_, err := f.agg.Finalize(ctx, playoffLeague(99), result)
			require.NoError(t, err)

			summary := f.sink.ofType(models.LogPlayoffs)
			require.Len(t, summary, 1)
			assert.True(t, strings.HasSuffix(summary[0].Text, tt.wantText), summary[0].Text)
		})
	}
}

func TestFinalize_EarlyRoundHasNoSummary(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	ctx := context.Background()
	ps := finalsSeries()
	ps.CurrentRound = 0
	ps.Series[0] = ps.Series[3]
	require.NoError(t, f.mem.PutSeries(ctx, ps))

	result := models.SimulationResult{
		GameID: 106,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
		ClutchPlays: []models.ClutchPlay{
			{Text: "Player C sacked the quarterback", PlayerIDs: []int{20}, TeamIDs: []int{2}},
		},
	}
	_, err := f.agg.Finalize(ctx, playoffLeague(99), result)
	require.NoError(t, err)

	assert.Empty(t, f.sink.ofType(models.LogPlayoffs))
	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 1)
	assert.True(t, strings.HasSuffix(feats[0].Text, "loss to the Atlanta Bees, losing the 1st round of the playoffs 4-3."), feats[0].Text)
	assert.Zero(t, feats[0].Score)
}

func TestFinalize_PlayInGame(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	ctx := context.Background()
	require.NoError(t, f.mem.PutSeries(ctx, &models.PlayoffSeries{
		Season:       season,
		CurrentRound: models.PlayInRound,
		PlayIns: [][]models.SeriesPairing{{{
			Home: models.SeriesSide{TeamID: 2, Seed: intPtr(7)},
			Away: &models.SeriesSide{TeamID: 1, Seed: intPtr(8)},
		}}},
	}))

	result := models.SimulationResult{
		GameID: 107,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
		ClutchPlays: []models.ClutchPlay{
			{Text: "Player B ran it in", PlayerIDs: []int{10}, TeamIDs: []int{1}},
		},
	}
	rec, err := f.agg.Finalize(ctx, playoffLeague(99), result)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.NumGamesToWinSeries)
	require.NotNil(t, rec.SeriesWinner)
	assert.Equal(t, 1, *rec.SeriesWinner)
	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 1)
	assert.True(t, strings.HasSuffix(feats[0].Text, "win over the Boston Crusaders in the play-in tournament game."), feats[0].Text)
}

func TestFinalize_MissingSeries(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	result := models.SimulationResult{
		GameID: 108,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
	}

	rec, err := f.agg.Finalize(context.Background(), playoffLeague(1), result)
	require.NoError(t, err)

	assert.Nil(t, rec.Teams[0].Playoffs)
	assert.Nil(t, rec.SeriesWinner)
	assert.Zero(t, rec.NumGamesToWinSeries)
	assert.Empty(t, f.sink.ofType(models.LogPlayoffs))
	assert.Equal(t, -1, f.sink.index("signal:"+string(models.SignalSeriesUpdated)))
	require.Len(t, f.sink.ofType(models.LogGameWon), 1)

	_, err = f.mem.GetGame(context.Background(), 108)
	assert.NoError(t, err)
}

func TestFinalize_ClutchPlayRegularSeason(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	result := models.SimulationResult{
		GameID: 109,
		Teams:  [2]models.TeamResult{teamResult(1, 84, 0, 0), teamResult(2, 17, 0, 0)},
		ClutchPlays: []models.ClutchPlay{
			{Text: "Player B scored again", PlayerIDs: []int{10}, TeamIDs: []int{1}},
			{Text: "Player C ran back a kickoff", PlayerIDs: []int{20}, TeamIDs: []int{2}},
		},
	}

	rec, err := f.agg.Finalize(context.Background(), regularSeason(99), result)
	require.NoError(t, err)

	assert.Equal(t, []string{"Player B scored again.", "Player C ran back a kickoff."}, rec.ClutchPlays)

	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 2)
	assert.Equal(t, `Player B scored again in an <a href="/l/1/game_log/ATL_1/2025/109">84-17</a> win over the Boston Crusaders.`, feats[0].Text)
	assert.Equal(t, 10, feats[0].Score)
	assert.True(t, feats[0].ShowNotification)
	assert.Equal(t, `Player C ran back a kickoff in an <a href="/l/1/game_log/BOS_2/2025/109">84-17</a> loss to the Atlanta Bees.`, feats[1].Text)
	assert.Zero(t, feats[1].Score)
}

func allStarFixture(t *testing.T, withRoster bool) (*fixture, models.SimulationResult) {
	t.Helper()
	f := newFixture(t, basketball.New(true))
	ctx := context.Background()

	require.NoError(t, f.mem.PutAllStars(ctx, &models.AllStars{
		Season:    season,
		TeamNames: [2]string{"Team Jo", "Team Al"},
		Teams: [2][]models.AllStarEntry{
			{{PlayerID: 10, TeamID: 5, Name: "Jo Smith"}, {PlayerID: 11, TeamID: 6, Name: "Cy Young"}},
			{{PlayerID: 20, TeamID: 6, Name: "Al Jones"}},
		},
	}))
	if withRoster {
		require.NoError(t, f.mem.PutPlayer(ctx, models.Player{ID: 10, TeamID: 5, FirstName: "Jo", LastName: "Smith"}))
	}

	result := models.SimulationResult{
		GameID: 300,
		Teams: [2]models.TeamResult{
			{
				ID:    models.AllStarTeam0,
				Stats: map[string]float64{"pts": 120},
				Players: []models.PlayerResult{
					{ID: 10, Name: "Jo Smith", Stats: map[string]float64{"pts": 40}},
					{ID: 11, Name: "Cy Young", Stats: map[string]float64{"pts": 10}},
				},
			},
			{
				ID:    models.AllStarTeam1,
				Stats: map[string]float64{"pts": 118},
				Players: []models.PlayerResult{
					{ID: 20, Name: "Al Jones", Stats: map[string]float64{"pts": 30}},
				},
			},
		},
		ClutchPlays: []models.ClutchPlay{
			{Text: "Jo Smith hit the game-winner", PlayerIDs: []int{10}, TeamIDs: []int{models.AllStarTeam0}},
		},
	}
	return f, result
}

func TestFinalize_AllStarClutchUsesRealTeam(t *testing.T) {
	f, result := allStarFixture(t, true)
	ctx := context.Background()

	rec, err := f.agg.Finalize(ctx, regularSeason(5), result)
	require.NoError(t, err)

	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 1)
	assert.Contains(t, feats[0].Text, `Jo Smith hit the game-winner (<a href="/l/1/roster/CHI_5/2025">CHI</a>)`)
	assert.Contains(t, feats[0].Text, "win in the All-Star Game.")
	assert.NotContains(t, feats[0].Text, "_-1")
	assert.Equal(t, []int{5}, feats[0].TeamIDs)
	assert.True(t, feats[0].ShowNotification)

	game := f.sink.ofType(models.LogGameWon)
	require.Len(t, game, 1)
	assert.True(t, strings.HasPrefix(game[0].Text, "Team Jo defeated Team Al"), game[0].Text)
	assert.Equal(t, []int{5}, game[0].TeamIDs)

	awards := f.sink.ofType(models.LogAward)
	require.Len(t, awards, 1)
	assert.Contains(t, awards[0].Text, "won the All-Star MVP award.")
	assert.Contains(t, rec.ClutchPlays[len(rec.ClutchPlays)-1], "won the All-Star MVP award.")

	allStars, err := f.mem.GetAllStars(ctx, season)
	require.NoError(t, err)
	require.NotNil(t, allStars.MVP)
	assert.Equal(t, models.AllStarMVP{PlayerID: 10, TeamID: 5, Name: "Jo Smith"}, *allStars.MVP)
	require.NotNil(t, allStars.GameID)
	assert.Equal(t, 300, *allStars.GameID)
	assert.Equal(t, [2]int{120, 118}, *allStars.Score)
}

func TestFinalize_AllStarHeadToHead(t *testing.T) {
	f, result := allStarFixture(t, true)
	ctx := context.Background()

	_, err := f.agg.Finalize(ctx, regularSeason(5), result)
	require.NoError(t, err)

	h2h, err := f.mem.HeadToHead(ctx, models.AllStarTeam0, models.AllStarTeam1)
	require.NoError(t, err)
	require.Len(t, h2h, 1)
	assert.Equal(t, [2]int{models.AllStarTeam0, models.AllStarTeam1}, h2h[0].TeamIDs)
	assert.Equal(t, [2]int{120, 118}, h2h[0].Pts)
	assert.Nil(t, h2h[0].PlayoffRound)
}

func TestFinalize_TeamLookupFailureLogsGame(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	var buf bytes.Buffer
	f.agg = New(american_football.New(true), f.stores(), format.Links{Base: "/l/1"}, zerolog.New(&buf),
		WithRetry(retry.NewPolicy(1, 0)),
	)
	result := models.SimulationResult{
		GameID: 140,
		Teams:  [2]models.TeamResult{teamResult(1, 21, 0, 0), teamResult(9, 3, 0, 0)},
	}

	rec, err := f.agg.Finalize(context.Background(), regularSeason(1), result)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Won.TeamID)

	var lookup string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "team lookup failed") {
			lookup = line
			break
		}
	}
	require.NotEmpty(t, lookup, buf.String())
	assert.Contains(t, lookup, `"gid":140`)
	assert.Contains(t, lookup, `"tid":9`)
}

func TestFinalize_AllStarOtherUsersTeamNotNotified(t *testing.T) {
	f, result := allStarFixture(t, true)

	_, err := f.agg.Finalize(context.Background(), regularSeason(6), result)
	require.NoError(t, err)

	feats := f.sink.ofType(models.LogPlayerFeat)
	require.Len(t, feats, 1)
	assert.False(t, feats[0].ShowNotification)
}

func TestFinalize_AllStarMVPMissingFromRoster(t *testing.T) {
	f, result := allStarFixture(t, false)
	ctx := context.Background()

	rec, err := f.agg.Finalize(ctx, regularSeason(5), result)
	require.NoError(t, err)

	assert.Empty(t, f.sink.ofType(models.LogAward))
	assert.Equal(t, []string{"Jo Smith hit the game-winner."}, rec.ClutchPlays)

	allStars, err := f.mem.GetAllStars(ctx, season)
	require.NoError(t, err)
	assert.Nil(t, allStars.MVP)
	require.NotNil(t, allStars.GameID)

	_, err = f.mem.GetGame(ctx, 300)
	assert.NoError(t, err)
}

func TestFinalize_PersistErrorPropagates(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	games := &failingGames{Memory: f.mem}
	stores := f.stores()
	stores.Games = games
	agg := New(american_football.New(true), stores, format.Links{Base: "/l/1"}, zerolog.Nop(), WithRetry(retry.NewPolicy(2, 0)))

	result := models.SimulationResult{
		GameID: 110,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
	}
	rec, err := agg.Finalize(context.Background(), regularSeason(1), result)

	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, err.Error(), "storing game 110")
	assert.Equal(t, 2, games.calls)
}

func TestFinalize_DuplicateGameNotRetried(t *testing.T) {
	f := newFixture(t, american_football.New(true))
	f.agg.retry = retry.NewPolicy(5, 0)
	result := models.SimulationResult{
		GameID: 111,
		Teams:  [2]models.TeamResult{teamResult(1, 24, 0, 0), teamResult(2, 17, 0, 0)},
	}

	_, err := f.agg.Finalize(context.Background(), regularSeason(99), result)
	require.NoError(t, err)

	_, err = f.agg.Finalize(context.Background(), regularSeason(99), result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrGameExists))
}

func TestFindSeries_IgnoresHomeAway(t *testing.T) {
	ps := finalsSeries()

	assert.NotNil(t, FindSeries(ps, 1, 2))
	assert.NotNil(t, FindSeries(ps, 2, 1))
	assert.Nil(t, FindSeries(ps, 1, 3))
	assert.Nil(t, FindSeries(nil, 1, 2))
}

func TestNumGamesToWinSeries(t *testing.T) {
	assert.Equal(t, 4, NumGamesToWinSeries(7))
	assert.Equal(t, 3, NumGamesToWinSeries(5))
	assert.Equal(t, 1, NumGamesToWinSeries(1))
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "play-in tournament game", RoundName(-1, 4, false))
	assert.Equal(t, "2nd round of the playoffs", RoundName(1, 4, false))
	assert.Equal(t, "semifinals", RoundName(2, 4, false))
	assert.Equal(t, "conference finals", RoundName(2, 4, true))
	assert.Equal(t, "finals", RoundName(3, 4, true))
}
