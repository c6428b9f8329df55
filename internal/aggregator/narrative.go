package aggregator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/format"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

const (
	winBadge  = `<span style="color: green; font-weight: bold; padding-right: 3px">W</span>`
	lossBadge = `<span style="color: red; font-weight: bold; padding-right: 8px">L</span>`
	tieBadge  = `<span style="color: yellow; font-weight: bold; padding-right: 8px">T</span>`
)

// run is the state of one Finalize call
type run struct {
	league   models.LeagueSettings
	result   models.SimulationResult
	rec      *models.GameRecord
	outcome  outcome
	playoffs *playoffContext
	allStars *models.AllStars
	teams    map[int]models.Team
	log      zerolog.Logger // Scoped to the game id
}

func (r *run) allStarGame() bool {
	return r.result.IsAllStar()
}

func (r *run) userPlayed() bool {
	return r.result.Teams[0].ID == r.league.UserTeamID || r.result.Teams[1].ID == r.league.UserTeamID
}

// scoreText is "winner-loser"
func (r *run) scoreText() string {
	return fmt.Sprintf("%d-%d", r.rec.Won.Pts, r.rec.Lost.Pts)
}

// team returns display metadata, falling back to a placeholder when the
// lookup fails.
func (a *Aggregator) team(ctx context.Context, r *run, tid int) models.Team {
	if t, ok := r.teams[tid]; ok {
		return t
	}

	t := models.Team{ID: tid, Abbrev: "???", Name: fmt.Sprintf("Team %d", tid)}
	if found, err := a.stores.Teams.GetTeam(ctx, tid); err != nil {
		r.log.Warn().Err(err).Int("tid", tid).Msg("team lookup failed")
	} else {
		t = *found
	}

	r.teams[tid] = t
	return t
}

func (a *Aggregator) teamLink(ctx context.Context, r *run, tid int) string {
	t := a.team(ctx, r, tid)
	return a.links.Team(t.Name, t.Abbrev, tid, r.league.Season)
}

// userGameEvent is the win/loss/tie notice for the user's team
func (a *Aggregator) userGameEvent(ctx context.Context, r *run) models.LogEvent {
	user := r.league.UserTeamID
	w, l := r.result.Teams[r.outcome.winner].ID, r.result.Teams[r.outcome.loser].ID

	var (
		text string
		typ  models.LogEventType
	)
	switch {
	case r.outcome.tied:
		other := r.result.Teams[0].ID
		if other == user {
			other = r.result.Teams[1].ID
		}
		text = tieBadge + " Your team tied the " + a.teamLink(ctx, r, other)
		typ = models.LogGameTied
	case w == user:
		text = winBadge + " Your team defeated the " + a.teamLink(ctx, r, l)
		typ = models.LogGameWon
	default:
		text = lossBadge + " Your team lost to the " + a.teamLink(ctx, r, w)
		typ = models.LogGameLost
	}

	userTeam := a.team(ctx, r, user)
	text += " " + a.links.Game(r.scoreText(), userTeam.Abbrev, user, r.league.Season, r.result.GameID) + "."

	return models.LogEvent{
		Type:             typ,
		Text:             text,
		Season:           r.league.Season,
		TeamIDs:          []int{r.result.Teams[0].ID, r.result.Teams[1].ID},
		SaveToDB:         false,
		ShowNotification: true,
	}
}

// allStarGameEvent reports the All-Star game to the user whether or not any
// of their players took part.
func (a *Aggregator) allStarGameEvent(r *run) models.LogEvent {
	verb, typ := "defeated", models.LogGameWon
	if r.outcome.tied {
		verb, typ = "tied", models.LogGameTied
	}

	text := fmt.Sprintf("%s %s %s %s.",
		r.allStars.TeamNames[r.outcome.winner],
		verb,
		r.allStars.TeamNames[r.outcome.loser],
		a.links.AllStarGame(r.scoreText()+" in the All-Star Game", r.league.Season, r.result.GameID),
	)

	return models.LogEvent{
		Type:             typ,
		Text:             text,
		Season:           r.league.Season,
		TeamIDs:          []int{r.league.UserTeamID},
		SaveToDB:         false,
		ShowNotification: true,
	}
}

// seriesSummaryEvent describes a game in the last two rounds of the playoffs
// for the news feed. ok is false for earlier rounds.
func (a *Aggregator) seriesSummaryEvent(ctx context.Context, r *run) (models.LogEvent, bool) {
	pc := r.playoffs
	numRounds := r.league.NumPlayoffRounds()
	if pc == nil || pc.currentRound < 0 || pc.currentRound < numRounds-2 {
		return models.LogEvent{}, false
	}

	round := RoundName(pc.currentRound, numRounds, r.league.PlayoffsByConference)
	score := 10
	if round == "finals" {
		score = 20
	}

	gameNumText := ""
	leadText := ""
	if pc.numGamesToWinSeries > 1 {
		gameNumText = fmt.Sprintf(" game %d of", pc.gameNumber())

		info := pc.infos[r.outcome.winner]
		record := fmt.Sprintf("%d-%d", info.Won, info.Lost)
		switch {
		case info.Won == info.Lost:
			leadText = ", evening the series at " + record
		case info.Won == pc.numGamesToWinSeries:
			leadText = ", winning the series " + record
			score = 20
		case info.Won == info.Lost+1:
			leadText = ", taking a " + record + " series lead"
		case info.Won > info.Lost:
			leadText = ", extending their " + record + " series lead"
		default:
			leadText = ", closing their " + record + " series deficit"
		}
	}

	w, l := r.rec.Won.TeamID, r.rec.Lost.TeamID
	userTeam := a.team(ctx, r, r.league.UserTeamID)
	text := fmt.Sprintf("The %s defeated the %s %s in%s the %s%s.",
		a.teamLink(ctx, r, w),
		a.teamLink(ctx, r, l),
		a.links.Game(r.scoreText(), userTeam.Abbrev, r.league.UserTeamID, r.league.Season, r.result.GameID),
		gameNumText,
		round,
		leadText,
	)

	return models.LogEvent{
		Type:             models.LogPlayoffs,
		Text:             text,
		Season:           r.league.Season,
		TeamIDs:          []int{w, l},
		Score:            score,
		SaveToDB:         true,
		ShowNotification: false,
	}, true
}

// clutchPlayEvent finishes a clutch play sentence with the game's context and
// records the short form on the game record.
func (a *Aggregator) clutchPlayEvent(ctx context.Context, r *run, cp models.ClutchPlay) models.LogEvent {
	r.rec.ClutchPlays = append(r.rec.ClutchPlays, cp.Text+".")

	ind := 1
	if len(cp.TeamIDs) > 0 && cp.TeamIDs[0] == r.result.Teams[0].ID {
		ind = 0
	}
	other := 1 - ind
	won := ind == r.outcome.winner

	score := fmt.Sprintf("%d-%d", r.result.Pts(other), r.result.Pts(ind))
	if won {
		score = fmt.Sprintf("%d-%d", r.result.Pts(ind), r.result.Pts(other))
	}

	text := cp.Text
	teamIDs := append([]int(nil), cp.TeamIDs...)
	showNotification := cp.ShowNotification == nil || *cp.ShowNotification

	var endPart, gameLink string
	if r.allStarGame() {
		switch {
		case r.outcome.tied:
			endPart = "tie in the All-Star Game"
		case won:
			endPart = "win in the All-Star Game"
		default:
			endPart = "loss in the All-Star Game"
		}
		gameLink = a.links.AllStarGame(score, r.league.Season, r.result.GameID)

		// Credit the player's real team, not the All-Star side
		if r.allStars != nil && len(cp.PlayerIDs) > 0 {
			if tid, ok := r.allStars.RealTeam(ind, cp.PlayerIDs[0]); ok {
				realTeam := a.team(ctx, r, tid)
				text += " (" + a.links.TeamAbbrev(realTeam.Abbrev, tid, r.league.Season) + ")"
				teamIDs = []int{tid}
				showNotification = tid == r.league.UserTeamID
			} else {
				r.log.Warn().Int("pid", cp.PlayerIDs[0]).Msg("clutch player not on an All-Star roster")
			}
		}
	} else {
		switch {
		case r.outcome.tied:
			endPart = "tie with"
		case won:
			endPart = "win over"
		default:
			endPart = "loss to"
		}
		endPart += " the " + a.team(ctx, r, r.result.Teams[other].ID).Name
		endPart += a.playoffStakes(r, ind)

		t := a.team(ctx, r, r.result.Teams[ind].ID)
		gameLink = a.links.Game(score, t.Abbrev, t.ID, r.league.Season, r.result.GameID)
	}

	text += fmt.Sprintf(" in %s %s %s.", format.Article(score), gameLink, endPart)

	eventScore := 0
	if won && !r.outcome.tied {
		eventScore = 10
		if r.rec.Playoffs {
			eventScore = 20
		}
	}

	return models.LogEvent{
		Type:             models.LogPlayerFeat,
		Text:             text,
		Season:           r.league.Season,
		TeamIDs:          teamIDs,
		PlayerIDs:        append([]int(nil), cp.PlayerIDs...),
		Score:            eventScore,
		SaveToDB:         true,
		ShowNotification: showNotification,
	}
}

// playoffStakes describes what the game meant for team ind's series
func (a *Aggregator) playoffStakes(r *run, ind int) string {
	pc := r.playoffs
	if pc == nil {
		return ""
	}

	round := RoundName(pc.currentRound, r.league.NumPlayoffRounds(), r.league.PlayoffsByConference)
	if pc.numGamesThisRound <= 1 {
		return " in the " + round
	}

	info := pc.infos[ind]
	switch {
	case info.Won == pc.numGamesToWinSeries:
		return fmt.Sprintf(", winning the %s %d-%d", round, info.Won, info.Lost)
	case info.Lost == pc.numGamesToWinSeries:
		return fmt.Sprintf(", losing the %s %d-%d", round, info.Lost, info.Won)
	default:
		return fmt.Sprintf(" during game %d of the %s", pc.gameNumber(), round)
	}
}

// allStarMVPText is the award sentence attached to the All-Star box score
func (a *Aggregator) allStarMVPText(ctx context.Context, r *run, name string, pid, tid int) string {
	t := a.team(ctx, r, tid)
	return fmt.Sprintf("%s (%s) won the All-Star MVP award.",
		a.links.Player(name, pid),
		a.links.TeamAbbrev(t.Abbrev, tid, r.league.Season),
	)
}
