// Package format holds the small text helpers shared by the live box score
// and the game narratives.
package format

import (
	"fmt"
	"strings"
)

// Ordinal returns 1st, 2nd, 3rd, 4th, ... 11th, 12th, 13th, 21st.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Article returns "an" for numbers read with a leading vowel sound (8, 11,
// 18, 80...) and "a" otherwise. Scores are the only input.
func Article(score string) string {
	if strings.HasPrefix(score, "8") || strings.HasPrefix(score, "11-") || strings.HasPrefix(score, "18-") {
		return "an"
	}
	return "a"
}

// Links builds deep links into the league UI.
type Links struct {
	Base string // "/l/1"
}

// Team links a team page.
func (l Links) Team(text, abbrev string, tid, season int) string {
	return fmt.Sprintf(`<a href="%s/roster/%s_%d/%d">%s</a>`, l.Base, abbrev, tid, season, text)
}

// TeamAbbrev links a team page with the abbreviation as text.
func (l Links) TeamAbbrev(abbrev string, tid, season int) string {
	return fmt.Sprintf(`<a href="%s/roster/%s_%d/%d">%s</a>`, l.Base, abbrev, tid, season, abbrev)
}

// Game links a box score.
func (l Links) Game(text, abbrev string, tid, season, gid int) string {
	return fmt.Sprintf(`<a href="%s/game_log/%s_%d/%d/%d">%s</a>`, l.Base, abbrev, tid, season, gid, text)
}

// AllStarGame links the All-Star box score.
func (l Links) AllStarGame(text string, season, gid int) string {
	return fmt.Sprintf(`<a href="%s/game_log/special/%d/%d">%s</a>`, l.Base, season, gid, text)
}

// Player links a player page.
func (l Links) Player(name string, pid int) string {
	return fmt.Sprintf(`<a href="%s/player/%d">%s</a>`, l.Base, pid, name)
}

