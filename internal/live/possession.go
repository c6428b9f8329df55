package live

import (
	"regexp"
	"strings"

	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"
)

// PossessionChangePhrases are the play-text fragments that mean the ball
// changed hands. The play text generator must keep producing them verbatim.
var PossessionChangePhrases = []string{
	" kicked off ",
	" punted ",
	" recovered the fumble for the defense",
	" recovered the fumble in the endzone, resulting in a safety!",
	" intercepted the pass ",
	" gets ready to attempt an onside kick",
	"Turnover on downs",
}

var missedFieldGoal = regexp.MustCompile(`missed.*yard field goal`)

// DetectPossessionChange reports whether play text describes a change of
// possession.
func DetectPossessionChange(text string) bool {
	for _, phrase := range PossessionChangePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return missedFieldGoal.MatchString(text)
}

// possessionChanged prefers the producer's explicit flag over the text match
func possessionChanged(e models.TextEvent) bool {
	if e.PossessionChange != nil {
		return *e.PossessionChange
	}
	return DetectPossessionChange(e.Text)
}
