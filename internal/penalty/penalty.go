// Package penalty models rule infractions that can be called on a play.
//
// Each infraction carries a season-long frequency target. When a Model is
// built, the target is converted into a per-play probability by dividing it
// by the number of plays, across the infraction's play categories, that a
// season is expected to have. The play generator consults the model once per
// play.
package penalty

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
)

// Side is the team an infraction is charged to
type Side string

const (
	Offense Side = "offense"
	Defense Side = "defense"
)

// PlayCategory is the kind of play an infraction can occur on
type PlayCategory string

const (
	KickoffReturn PlayCategory = "kickoffReturn"
	Punt          PlayCategory = "punt"
	PuntReturn    PlayCategory = "puntReturn"
	FieldGoal     PlayCategory = "fieldGoal"
	Pass          PlayCategory = "pass"
	Run           PlayCategory = "run"
	BeforeSnap    PlayCategory = "beforeSnap"
)

// Position is an on-field position
type Position string

const (
	QB Position = "QB"
	RB Position = "RB"
	WR Position = "WR"
	TE Position = "TE"
	OL Position = "OL"
	DL Position = "DL"
	LB Position = "LB"
	CB Position = "CB"
	S  Position = "S"
	K  Position = "K"
	P  Position = "P"
)

// Opportunities is the expected number of plays per season in each category
type Opportunities map[PlayCategory]int64

var (
	// ErrNoOpportunities means an infraction's categories add up to zero
	// plays per season, so no probability can be derived.
	ErrNoOpportunities = errors.New("infraction has no play opportunities")

	// ErrInvalidProbability means the derived probability falls outside [0, 1].
	ErrInvalidProbability = errors.New("infraction probability out of range")

	// ErrUnknownCategory means an infraction names a category missing from
	// the opportunity table.
	ErrUnknownCategory = errors.New("play category missing from opportunity table")
)

// Infraction is one entry of the penalty table
type Infraction struct {
	Name               string
	Side               Side
	Categories         []PlayCategory
	PerSeason          int64 // Season frequency target
	Yards              int
	AutomaticFirstDown bool
	NotBallCarrier     bool
	SpotFoul           bool

	// PositionOdds is the relative chance of each position committing the
	// infraction. nil means no player is charged; an empty map means every
	// player on the field is equally likely.
	PositionOdds map[Position]float64

	probPerPlay decimal.Decimal
	idle        map[PlayCategory]bool // Categories with no plays in the season
}

// Probability returns the exact per-play probability derived at load.
func (inf Infraction) Probability() decimal.Decimal {
	return inf.probPerPlay
}

// AppliesTo reports whether the infraction can occur on a play category.
func (inf Infraction) AppliesTo(category PlayCategory) bool {
	for _, c := range inf.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ProbabilityFor returns the chance of the infraction on one play of the
// given category, or 0 when it cannot occur there.
func (inf Infraction) ProbabilityFor(category PlayCategory) float64 {
	if !inf.AppliesTo(category) || inf.idle[category] {
		return 0
	}
	return inf.probPerPlay.InexactFloat64()
}

// AttributedPosition picks the position charged with the infraction from the
// positions of the players on the field. ok is false when nobody is charged.
func (inf Infraction) AttributedPosition(onField []Position, rng *rand.Rand) (Position, bool) {
	if inf.PositionOdds == nil || len(onField) == 0 {
		return "", false
	}

	if len(inf.PositionOdds) == 0 {
		return onField[rng.Intn(len(onField))], true
	}

	present := make(map[Position]bool, len(onField))
	for _, pos := range onField {
		present[pos] = true
	}

	// Sorted so a seeded rng gives the same pick on every run
	candidates := make([]Position, 0, len(inf.PositionOdds))
	total := 0.0
	for pos, odds := range inf.PositionOdds {
		if present[pos] && odds > 0 {
			candidates = append(candidates, pos)
			total += odds
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	r := rng.Float64() * total
	for _, pos := range candidates {
		r -= inf.PositionOdds[pos]
		if r < 0 {
			return pos, true
		}
	}
	return candidates[len(candidates)-1], true
}

// Model is the loaded penalty table with probabilities derived
type Model struct {
	infractions   []Infraction
	opportunities Opportunities
}

// NewModel derives per-play probabilities for every infraction. It fails if
// any infraction cannot be given a probability in [0, 1].
func NewModel(infractions []Infraction, opportunities Opportunities) (*Model, error) {
	for category, n := range opportunities {
		if n < 0 {
			return nil, fmt.Errorf("opportunities for %s: negative count %d", category, n)
		}
	}

	loaded := make([]Infraction, len(infractions))
	for i, inf := range infractions {
		if inf.PerSeason < 0 {
			return nil, fmt.Errorf("%s (%s): negative season target %d", inf.Name, inf.Side, inf.PerSeason)
		}

		var chances int64
		inf.idle = nil
		for _, category := range inf.Categories {
			n, ok := opportunities[category]
			if !ok {
				return nil, fmt.Errorf("%s (%s): %w: %s", inf.Name, inf.Side, ErrUnknownCategory, category)
			}
			if n == 0 {
				if inf.idle == nil {
					inf.idle = make(map[PlayCategory]bool)
				}
				inf.idle[category] = true
			}
			chances += n
		}
		if chances == 0 {
			return nil, fmt.Errorf("%s (%s): %w", inf.Name, inf.Side, ErrNoOpportunities)
		}

		prob := decimal.NewFromInt(inf.PerSeason).Div(decimal.NewFromInt(chances))
		if prob.IsNegative() || prob.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%s (%s): %w: %s", inf.Name, inf.Side, ErrInvalidProbability, prob)
		}

		inf.Categories = append([]PlayCategory(nil), inf.Categories...)
		inf.probPerPlay = prob
		loaded[i] = inf
	}

	opps := make(Opportunities, len(opportunities))
	for category, n := range opportunities {
		opps[category] = n
	}

	return &Model{infractions: loaded, opportunities: opps}, nil
}

// NewDefaultModel loads the default table against the default season.
func NewDefaultModel() (*Model, error) {
	return NewModel(DefaultInfractions(), DefaultOpportunities())
}

// Infractions returns the loaded table in order.
func (m *Model) Infractions() []Infraction {
	out := make([]Infraction, len(m.infractions))
	copy(out, m.infractions)
	return out
}

// Opportunities returns the season table the probabilities were derived from.
func (m *Model) Opportunities() Opportunities {
	out := make(Opportunities, len(m.opportunities))
	for category, n := range m.opportunities {
		out[category] = n
	}
	return out
}

// ForCategory returns the infractions that can occur on a play category.
func (m *Model) ForCategory(category PlayCategory) []Infraction {
	var out []Infraction
	for _, inf := range m.infractions {
		if inf.AppliesTo(category) {
			out = append(out, inf)
		}
	}
	return out
}

// Sample rolls for every infraction applicable to one play of the category,
// in table order, and returns the first one called.
func (m *Model) Sample(category PlayCategory, rng *rand.Rand) (Infraction, bool) {
	for _, inf := range m.infractions {
		p := inf.ProbabilityFor(category)
		if p > 0 && rng.Float64() < p {
			return inf, true
		}
	}
	return Infraction{}, false
}
