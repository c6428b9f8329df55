package penalty

// DefaultInfractions is the league's infraction table with season frequency
// targets. Order matters: Model.Sample checks infractions in this order.
func DefaultInfractions() []Infraction {
	return []Infraction{
		{
			Name:           "Holding",
			Side:           Offense,
			Categories:     []PlayCategory{KickoffReturn, FieldGoal, Punt, PuntReturn, Pass, Run},
			PerSeason:      709,
			Yards:          10,
			PositionOdds:   map[Position]float64{OL: 0.83, TE: 0.1, WR: 0.05, RB: 0.02},
			NotBallCarrier: true,
			SpotFoul:       true,
		},
		{
			Name:         "False start",
			Side:         Offense,
			Categories:   []PlayCategory{BeforeSnap},
			PerSeason:    560,
			Yards:        5,
			PositionOdds: map[Position]float64{OL: 0.92, TE: 0.05, WR: 0.02, RB: 0.01},
		},
		{
			Name:         "Pass interference",
			Side:         Defense,
			Categories:   []PlayCategory{Pass},
			PerSeason:    237,
			Yards:        0,
			PositionOdds: map[Position]float64{CB: 0.6, S: 0.3, LB: 0.1},
			SpotFoul:     true,
		},
		{
			Name:               "Holding",
			Side:               Defense,
			Categories:         []PlayCategory{Pass, Run},
			PerSeason:          236,
			Yards:              5,
			PositionOdds:       map[Position]float64{DL: 0.25, LB: 0.25, S: 0.25, CB: 0.25},
			AutomaticFirstDown: true,
		},
		{
			Name:         "Unnecessary roughness",
			Side:         Defense,
			Categories:   []PlayCategory{KickoffReturn, FieldGoal, Punt, PuntReturn, Pass, Run},
			PerSeason:    150,
			Yards:        15,
			PositionOdds: map[Position]float64{DL: 0.25, LB: 0.25, S: 0.25, CB: 0.25},
		},
		{
			Name:         "Unnecessary roughness",
			Side:         Offense,
			Categories:   []PlayCategory{KickoffReturn, FieldGoal, Punt, PuntReturn, Pass, Run},
			PerSeason:    50,
			Yards:        15,
			PositionOdds: map[Position]float64{QB: 0.01, RB: 0.14, WR: 0.3, TE: 0.15, OL: 0.4},
		},
		{
			Name:         "Illegal block in the back",
			Side:         Offense,
			Categories:   []PlayCategory{PuntReturn},
			PerSeason:    184,
			Yards:        10,
			PositionOdds: map[Position]float64{DL: 0.4, S: 0.6},
		},
		{
			Name:         "Neutral zone infraction",
			Side:         Defense,
			Categories:   []PlayCategory{BeforeSnap},
			PerSeason:    143,
			Yards:        5,
			PositionOdds: map[Position]float64{DL: 0.85, LB: 0.15},
		},
		{
			Name:         "Offsides",
			Side:         Defense,
			Categories:   []PlayCategory{FieldGoal, Punt, PuntReturn, Pass, Run},
			PerSeason:    143,
			Yards:        5,
			PositionOdds: map[Position]float64{DL: 0.85, LB: 0.15},
		},
		{
			Name:         "Roughing the passer",
			Side:         Defense,
			Categories:   []PlayCategory{Pass},
			PerSeason:    114,
			Yards:        15,
			PositionOdds: map[Position]float64{DL: 0.7, LB: 0.24, S: 0.04, CB: 0.02},
		},
		{
			// No player is charged with a delay of game
			Name:       "Delay of game",
			Side:       Offense,
			Categories: []PlayCategory{BeforeSnap},
			PerSeason:  111,
			Yards:      5,
		},
		{
			Name:         "Face mask",
			Side:         Defense,
			Categories:   []PlayCategory{Pass, Run, KickoffReturn, PuntReturn},
			PerSeason:    80,
			Yards:        15,
			PositionOdds: map[Position]float64{LB: 0.6, DL: 0.2, S: 0.1, CB: 0.1},
		},
		{
			Name:         "Face mask",
			Side:         Offense,
			Categories:   []PlayCategory{Pass, Run, KickoffReturn, PuntReturn},
			PerSeason:    8,
			Yards:        15,
			PositionOdds: map[Position]float64{RB: 0.3, WR: 0.3, OL: 0.25, TE: 0.15},
		},
		{
			Name:         "Pass interference",
			Side:         Offense,
			Categories:   []PlayCategory{Pass},
			PerSeason:    83,
			Yards:        10,
			PositionOdds: map[Position]float64{WR: 0.82, TE: 0.16, RB: 0.02},
		},
		{
			Name:       "Illegal formation",
			Side:       Offense,
			Categories: []PlayCategory{Pass, Run},
			PerSeason:  71,
			Yards:      5,
		},
		{
			Name:               "Illegal use of hands",
			Side:               Defense,
			Categories:         []PlayCategory{Pass, Run},
			PerSeason:          36,
			Yards:              5,
			PositionOdds:       map[Position]float64{},
			AutomaticFirstDown: true,
		},
		{
			Name:         "Illegal use of hands",
			Side:         Offense,
			Categories:   []PlayCategory{Pass, Run},
			PerSeason:    35,
			Yards:        10,
			PositionOdds: map[Position]float64{RB: 0.1, WR: 0.3, OL: 0.5, TE: 0.1},
		},
		{
			Name:         "Unsportsmanlike conduct",
			Side:         Defense,
			Categories:   []PlayCategory{BeforeSnap},
			PerSeason:    27,
			Yards:        15,
			PositionOdds: map[Position]float64{},
		},
		{
			Name:         "Unsportsmanlike conduct",
			Side:         Offense,
			Categories:   []PlayCategory{BeforeSnap},
			PerSeason:    26,
			Yards:        15,
			PositionOdds: map[Position]float64{},
		},
		{
			Name:         "Illegal shift",
			Side:         Offense,
			Categories:   []PlayCategory{BeforeSnap},
			PerSeason:    43,
			Yards:        5,
			PositionOdds: map[Position]float64{RB: 0.2, WR: 0.6, TE: 0.2},
		},
		{
			Name:         "Illegal contact",
			Side:         Defense,
			Categories:   []PlayCategory{Pass},
			PerSeason:    43,
			Yards:        5,
			PositionOdds: map[Position]float64{LB: 0.1, S: 0.1, CB: 0.8},
		},
	}
}

// DefaultOpportunities is the number of plays of each category in a season.
// Every snapped play can draw a pre-snap flag, so BeforeSnap is the sum of the
// scrimmage and kicking categories.
func DefaultOpportunities() Opportunities {
	o := Opportunities{
		KickoffReturn: 2500,
		Punt:          2000,
		PuntReturn:    2000,
		FieldGoal:     2000, // Includes extra points
		Pass:          17500,
		Run:           13000,
	}
	o[BeforeSnap] = o[Punt] + o[FieldGoal] + o[Pass] + o[Run]
	return o
}
