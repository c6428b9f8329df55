package models

// Player is the roster entry for a player, as seen by the results pipeline
type Player struct {
	ID        int    `json:"pid"`
	TeamID    int    `json:"tid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name returns the player's display name.
func (p Player) Name() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Team is the display metadata of a team
type Team struct {
	ID     int    `json:"tid"`
	Abbrev string `json:"abbrev"` // "BOS"
	Region string `json:"region"` // "Boston"
	Name   string `json:"name"`   // "Boston Crusaders"
}
