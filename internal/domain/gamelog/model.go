package gamelog

import "time"

// Game is one team-game data point for one player. A player who did not
// dress still gets a row with zero minutes; derivation treats those rows
// as unplayed and fills them in from the played games.
type Game struct {
	PlayerID             string
	PlayedAt             time.Time
	OpponentAbbreviation string
	MinutesPlayed        int
	Points               int
	Rebounds             int
	Assists              int
	WasImputed           bool
}

// Played reports whether the player actually logged minutes in this game.
func (g Game) Played() bool {
	return g.MinutesPlayed > 0
}
