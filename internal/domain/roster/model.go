package roster

import "fmt"

// Entry is one player listed on either side of a match.
type Entry struct {
	MatchID          string
	PlayerID         string
	PlayerName       string
	TeamAbbreviation string
}

func (e Entry) Validate() error {
	if e.MatchID == "" {
		return fmt.Errorf("roster entry match id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("roster entry player id is required")
	}
	if e.TeamAbbreviation == "" {
		return fmt.Errorf("roster entry team abbreviation is required")
	}

	return nil
}
