package prediction

import (
	"fmt"
	"time"
)

// Record is one derived prop line for one player in one match. Threshold
// fields are nil when no ladder rung reached the qualifying count for that
// stat. Persisted as an upsert keyed by (PlayerID, MatchID).
type Record struct {
	PlayerID          string
	MatchID           string
	PointsThreshold   *int
	ReboundsThreshold *int
	AssistsThreshold  *int
	GamesAnalyzed     int
	RulesVersion      string
	ComputedAt        time.Time
}

func (r Record) Validate() error {
	if r.PlayerID == "" {
		return fmt.Errorf("prediction player id is required")
	}
	if r.MatchID == "" {
		return fmt.Errorf("prediction match id is required")
	}
	if r.GamesAnalyzed <= 0 {
		return fmt.Errorf("prediction games analyzed must be greater than zero")
	}
	if r.RulesVersion == "" {
		return fmt.Errorf("prediction rules version is required")
	}

	return nil
}

// Run records one orchestrator pass over a match. Its presence is what
// separates "never computed" from "computed with zero qualifying players"
// at the read boundary.
type Run struct {
	MatchID           string
	RanAt             time.Time
	PlayersConsidered int
	PlayersSkipped    int
	PlayersFailed     int
	RecordsWritten    int
	RulesVersion      string
}
