package prediction

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/gamelog"
)

var (
	ErrWindowSizeMismatch  = errors.New("window size mismatch")
	ErrInvalidRuleSet      = errors.New("invalid rule set")
	ErrPlayerMatchRequired = errors.New("player id and match id are required")
)

// RuleSet stores the derivation parameters: the fixed window size, the
// qualifying count, and one descending threshold ladder per stat. Rule
// changes ship as a new Version so stored records stay auditable; values
// are never read from runtime configuration.
type RuleSet struct {
	Version         string
	WindowSize      int
	QualifyingCount int
	PointsLadder    []int
	ReboundsLadder  []int
	AssistsLadder   []int
}

func DefaultRules() RuleSet {
	return RuleSet{
		Version:         "2024-10",
		WindowSize:      15,
		QualifyingCount: 14,
		PointsLadder:    []int{30, 25, 20, 15, 10},
		ReboundsLadder:  []int{12, 10, 8, 6, 4},
		AssistsLadder:   []int{10, 8, 6, 4, 2},
	}
}

func (r RuleSet) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidRuleSet)
	}
	if r.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be greater than zero", ErrInvalidRuleSet)
	}
	if r.QualifyingCount <= 0 || r.QualifyingCount > r.WindowSize {
		return fmt.Errorf("%w: qualifying count must be in 1..%d", ErrInvalidRuleSet, r.WindowSize)
	}
	for name, ladder := range map[string][]int{
		"points":   r.PointsLadder,
		"rebounds": r.ReboundsLadder,
		"assists":  r.AssistsLadder,
	} {
		if len(ladder) == 0 {
			return fmt.Errorf("%w: %s ladder is empty", ErrInvalidRuleSet, name)
		}
		for i := 1; i < len(ladder); i++ {
			if ladder[i] >= ladder[i-1] {
				return fmt.Errorf("%w: %s ladder must be strictly descending", ErrInvalidRuleSet, name)
			}
		}
	}

	return nil
}

// ImputeWindow fills in stats for games the player did not play using the
// rounded average of the games they did play. It returns a copy of the
// window and reports whether imputation was possible: a window with zero
// played games comes back unchanged with false, and the caller decides how
// loudly to complain. The input is never mutated.
func ImputeWindow(window []gamelog.Game) ([]gamelog.Game, bool) {
	out := append([]gamelog.Game(nil), window...)

	var played int
	var points, rebounds, assists int
	for _, game := range window {
		if !game.Played() {
			continue
		}
		played++
		points += game.Points
		rebounds += game.Rebounds
		assists += game.Assists
	}
	if played == 0 {
		return out, false
	}

	avgPoints := roundHalfUp(float64(points) / float64(played))
	avgRebounds := roundHalfUp(float64(rebounds) / float64(played))
	avgAssists := roundHalfUp(float64(assists) / float64(played))

	for i := range out {
		if out[i].Played() {
			continue
		}
		out[i].Points = avgPoints
		out[i].Rebounds = avgRebounds
		out[i].Assists = avgAssists
		out[i].WasImputed = true
	}

	return out, true
}

// EvaluateThreshold walks the ladder top-down and returns the first rung
// that at least qualifyingCount of the values meet or exceed. The boundary
// is inclusive ("15+" means >= 15) and scanning stops at the first hit, so
// the highest qualifying rung always wins. ok is false when no rung
// qualifies; interpolation between rungs is never an output.
func EvaluateThreshold(values []int, ladder []int, qualifyingCount int) (int, bool) {
	for _, rung := range ladder {
		count := 0
		for _, value := range values {
			if value >= rung {
				count++
			}
		}
		if count >= qualifyingCount {
			return rung, true
		}
	}

	return 0, false
}

// Assemble derives one Record from an imputed window. The window must hold
// exactly rules.WindowSize games; anything else is a caller bug surfaced as
// ErrWindowSizeMismatch, never silently truncated or padded.
func Assemble(playerID, matchID string, window []gamelog.Game, rules RuleSet, now time.Time) (Record, error) {
	if playerID == "" || matchID == "" {
		return Record{}, ErrPlayerMatchRequired
	}
	if err := rules.Validate(); err != nil {
		return Record{}, err
	}
	if len(window) != rules.WindowSize {
		return Record{}, fmt.Errorf("%w: expected %d games, got %d", ErrWindowSizeMismatch, rules.WindowSize, len(window))
	}

	points := make([]int, 0, len(window))
	rebounds := make([]int, 0, len(window))
	assists := make([]int, 0, len(window))
	for _, game := range window {
		points = append(points, game.Points)
		rebounds = append(rebounds, game.Rebounds)
		assists = append(assists, game.Assists)
	}

	record := Record{
		PlayerID:      playerID,
		MatchID:       matchID,
		GamesAnalyzed: rules.WindowSize,
		RulesVersion:  rules.Version,
		ComputedAt:    now,
	}
	if rung, ok := EvaluateThreshold(points, rules.PointsLadder, rules.QualifyingCount); ok {
		record.PointsThreshold = &rung
	}
	if rung, ok := EvaluateThreshold(rebounds, rules.ReboundsLadder, rules.QualifyingCount); ok {
		record.ReboundsThreshold = &rung
	}
	if rung, ok := EvaluateThreshold(assists, rules.AssistsLadder, rules.QualifyingCount); ok {
		record.AssistsThreshold = &rung
	}

	return record, nil
}

// roundHalfUp rounds to the nearest integer with exact halves going up.
// Stats are non-negative, so half-up and away-from-zero agree; math.Round
// would also work here but the intent is pinned explicitly.
func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
