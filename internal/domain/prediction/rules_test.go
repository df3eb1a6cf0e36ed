package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/gamelog"
)

func windowWithPoints(points []int) []gamelog.Game {
	out := make([]gamelog.Game, 0, len(points))
	day := time.Date(2024, 11, 1, 19, 0, 0, 0, time.UTC)
	for i, value := range points {
		out = append(out, gamelog.Game{
			PlayerID:             "p1",
			PlayedAt:             day.AddDate(0, 0, -i),
			OpponentAbbreviation: "OPP",
			MinutesPlayed:        30,
			Points:               value,
			Rebounds:             5,
			Assists:              3,
		})
	}
	return out
}

func TestImputeWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		played       [][3]int
		unplayed     int
		wantImputed  bool
		wantPoints   int
		wantRebounds int
		wantAssists  int
	}{
		{
			name:         "half rounds up",
			played:       [][3]int{{24, 7, 4}, {25, 8, 5}},
			unplayed:     1,
			wantImputed:  true,
			wantPoints:   25,
			wantRebounds: 8,
			wantAssists:  5,
		},
		{
			name:         "below half rounds down",
			played:       [][3]int{{24, 6, 4}, {24, 6, 4}, {25, 7, 5}, {25, 7, 4}, {24, 6, 4}},
			unplayed:     2,
			wantImputed:  true,
			wantPoints:   24,
			wantRebounds: 6,
			wantAssists:  4,
		},
		{
			name:        "no played games leaves window unchanged",
			played:      nil,
			unplayed:    3,
			wantImputed: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			window := make([]gamelog.Game, 0, len(tc.played)+tc.unplayed)
			for _, stats := range tc.played {
				window = append(window, gamelog.Game{
					PlayerID:      "p1",
					MinutesPlayed: 28,
					Points:        stats[0],
					Rebounds:      stats[1],
					Assists:       stats[2],
				})
			}
			for i := 0; i < tc.unplayed; i++ {
				window = append(window, gamelog.Game{PlayerID: "p1"})
			}

			got, imputed := ImputeWindow(window)
			if imputed != tc.wantImputed {
				t.Fatalf("unexpected imputed flag: got=%t want=%t", imputed, tc.wantImputed)
			}
			if len(got) != len(window) {
				t.Fatalf("unexpected window length: got=%d want=%d", len(got), len(window))
			}

			for i, game := range got {
				if game.Played() {
					if game.WasImputed {
						t.Fatalf("played game %d must not be flagged imputed", i)
					}
					continue
				}
				if !tc.wantImputed {
					if game.WasImputed || game.Points != 0 || game.Rebounds != 0 || game.Assists != 0 {
						t.Fatalf("unplayed game %d changed in non-imputable window: %+v", i, game)
					}
					continue
				}
				if !game.WasImputed {
					t.Fatalf("unplayed game %d missing imputed flag", i)
				}
				if game.Points != tc.wantPoints || game.Rebounds != tc.wantRebounds || game.Assists != tc.wantAssists {
					t.Fatalf("unexpected imputed stats for game %d: got=(%d,%d,%d) want=(%d,%d,%d)",
						i, game.Points, game.Rebounds, game.Assists, tc.wantPoints, tc.wantRebounds, tc.wantAssists)
				}
			}
		})
	}
}

func TestImputeWindow_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	window := []gamelog.Game{
		{PlayerID: "p1", MinutesPlayed: 30, Points: 20, Rebounds: 10, Assists: 6},
		{PlayerID: "p1"},
	}

	if _, imputed := ImputeWindow(window); !imputed {
		t.Fatal("expected window to be imputable")
	}
	if window[1].Points != 0 || window[1].WasImputed {
		t.Fatalf("input window was mutated: %+v", window[1])
	}
}

func TestEvaluateThreshold_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// Every value clears both 25 and 20; the scan must stop at 25.
	values := []int{26, 27, 28, 29, 30, 26, 27, 28, 29, 30, 26, 27, 28, 29, 30}

	got, ok := EvaluateThreshold(values, []int{30, 25, 20, 15, 10}, 14)
	if !ok {
		t.Fatal("expected a qualifying rung")
	}
	if got != 25 {
		t.Fatalf("unexpected rung: got=%d want=25", got)
	}
}

func TestEvaluateThreshold_InclusiveBoundary(t *testing.T) {
	t.Parallel()

	values := make([]int, 15)
	for i := range values {
		values[i] = 15
	}

	got, ok := EvaluateThreshold(values, []int{30, 25, 20, 15, 10}, 15)
	if !ok || got != 15 {
		t.Fatalf("expected rung 15 for values exactly at the boundary, got=%d ok=%t", got, ok)
	}
}

func TestEvaluateThreshold_NoQualifier(t *testing.T) {
	t.Parallel()

	values := make([]int, 15)
	for i := range values {
		values[i] = 1
	}

	if got, ok := EvaluateThreshold(values, []int{10, 8, 6, 4, 2}, 14); ok {
		t.Fatalf("expected no qualifying rung, got=%d", got)
	}
}

func TestEvaluateThreshold_MonotonicAcrossQualifyingCounts(t *testing.T) {
	t.Parallel()

	values := []int{28, 26, 31, 25, 27, 29, 32, 26, 24, 30, 28, 27, 26, 25, 27}
	ladder := []int{30, 25, 20, 15, 10}

	// Relaxing the qualifying count can only raise the selected rung.
	previous := -1
	for _, qualifying := range []int{15, 14, 10} {
		rung, ok := EvaluateThreshold(values, ladder, qualifying)
		if !ok {
			t.Fatalf("expected a rung for qualifying count %d", qualifying)
		}
		if previous >= 0 && rung < previous {
			t.Fatalf("rung regressed from %d to %d when qualifying count dropped to %d", previous, rung, qualifying)
		}
		previous = rung
	}
}

func TestAssemble_WindowSizeMismatch(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 14, 16} {
		window := windowWithPoints(make([]int, size))
		_, err := Assemble("p1", "m1", window, DefaultRules(), time.Now().UTC())
		if !errors.Is(err, ErrWindowSizeMismatch) {
			t.Fatalf("size %d: expected ErrWindowSizeMismatch, got %v", size, err)
		}
	}
}

func TestAssemble_ConcreteScenario(t *testing.T) {
	t.Parallel()

	// 14 played games plus one zero-minute game; the imputed game gets
	// round(mean)=27, so 14 of 15 games score >= 25.
	points := []int{28, 26, 31, 25, 27, 29, 32, 26, 24, 30, 28, 27, 26, 25}
	window := windowWithPoints(points)
	window = append(window, gamelog.Game{PlayerID: "p1", OpponentAbbreviation: "OPP"})

	imputed, ok := ImputeWindow(window)
	if !ok {
		t.Fatal("expected window to be imputable")
	}
	if got := imputed[len(imputed)-1].Points; got != 27 {
		t.Fatalf("unexpected imputed points: got=%d want=27", got)
	}

	record, err := Assemble("p1", "m1", imputed, DefaultRules(), time.Now().UTC())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if record.PointsThreshold == nil || *record.PointsThreshold != 25 {
		t.Fatalf("unexpected points threshold: got=%v want=25", record.PointsThreshold)
	}
	if record.GamesAnalyzed != 15 {
		t.Fatalf("unexpected games analyzed: got=%d want=15", record.GamesAnalyzed)
	}
	if record.RulesVersion != DefaultRules().Version {
		t.Fatalf("unexpected rules version: got=%s", record.RulesVersion)
	}
}

func TestAssemble_NilThresholdWhenNoRungQualifies(t *testing.T) {
	t.Parallel()

	window := windowWithPoints(make([]int, 15))
	for i := range window {
		window[i].Points = 3
		window[i].Rebounds = 1
		window[i].Assists = 0
	}

	record, err := Assemble("p1", "m1", window, DefaultRules(), time.Now().UTC())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if record.PointsThreshold != nil {
		t.Fatalf("expected nil points threshold, got %d", *record.PointsThreshold)
	}
	if record.ReboundsThreshold != nil {
		t.Fatalf("expected nil rebounds threshold, got %d", *record.ReboundsThreshold)
	}
	if record.AssistsThreshold != nil {
		t.Fatalf("expected nil assists threshold, got %d", *record.AssistsThreshold)
	}
}

func TestRuleSetValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*RuleSet)
		wantOK bool
	}{
		{name: "defaults", mutate: func(*RuleSet) {}, wantOK: true},
		{name: "missing version", mutate: func(r *RuleSet) { r.Version = "" }},
		{name: "zero window", mutate: func(r *RuleSet) { r.WindowSize = 0 }},
		{name: "qualifying above window", mutate: func(r *RuleSet) { r.QualifyingCount = 16 }},
		{name: "empty ladder", mutate: func(r *RuleSet) { r.AssistsLadder = nil }},
		{name: "unsorted ladder", mutate: func(r *RuleSet) { r.PointsLadder = []int{10, 25, 20} }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rules := DefaultRules()
			tc.mutate(&rules)
			err := rules.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("expected valid rule set, got %v", err)
			}
			if !tc.wantOK && !errors.Is(err, ErrInvalidRuleSet) {
				t.Fatalf("expected ErrInvalidRuleSet, got %v", err)
			}
		})
	}
}
