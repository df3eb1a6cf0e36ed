package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	"github.com/riskibarqy/player-props/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/player-props/internal/mocks/domain/match"
	predictionmock "github.com/riskibarqy/player-props/internal/mocks/domain/prediction"
)

func TestMatchService_GetMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the match when it exists", func(t *testing.T) {
		t.Parallel()

		matchRepo := matchmock.NewRepository(t)
		matchRepo.On("GetByID",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(match.Match{ID: "match-1", HomeTeam: "Metro Hawks"}, true, nil).Once()

		svc := NewMatchService(matchRepo, memory.NewRosterRepository(nil), predictionmock.NewRepository(t))

		m, err := svc.GetMatch(ctx, "match-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.HomeTeam != "Metro Hawks" {
			t.Fatalf("unexpected home team: got=%s want=Metro Hawks", m.HomeTeam)
		}
	})

	t.Run("requires a match id", func(t *testing.T) {
		t.Parallel()

		svc := NewMatchService(matchmock.NewRepository(t), memory.NewRosterRepository(nil), predictionmock.NewRepository(t))

		_, err := svc.GetMatch(ctx, "  ")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("maps a missing match to not found", func(t *testing.T) {
		t.Parallel()

		matchRepo := matchmock.NewRepository(t)
		matchRepo.On("GetByID",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-missing",
		).Return(match.Match{}, false, nil).Once()

		svc := NewMatchService(matchRepo, memory.NewRosterRepository(nil), predictionmock.NewRepository(t))

		_, err := svc.GetMatch(ctx, "match-missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		t.Parallel()

		matchRepo := matchmock.NewRepository(t)
		matchRepo.On("GetByID",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(match.Match{}, false, errors.New("connection reset")).Once()

		svc := NewMatchService(matchRepo, memory.NewRosterRepository(nil), predictionmock.NewRepository(t))

		_, err := svc.GetMatch(ctx, "match-1")
		if err == nil || !strings.Contains(err.Error(), "get match") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMatchService_ListRoster(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	matchRepo := matchmock.NewRepository(t)
	matchRepo.On("GetByID",
		mock.MatchedBy(func(v context.Context) bool { return v != nil }),
		"match-1",
	).Return(match.Match{ID: "match-1"}, true, nil).Once()

	rosterRepo := memory.NewRosterRepository([]roster.Entry{
		{MatchID: "match-1", PlayerID: "p1", PlayerName: "One", TeamAbbreviation: "MHK"},
		{MatchID: "match-2", PlayerID: "p9", PlayerName: "Other Match", TeamAbbreviation: "HCC"},
	})

	svc := NewMatchService(matchRepo, rosterRepo, predictionmock.NewRepository(t))

	entries, err := svc.ListRoster(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].PlayerID != "p1" {
		t.Fatalf("unexpected roster entries: %+v", entries)
	}
}

func TestMatchService_ListPredictions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ranAt := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

	newMatchRepo := func(t *testing.T) *matchmock.Repository {
		matchRepo := matchmock.NewRepository(t)
		matchRepo.On("GetByID",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(match.Match{ID: "match-1"}, true, nil).Once()
		return matchRepo
	}

	t.Run("not found before any derivation ran", func(t *testing.T) {
		t.Parallel()

		predictionRepo := predictionmock.NewRepository(t)
		predictionRepo.On("GetRunByMatch",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(prediction.Run{}, false, nil).Once()

		svc := NewMatchService(newMatchRepo(t), memory.NewRosterRepository(nil), predictionRepo)

		_, err := svc.ListPredictions(ctx, "match-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "predictions not computed") {
			t.Fatalf("unexpected error message: %v", err)
		}
	})

	t.Run("completed run with no qualifying players yields an empty slice", func(t *testing.T) {
		t.Parallel()

		predictionRepo := predictionmock.NewRepository(t)
		predictionRepo.On("GetRunByMatch",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(prediction.Run{MatchID: "match-1", RanAt: ranAt, PlayersConsidered: 3}, true, nil).Once()
		predictionRepo.On("ListByMatch",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(nil, nil).Once()

		svc := NewMatchService(newMatchRepo(t), memory.NewRosterRepository(nil), predictionRepo)

		view, err := svc.ListPredictions(ctx, "match-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Records == nil {
			t.Fatalf("expected an empty slice, got nil")
		}
		if len(view.Records) != 0 {
			t.Fatalf("unexpected records: got=%d want=0", len(view.Records))
		}
		if view.Run.PlayersConsidered != 3 {
			t.Fatalf("unexpected run players considered: got=%d want=3", view.Run.PlayersConsidered)
		}
	})

	t.Run("returns run and records together", func(t *testing.T) {
		t.Parallel()

		points := 20
		predictionRepo := predictionmock.NewRepository(t)
		predictionRepo.On("GetRunByMatch",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return(prediction.Run{MatchID: "match-1", RanAt: ranAt, RecordsWritten: 1}, true, nil).Once()
		predictionRepo.On("ListByMatch",
			mock.MatchedBy(func(v context.Context) bool { return v != nil }),
			"match-1",
		).Return([]prediction.Record{{
			PlayerID:        "p1",
			MatchID:         "match-1",
			PointsThreshold: &points,
			GamesAnalyzed:   15,
			RulesVersion:    "2024-10",
			ComputedAt:      ranAt,
		}}, nil).Once()

		svc := NewMatchService(newMatchRepo(t), memory.NewRosterRepository(nil), predictionRepo)

		view, err := svc.ListPredictions(ctx, "match-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Records) != 1 || view.Records[0].PlayerID != "p1" {
			t.Fatalf("unexpected records: %+v", view.Records)
		}
	})
}
