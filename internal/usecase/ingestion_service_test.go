package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/player-props/internal/platform/logging"
)

type stubStatsFeed struct {
	schedule    []ExternalMatch
	scheduleErr error
	roster      []ExternalRosterEntry
	rosterErr   error
	games       map[string][]ExternalGame
	gamesErr    map[string]error
}

func (s stubStatsFeed) FetchSchedule(context.Context) ([]ExternalMatch, error) {
	return s.schedule, s.scheduleErr
}

func (s stubStatsFeed) FetchRoster(context.Context, string) ([]ExternalRosterEntry, error) {
	return s.roster, s.rosterErr
}

func (s stubStatsFeed) FetchRecentGames(_ context.Context, playerID string, _ int) ([]ExternalGame, error) {
	if err := s.gamesErr[playerID]; err != nil {
		return nil, err
	}
	return s.games[playerID], nil
}

func TestIngestionService_DisabledFeed(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestionService(
		stubStatsFeed{},
		memory.NewMatchRepository(nil),
		memory.NewRosterRepository(nil),
		memory.NewGamelogRepository(nil),
		IngestionConfig{Enabled: false},
		logging.NewNop(),
	)

	if _, err := svc.SyncSchedule(ctx); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from SyncSchedule, got %v", err)
	}
	if _, err := svc.SyncMatch(ctx, "match-1"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from SyncMatch, got %v", err)
	}
}

func TestIngestionService_MissingProvider(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestionService(
		nil,
		memory.NewMatchRepository(nil),
		memory.NewRosterRepository(nil),
		memory.NewGamelogRepository(nil),
		IngestionConfig{Enabled: true},
		logging.NewNop(),
	)

	if _, err := svc.SyncSchedule(ctx); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestIngestionService_SyncSchedule(t *testing.T) {
	ctx := context.Background()
	startsAt := time.Date(2026, time.February, 2, 19, 30, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository(nil)
	svc := NewIngestionService(
		stubStatsFeed{schedule: []ExternalMatch{
			{ID: "match-1", HomeTeam: "Metro Hawks", AwayTeam: "Harbor City Comets", StartsAt: startsAt, Status: "scheduled"},
			{ID: "  ", HomeTeam: "No ID", AwayTeam: "Dropped"},
			{ID: "match-2", HomeTeam: "Lakeside Giants", AwayTeam: "Metro Hawks", StartsAt: startsAt.Add(24 * time.Hour)},
		}},
		matchRepo,
		memory.NewRosterRepository(nil),
		memory.NewGamelogRepository(nil),
		IngestionConfig{Enabled: true},
		logging.NewNop(),
	)

	result, err := svc.SyncSchedule(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchCount != 2 {
		t.Fatalf("unexpected match count: got=%d want=2", result.MatchCount)
	}

	m, found, err := matchRepo.GetByID(ctx, "match-1")
	if err != nil || !found {
		t.Fatalf("expected match-1 upserted, found=%t err=%v", found, err)
	}
	if m.Status != match.StatusScheduled {
		t.Fatalf("unexpected status: got=%s want=%s", m.Status, match.StatusScheduled)
	}

	if _, found, _ := matchRepo.GetByID(ctx, "match-2"); !found {
		t.Fatalf("expected match-2 upserted")
	}
}

func TestIngestionService_SyncScheduleFeedFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestionService(
		stubStatsFeed{scheduleErr: errors.New("upstream 502")},
		memory.NewMatchRepository(nil),
		memory.NewRosterRepository(nil),
		memory.NewGamelogRepository(nil),
		IngestionConfig{Enabled: true},
		logging.NewNop(),
	)

	if _, err := svc.SyncSchedule(ctx); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestIngestionService_SyncMatch(t *testing.T) {
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository([]match.Match{{ID: "match-1", Status: match.StatusScheduled}})
	rosterRepo := memory.NewRosterRepository(nil)
	gamelogRepo := memory.NewGamelogRepository(nil)

	playedAt := time.Date(2026, time.January, 28, 19, 0, 0, 0, time.UTC)
	provider := stubStatsFeed{
		roster: []ExternalRosterEntry{
			{PlayerID: "p2", PlayerName: "Two", TeamAbbreviation: "HCC"},
			{PlayerID: "p1", PlayerName: "One", TeamAbbreviation: "MHK"},
			{PlayerID: "", PlayerName: "No ID", TeamAbbreviation: "MHK"},
			{PlayerID: "p3", PlayerName: "No Team", TeamAbbreviation: ""},
		},
		games: map[string][]ExternalGame{
			"p1": {
				{PlayedAt: playedAt, OpponentAbbreviation: "LSG", MinutesPlayed: 30, Points: 22, Rebounds: 7, Assists: 4},
				{PlayedAt: playedAt.AddDate(0, 0, -2), OpponentAbbreviation: "HCC", MinutesPlayed: 28, Points: 18, Rebounds: 9, Assists: 6},
			},
		},
		gamesErr: map[string]error{
			"p2": errors.New("player feed unavailable"),
		},
	}

	svc := NewIngestionService(provider, matchRepo, rosterRepo, gamelogRepo, IngestionConfig{Enabled: true, GameDepth: 25}, logging.NewNop())

	result, err := svc.SyncMatch(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RosterCount != 2 {
		t.Fatalf("unexpected roster count: got=%d want=2", result.RosterCount)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: success=%d failed=%d", result.SuccessCount, result.FailedCount)
	}
	if len(result.Players) != 2 || result.Players[0].PlayerID != "p1" || result.Players[1].PlayerID != "p2" {
		t.Fatalf("unexpected player rows: %+v", result.Players)
	}
	if result.Players[0].Games != 2 {
		t.Fatalf("unexpected game count for p1: got=%d want=2", result.Players[0].Games)
	}
	if result.Players[1].Status != playerStatusFailed {
		t.Fatalf("unexpected status for p2: got=%s want=%s", result.Players[1].Status, playerStatusFailed)
	}

	entries, err := rosterRepo.ListByMatch(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected stored roster size: got=%d want=2", len(entries))
	}

	games, err := gamelogRepo.ListRecentByPlayer(ctx, "p1", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("unexpected stored games for p1: got=%d want=2", len(games))
	}
	if !games[0].PlayedAt.After(games[1].PlayedAt) {
		t.Fatalf("stored games are not newest first")
	}
}

func TestIngestionService_SyncMatchUnknownMatch(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestionService(
		stubStatsFeed{},
		memory.NewMatchRepository(nil),
		memory.NewRosterRepository(nil),
		memory.NewGamelogRepository(nil),
		IngestionConfig{Enabled: true},
		logging.NewNop(),
	)

	if _, err := svc.SyncMatch(ctx, "match-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SyncMatch(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
