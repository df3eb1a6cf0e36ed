package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/gamelog"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	"github.com/riskibarqy/player-props/internal/platform/logging"
)

// StatsFeedProvider is the upstream stats feed the ingestion layer pulls
// from. Implementations live in internal/infrastructure/provider.
type StatsFeedProvider interface {
	FetchSchedule(ctx context.Context) ([]ExternalMatch, error)
	FetchRoster(ctx context.Context, matchID string) ([]ExternalRosterEntry, error)
	FetchRecentGames(ctx context.Context, playerID string, limit int) ([]ExternalGame, error)
}

type ExternalMatch struct {
	ID               string
	HomeTeam         string
	HomeAbbreviation string
	AwayTeam         string
	AwayAbbreviation string
	Venue            string
	StartsAt         time.Time
	Status           string
}

type ExternalRosterEntry struct {
	PlayerID         string
	PlayerName       string
	TeamAbbreviation string
}

type ExternalGame struct {
	PlayedAt             time.Time
	OpponentAbbreviation string
	MinutesPlayed        int
	Points               int
	Rebounds             int
	Assists              int
}

type IngestionConfig struct {
	Enabled   bool
	GameDepth int
}

const defaultIngestionGameDepth = 25

type PlayerIngestionResult struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
	Games    int    `json:"games"`
	Message  string `json:"message,omitempty"`
}

type MatchIngestionResult struct {
	MatchID      string                  `json:"match_id"`
	RosterCount  int                     `json:"roster_count"`
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	Players      []PlayerIngestionResult `json:"players"`
}

type ScheduleIngestionResult struct {
	MatchCount int `json:"match_count"`
}

type IngestionService struct {
	provider    StatsFeedProvider
	matchRepo   match.Repository
	rosterRepo  roster.Repository
	gamelogRepo gamelog.Repository
	cfg         IngestionConfig
	logger      *logging.Logger
}

func NewIngestionService(
	provider StatsFeedProvider,
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	gamelogRepo gamelog.Repository,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.GameDepth <= 0 {
		cfg.GameDepth = defaultIngestionGameDepth
	}

	return &IngestionService{
		provider:    provider,
		matchRepo:   matchRepo,
		rosterRepo:  rosterRepo,
		gamelogRepo: gamelogRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// SyncSchedule pulls the full upstream schedule and upserts it.
func (s *IngestionService) SyncSchedule(ctx context.Context) (ScheduleIngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncSchedule")
	defer span.End()

	if err := s.ready(); err != nil {
		return ScheduleIngestionResult{}, err
	}

	external, err := s.provider.FetchSchedule(ctx)
	if err != nil {
		return ScheduleIngestionResult{}, fmt.Errorf("%w: fetch schedule: %v", ErrDependencyUnavailable, err)
	}

	matches := make([]match.Match, 0, len(external))
	for _, item := range external {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		matches = append(matches, match.Match{
			ID:               item.ID,
			HomeTeam:         item.HomeTeam,
			HomeAbbreviation: item.HomeAbbreviation,
			AwayTeam:         item.AwayTeam,
			AwayAbbreviation: item.AwayAbbreviation,
			Venue:            item.Venue,
			StartsAt:         item.StartsAt.UTC(),
			Status:           match.NormalizeStatus(item.Status),
		})
	}
	if len(matches) == 0 {
		return ScheduleIngestionResult{}, nil
	}

	if err := s.matchRepo.UpsertMatches(ctx, matches); err != nil {
		return ScheduleIngestionResult{}, fmt.Errorf("upsert matches: %w", err)
	}

	return ScheduleIngestionResult{MatchCount: len(matches)}, nil
}

// SyncMatch refreshes one match's roster and each rostered player's recent
// game logs. Players fail independently; the roster write is the only step
// that aborts the call.
func (s *IngestionService) SyncMatch(ctx context.Context, matchID string) (MatchIngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchIngestionResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if err := s.ready(); err != nil {
		return MatchIngestionResult{}, err
	}

	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchIngestionResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchIngestionResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	externalRoster, err := s.provider.FetchRoster(ctx, matchID)
	if err != nil {
		return MatchIngestionResult{}, fmt.Errorf("%w: fetch roster: %v", ErrDependencyUnavailable, err)
	}

	entries := make([]roster.Entry, 0, len(externalRoster))
	for _, item := range externalRoster {
		entry := roster.Entry{
			MatchID:          matchID,
			PlayerID:         item.PlayerID,
			PlayerName:       item.PlayerName,
			TeamAbbreviation: item.TeamAbbreviation,
		}
		if err := entry.Validate(); err != nil {
			s.logger.WarnContext(ctx, "dropping invalid roster entry",
				"match_id", matchID,
				"player_id", item.PlayerID,
				"error", err,
			)
			continue
		}
		entries = append(entries, entry)
	}

	if err := s.rosterRepo.ReplaceByMatch(ctx, matchID, entries); err != nil {
		return MatchIngestionResult{}, fmt.Errorf("replace roster: %w", err)
	}

	result := MatchIngestionResult{
		MatchID:     matchID,
		RosterCount: len(entries),
		Players:     make([]PlayerIngestionResult, 0, len(entries)),
	}

	for _, entry := range entries {
		row := PlayerIngestionResult{PlayerID: entry.PlayerID}
		games, err := s.syncPlayerGames(ctx, entry.PlayerID)
		if err != nil {
			row.Status = playerStatusFailed
			row.Message = err.Error()
			result.FailedCount++
		} else {
			row.Status = playerStatusSuccess
			row.Games = games
			result.SuccessCount++
		}
		result.Players = append(result.Players, row)
	}

	sort.SliceStable(result.Players, func(i, j int) bool {
		return result.Players[i].PlayerID < result.Players[j].PlayerID
	})

	return result, nil
}

func (s *IngestionService) syncPlayerGames(ctx context.Context, playerID string) (int, error) {
	external, err := s.provider.FetchRecentGames(ctx, playerID, s.cfg.GameDepth)
	if err != nil {
		return 0, fmt.Errorf("fetch recent games: %w", err)
	}

	games := make([]gamelog.Game, 0, len(external))
	for _, item := range external {
		games = append(games, gamelog.Game{
			PlayerID:             playerID,
			PlayedAt:             item.PlayedAt.UTC(),
			OpponentAbbreviation: item.OpponentAbbreviation,
			MinutesPlayed:        item.MinutesPlayed,
			Points:               item.Points,
			Rebounds:             item.Rebounds,
			Assists:              item.Assists,
		})
	}
	if len(games) == 0 {
		return 0, nil
	}

	if err := s.gamelogRepo.UpsertGames(ctx, playerID, games); err != nil {
		return 0, fmt.Errorf("upsert game logs: %w", err)
	}

	return len(games), nil
}

func (s *IngestionService) ready() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("%w: stats feed ingestion is disabled (STATSFEED_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil {
		return fmt.Errorf("%w: stats feed provider is not configured", ErrDependencyUnavailable)
	}
	return nil
}
