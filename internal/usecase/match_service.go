package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	"github.com/riskibarqy/player-props/internal/domain/roster"
)

type MatchService struct {
	matchRepo      match.Repository
	rosterRepo     roster.Repository
	predictionRepo prediction.Repository
}

// MatchPredictions is the read-side view for one match. Run records whether a
// derivation ever completed, so an empty Records slice still means "computed,
// nothing qualified" rather than "never computed".
type MatchPredictions struct {
	MatchID string
	Run     prediction.Run
	Records []prediction.Record
}

func NewMatchService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	predictionRepo prediction.Repository,
) *MatchService {
	return &MatchService{
		matchRepo:      matchRepo,
		rosterRepo:     rosterRepo,
		predictionRepo: predictionRepo,
	}
}

func (s *MatchService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return matches, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

func (s *MatchService) ListRoster(ctx context.Context, matchID string) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListRoster")
	defer span.End()

	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster by match: %w", err)
	}

	return entries, nil
}

// ListPredictions returns ErrNotFound both for an unknown match and for a
// match no derivation has run for yet. A completed run with zero qualifying
// players comes back as an empty Records slice.
func (s *MatchService) ListPredictions(ctx context.Context, matchID string) (MatchPredictions, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListPredictions")
	defer span.End()

	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return MatchPredictions{}, err
	}

	run, computed, err := s.predictionRepo.GetRunByMatch(ctx, m.ID)
	if err != nil {
		return MatchPredictions{}, fmt.Errorf("get prediction run: %w", err)
	}
	if !computed {
		return MatchPredictions{}, fmt.Errorf("%w: predictions not computed for match=%s", ErrNotFound, m.ID)
	}

	records, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return MatchPredictions{}, fmt.Errorf("list predictions by match: %w", err)
	}
	if records == nil {
		records = []prediction.Record{}
	}

	return MatchPredictions{
		MatchID: m.ID,
		Run:     run,
		Records: records,
	}, nil
}
