package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/player-props/internal/domain/gamelog"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	"github.com/riskibarqy/player-props/internal/platform/logging"
)

const (
	playerStatusSuccess = "success"
	playerStatusSkipped = "skipped"
	playerStatusFailed  = "failed"

	defaultPredictionWorkers = 1
)

// GeneratePredictionInput carries everything the pure derivation needs. The
// caller supplies the window; nothing is fetched or persisted on this path.
type GeneratePredictionInput struct {
	PlayerID string
	MatchID  string
	Window   []gamelog.Game
}

type PlayerPredictionResult struct {
	PlayerID   string `json:"player_id"`
	Status     string `json:"status"`
	GamesFound int    `json:"games_found"`
	Message    string `json:"message,omitempty"`
}

type MatchPredictionResult struct {
	MatchID      string                   `json:"match_id"`
	RulesVersion string                   `json:"rules_version"`
	PlayerCount  int                      `json:"player_count"`
	SuccessCount int                      `json:"success_count"`
	SkippedCount int                      `json:"skipped_count"`
	FailedCount  int                      `json:"failed_count"`
	WorkerCount  int                      `json:"worker_count"`
	Records      []prediction.Record      `json:"records"`
	Players      []PlayerPredictionResult `json:"players"`
}

type PredictionService struct {
	matchRepo      match.Repository
	rosterRepo     roster.Repository
	gamelogSource  gamelog.Source
	predictionRepo prediction.Repository
	rules          prediction.RuleSet
	maxWorkers     int
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	gamelogSource gamelog.Source,
	predictionRepo prediction.Repository,
	rules prediction.RuleSet,
	maxWorkers int,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultPredictionWorkers
	}
	return &PredictionService{
		matchRepo:      matchRepo,
		rosterRepo:     rosterRepo,
		gamelogSource:  gamelogSource,
		predictionRepo: predictionRepo,
		rules:          rules,
		maxWorkers:     maxWorkers,
		logger:         logger,
		now:            time.Now,
	}
}

// GeneratePrediction derives one record from a caller-supplied window without
// touching storage. The window must be exactly rules.WindowSize games.
func (s *PredictionService) GeneratePrediction(ctx context.Context, input GeneratePredictionInput) (prediction.Record, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PredictionService.GeneratePrediction")
	defer span.End()

	playerID := strings.TrimSpace(input.PlayerID)
	matchID := strings.TrimSpace(input.MatchID)
	if playerID == "" || matchID == "" {
		return prediction.Record{}, fmt.Errorf("%w: player id and match id are required", ErrInvalidInput)
	}
	if err := s.rules.Validate(); err != nil {
		return prediction.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Window) != s.rules.WindowSize {
		return prediction.Record{}, fmt.Errorf(
			"%w: window must contain exactly %d games, got %d",
			ErrInvalidInput, s.rules.WindowSize, len(input.Window),
		)
	}

	imputed, ok := prediction.ImputeWindow(input.Window)
	if !ok {
		s.logger.WarnContext(ctx, "window has no played games, imputation skipped",
			"player_id", playerID,
			"match_id", matchID,
		)
	}

	record, err := prediction.Assemble(playerID, matchID, imputed, s.rules, s.now().UTC())
	if err != nil {
		return prediction.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return record, nil
}

// GeneratePredictionsForMatch derives and upserts a record for every eligible
// rostered player. A failure for one player is recorded in the result and
// never aborts the others; re-running with unchanged data rewrites the same
// rows.
func (s *PredictionService) GeneratePredictionsForMatch(ctx context.Context, matchID string) (MatchPredictionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GeneratePredictionsForMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchPredictionResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchPredictionResult{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchPredictionResult{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return MatchPredictionResult{}, fmt.Errorf("list roster by match: %w", err)
	}
	if len(entries) == 0 {
		return MatchPredictionResult{}, fmt.Errorf("%w: match %s has no rostered players", ErrNotFound, matchID)
	}

	workerCount := s.maxWorkers
	if workerCount > len(entries) {
		workerCount = len(entries)
	}

	result := MatchPredictionResult{
		MatchID:      m.ID,
		RulesVersion: s.rules.Version,
		PlayerCount:  len(entries),
		WorkerCount:  workerCount,
		Records:      make([]prediction.Record, 0, len(entries)),
		Players:      make([]PlayerPredictionResult, 0, len(entries)),
	}

	type playerOutcome struct {
		row    PlayerPredictionResult
		record prediction.Record
	}

	outcomes := make(chan playerOutcome, len(entries))

	var successCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return MatchPredictionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, entry := range entries {
		entry := entry
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome := playerOutcome{
				row: PlayerPredictionResult{PlayerID: entry.PlayerID},
			}
			record, games, status, message := s.derivePlayer(ctx, entry.PlayerID, m.ID)
			outcome.row.Status = status
			outcome.row.GamesFound = games
			outcome.row.Message = message
			outcome.record = record

			switch status {
			case playerStatusSuccess:
				successCount.Add(1)
			case playerStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			outcomes <- outcome
		}); err != nil {
			workers.Done()
			return MatchPredictionResult{}, fmt.Errorf("submit player to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(outcomes)

	for outcome := range outcomes {
		result.Players = append(result.Players, outcome.row)
		if outcome.row.Status == playerStatusSuccess {
			result.Records = append(result.Records, outcome.record)
		}
	}
	sort.SliceStable(result.Players, func(i, j int) bool {
		return result.Players[i].PlayerID < result.Players[j].PlayerID
	})
	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].PlayerID < result.Records[j].PlayerID
	})

	result.SuccessCount = int(successCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	run := prediction.Run{
		MatchID:           m.ID,
		RanAt:             s.now().UTC(),
		PlayersConsidered: result.PlayerCount,
		PlayersSkipped:    result.SkippedCount,
		PlayersFailed:     result.FailedCount,
		RecordsWritten:    result.SuccessCount,
		RulesVersion:      s.rules.Version,
	}
	if err := s.predictionRepo.UpsertRun(ctx, run); err != nil {
		return MatchPredictionResult{}, fmt.Errorf("upsert prediction run: %w", err)
	}

	return result, nil
}

func (s *PredictionService) derivePlayer(ctx context.Context, playerID, matchID string) (prediction.Record, int, string, string) {
	window, err := s.gamelogSource.ListRecentByPlayer(ctx, playerID, s.rules.WindowSize)
	if err != nil {
		return prediction.Record{}, 0, playerStatusFailed, fmt.Sprintf("list recent games: %v", err)
	}
	if len(window) < s.rules.WindowSize {
		return prediction.Record{}, len(window), playerStatusSkipped,
			fmt.Sprintf("insufficient history: %d of %d games", len(window), s.rules.WindowSize)
	}
	window = window[:s.rules.WindowSize]

	imputed, ok := prediction.ImputeWindow(window)
	if !ok {
		s.logger.WarnContext(ctx, "window has no played games, imputation skipped",
			"player_id", playerID,
			"match_id", matchID,
		)
	}

	record, err := prediction.Assemble(playerID, matchID, imputed, s.rules, s.now().UTC())
	if err != nil {
		return prediction.Record{}, len(window), playerStatusFailed, fmt.Sprintf("assemble record: %v", err)
	}

	if err := s.predictionRepo.Upsert(ctx, record); err != nil {
		return prediction.Record{}, len(window), playerStatusFailed, fmt.Sprintf("upsert record: %v", err)
	}

	return record, len(window), playerStatusSuccess, ""
}
