package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/platform/logging"
	"github.com/riskibarqy/player-props/internal/platform/resilience"
)

const (
	defaultRefreshLead        = 48 * time.Hour
	defaultRefreshMinInterval = 5 * time.Minute
	defaultRefreshWorkers     = 2
)

type RefreshConfig struct {
	Lead        time.Duration
	MinInterval time.Duration
	MaxWorkers  int
}

type MatchRefreshResult struct {
	MatchID      string `json:"match_id"`
	Status       string `json:"status"`
	SuccessCount int    `json:"success_count"`
	SkippedCount int    `json:"skipped_count"`
	FailedCount  int    `json:"failed_count"`
	DurationMs   int64  `json:"duration_ms"`
	Message      string `json:"message,omitempty"`
}

type RefreshResult struct {
	MatchCount   int                  `json:"match_count"`
	SuccessCount int                  `json:"success_count"`
	SkippedCount int                  `json:"skipped_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Matches      []MatchRefreshResult `json:"matches"`
}

// RefreshService keeps predictions fresh for matches starting soon. A
// singleflight plus a per-match minimum interval stops the background loop
// and the internal job endpoint from crunching the same match twice in quick
// succession.
type RefreshService struct {
	matchRepo   match.Repository
	predictions *PredictionService
	cfg         RefreshConfig
	logger      *logging.Logger
	now         func() time.Time

	refreshFlight resilience.SingleFlight
	refreshMu     sync.Mutex
	lastRefreshAt map[string]time.Time
}

func NewRefreshService(
	matchRepo match.Repository,
	predictions *PredictionService,
	cfg RefreshConfig,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Lead <= 0 {
		cfg.Lead = defaultRefreshLead
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = defaultRefreshMinInterval
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultRefreshWorkers
	}

	return &RefreshService{
		matchRepo:     matchRepo,
		predictions:   predictions,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		lastRefreshAt: make(map[string]time.Time),
	}
}

// RefreshUpcoming derives predictions for every match starting within the
// configured lead window. Matches fail independently.
func (s *RefreshService) RefreshUpcoming(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshUpcoming")
	defer span.End()

	now := s.now().UTC()
	matches, err := s.matchRepo.ListStartingBetween(ctx, now, now.Add(s.cfg.Lead))
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list upcoming matches: %w", err)
	}

	targets := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if match.IsCancelledLikeStatus(m.Status) {
			continue
		}
		targets = append(targets, m)
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(targets) {
		workerCount = len(targets)
	}

	result := RefreshResult{
		MatchCount:  len(targets),
		WorkerCount: workerCount,
		Matches:     make([]MatchRefreshResult, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	rows := make(chan MatchRefreshResult, len(targets))

	var successCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.refreshMatch(ctx, target.ID)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case playerStatusSuccess:
				successCount.Add(1)
			case playerStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

// RefreshMatch derives predictions for a single match, subject to the same
// singleflight and interval guard as the batch path.
func (s *RefreshService) RefreshMatch(ctx context.Context, matchID string) (MatchRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchRefreshResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	row := s.refreshMatch(ctx, matchID)
	if row.Status == playerStatusFailed {
		return row, fmt.Errorf("refresh match %s: %s", matchID, row.Message)
	}
	return row, nil
}

func (s *RefreshService) refreshMatch(ctx context.Context, matchID string) MatchRefreshResult {
	row := MatchRefreshResult{MatchID: matchID}

	now := s.now().UTC()
	if s.shouldSkipRefresh(matchID, now) {
		row.Status = playerStatusSkipped
		row.Message = "refreshed recently"
		return row
	}

	key := "prediction:refresh:" + matchID
	v, err, _ := s.refreshFlight.Do(key, func() (any, error) {
		runNow := s.now().UTC()
		if s.shouldSkipRefresh(matchID, runNow) {
			return MatchPredictionResult{}, errRefreshSkipped
		}

		res, runErr := s.predictions.GeneratePredictionsForMatch(ctx, matchID)
		if runErr != nil {
			return MatchPredictionResult{}, runErr
		}
		s.markRefresh(matchID, runNow)
		return res, nil
	})
	if err != nil {
		if errors.Is(err, errRefreshSkipped) {
			row.Status = playerStatusSkipped
			row.Message = "refreshed recently"
			return row
		}
		row.Status = playerStatusFailed
		row.Message = err.Error()
		s.logger.ErrorContext(ctx, "match refresh failed",
			"match_id", matchID,
			"error", err,
		)
		return row
	}

	res, _ := v.(MatchPredictionResult)
	row.Status = playerStatusSuccess
	row.SuccessCount = res.SuccessCount
	row.SkippedCount = res.SkippedCount
	row.FailedCount = res.FailedCount
	return row
}

var errRefreshSkipped = errors.New("refresh skipped")

func (s *RefreshService) shouldSkipRefresh(matchID string, now time.Time) bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	last, ok := s.lastRefreshAt[matchID]
	if !ok {
		return false
	}
	return now.Sub(last) < s.cfg.MinInterval
}

func (s *RefreshService) markRefresh(matchID string, at time.Time) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.lastRefreshAt[matchID] = at
}
