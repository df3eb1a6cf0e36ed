package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	"github.com/riskibarqy/player-props/internal/platform/logging"
	"github.com/riskibarqy/player-props/internal/usecase"
)

type Handler struct {
	matchService      *usecase.MatchService
	predictionService *usecase.PredictionService
	ingestionService  *usecase.IngestionService
	refreshService    *usecase.RefreshService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	ingestionService *usecase.IngestionService,
	refreshService *usecase.RefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:      matchService,
		predictionService: predictionService,
		ingestionService:  ingestionService,
		refreshService:    refreshService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.ListMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	m, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) ListMatchRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.matchService.ListRoster(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rosterEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPredictions")
	defer span.End()

	matchID := r.PathValue("matchID")
	view, err := h.matchService.ListPredictions(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	records := make([]predictionRecordDTO, 0, len(view.Records))
	for _, record := range view.Records {
		records = append(records, predictionRecordToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, matchPredictionsDTO{
		MatchID:     view.MatchID,
		Run:         predictionRunToDTO(view.Run),
		Predictions: records,
	})
}

type matchDTO struct {
	ID               string    `json:"id"`
	HomeTeam         string    `json:"home_team"`
	HomeAbbreviation string    `json:"home_abbreviation"`
	AwayTeam         string    `json:"away_team"`
	AwayAbbreviation string    `json:"away_abbreviation"`
	Venue            string    `json:"venue,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	Status           string    `json:"status"`
}

type rosterEntryDTO struct {
	PlayerID         string `json:"player_id"`
	PlayerName       string `json:"player_name"`
	TeamAbbreviation string `json:"team_abbreviation"`
}

type predictionRecordDTO struct {
	PlayerID          string    `json:"player_id"`
	MatchID           string    `json:"match_id"`
	PointsThreshold   *int      `json:"points_threshold"`
	ReboundsThreshold *int      `json:"rebounds_threshold"`
	AssistsThreshold  *int      `json:"assists_threshold"`
	GamesAnalyzed     int       `json:"games_analyzed"`
	RulesVersion      string    `json:"rules_version"`
	ComputedAt        time.Time `json:"computed_at"`
}

type predictionRunDTO struct {
	RanAt             time.Time `json:"ran_at"`
	PlayersConsidered int       `json:"players_considered"`
	PlayersSkipped    int       `json:"players_skipped"`
	PlayersFailed     int       `json:"players_failed"`
	RecordsWritten    int       `json:"records_written"`
	RulesVersion      string    `json:"rules_version"`
}

type matchPredictionsDTO struct {
	MatchID     string                `json:"match_id"`
	Run         predictionRunDTO      `json:"run"`
	Predictions []predictionRecordDTO `json:"predictions"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:               m.ID,
		HomeTeam:         m.HomeTeam,
		HomeAbbreviation: m.HomeAbbreviation,
		AwayTeam:         m.AwayTeam,
		AwayAbbreviation: m.AwayAbbreviation,
		Venue:            m.Venue,
		StartsAt:         m.StartsAt,
		Status:           m.Status,
	}
}

func rosterEntryToDTO(entry roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		PlayerID:         entry.PlayerID,
		PlayerName:       entry.PlayerName,
		TeamAbbreviation: entry.TeamAbbreviation,
	}
}

func predictionRecordToDTO(record prediction.Record) predictionRecordDTO {
	return predictionRecordDTO{
		PlayerID:          record.PlayerID,
		MatchID:           record.MatchID,
		PointsThreshold:   record.PointsThreshold,
		ReboundsThreshold: record.ReboundsThreshold,
		AssistsThreshold:  record.AssistsThreshold,
		GamesAnalyzed:     record.GamesAnalyzed,
		RulesVersion:      record.RulesVersion,
		ComputedAt:        record.ComputedAt,
	}
}

func predictionRunToDTO(run prediction.Run) predictionRunDTO {
	return predictionRunDTO{
		RanAt:             run.RanAt,
		PlayersConsidered: run.PlayersConsidered,
		PlayersSkipped:    run.PlayersSkipped,
		PlayersFailed:     run.PlayersFailed,
		RecordsWritten:    run.RecordsWritten,
		RulesVersion:      run.RulesVersion,
	}
}
