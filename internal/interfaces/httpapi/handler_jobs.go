package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/player-props/internal/usecase"
)

type internalJobMatchRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

// RunGeneratePredictionsJob derives and persists prediction records for one
// match. Re-running it for the same match overwrites the prior rows.
func (h *Handler) RunGeneratePredictionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGeneratePredictionsJob")
	defer span.End()

	req, err := decodeInternalJobMatchRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.GeneratePredictionsForMatch(ctx, req.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "run generate predictions job failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunRefreshPredictionsJob recomputes predictions for matches starting within
// the configured lead window, or for a single match when match_id is set.
func (h *Handler) RunRefreshPredictionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshPredictionsJob")
	defer span.End()

	if h.refreshService == nil {
		writeError(ctx, w, fmt.Errorf("%w: refresh service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobMatchRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if strings.TrimSpace(req.MatchID) != "" {
		result, err := h.refreshService.RefreshMatch(ctx, req.MatchID)
		if err != nil {
			h.logger.WarnContext(ctx, "run refresh job failed", "match_id", req.MatchID, "error", err)
			writeError(ctx, w, err)
			return
		}

		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	result, err := h.refreshService.RefreshUpcoming(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.ingestionService.SyncSchedule(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync schedule job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunSyncGamelogsJob pulls the roster and recent game logs for one match from
// the stats feed.
func (h *Handler) RunSyncGamelogsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncGamelogsJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobMatchRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.SyncMatch(ctx, req.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync gamelogs job failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeInternalJobMatchRequest(r *http.Request) (internalJobMatchRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobMatchRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobMatchRequest{}, nil
		}
		return internalJobMatchRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
