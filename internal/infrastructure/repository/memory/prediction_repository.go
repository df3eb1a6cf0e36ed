package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/player-props/internal/domain/prediction"
)

type PredictionRepository struct {
	mu      sync.RWMutex
	records map[string]map[string]prediction.Record
	runs    map[string]prediction.Run
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		records: make(map[string]map[string]prediction.Record),
		runs:    make(map[string]prediction.Run),
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, record prediction.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byPlayer, ok := r.records[record.MatchID]
	if !ok {
		byPlayer = make(map[string]prediction.Record)
		r.records[record.MatchID] = byPlayer
	}
	byPlayer[record.PlayerID] = record
	return nil
}

func (r *PredictionRepository) GetByMatchAndPlayer(_ context.Context, matchID, playerID string) (prediction.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[matchID][playerID]
	return record, ok, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byPlayer := r.records[matchID]
	out := make([]prediction.Record, 0, len(byPlayer))
	for _, record := range byPlayer {
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *PredictionRepository) UpsertRun(_ context.Context, run prediction.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[run.MatchID] = run
	return nil
}

func (r *PredictionRepository) GetRunByMatch(_ context.Context, matchID string) (prediction.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[matchID]
	return run, ok, nil
}
