package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	byID    map[string]match.Match
	ordered []string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{
		byID: make(map[string]match.Match, len(matches)),
	}
	for _, m := range matches {
		if _, ok := r.byID[m.ID]; !ok {
			r.ordered = append(r.ordered, m.ID)
		}
		r.byID[m.ID] = m
	}
	return r
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[matchID]
	return m, ok, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.ordered))
	for _, id := range r.ordered {
		out = append(out, r.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (r *MatchRepository) ListStartingBetween(_ context.Context, from, until time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.ordered))
	for _, id := range r.ordered {
		m := r.byID[id]
		if m.StartsAt.Before(from) || !m.StartsAt.Before(until) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (r *MatchRepository) UpsertMatches(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range items {
		if _, ok := r.byID[m.ID]; !ok {
			r.ordered = append(r.ordered, m.ID)
		}
		r.byID[m.ID] = m
	}
	return nil
}
