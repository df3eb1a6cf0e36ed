package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/player-props/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]roster.Entry
}

func NewRosterRepository(entries []roster.Entry) *RosterRepository {
	byMatch := make(map[string][]roster.Entry)
	for _, entry := range entries {
		byMatch[entry.MatchID] = append(byMatch[entry.MatchID], entry)
	}
	return &RosterRepository{byMatch: byMatch}
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byMatch[matchID]
	out := make([]roster.Entry, 0, len(entries))
	out = append(out, entries...)
	return out, nil
}

func (r *RosterRepository) ReplaceByMatch(_ context.Context, matchID string, entries []roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[matchID] = append([]roster.Entry(nil), entries...)
	return nil
}
