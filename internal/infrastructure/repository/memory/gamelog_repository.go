package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/player-props/internal/domain/gamelog"
)

type GamelogRepository struct {
	mu       sync.RWMutex
	byPlayer map[string][]gamelog.Game
}

func NewGamelogRepository(games []gamelog.Game) *GamelogRepository {
	r := &GamelogRepository{byPlayer: make(map[string][]gamelog.Game)}
	for _, game := range games {
		r.byPlayer[game.PlayerID] = append(r.byPlayer[game.PlayerID], game)
	}
	for playerID := range r.byPlayer {
		sortNewestFirst(r.byPlayer[playerID])
	}
	return r
}

func (r *GamelogRepository) ListRecentByPlayer(_ context.Context, playerID string, limit int) ([]gamelog.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := r.byPlayer[playerID]
	if limit <= 0 || limit > len(games) {
		limit = len(games)
	}

	out := make([]gamelog.Game, 0, limit)
	out = append(out, games[:limit]...)
	return out, nil
}

func (r *GamelogRepository) UpsertGames(_ context.Context, playerID string, games []gamelog.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.byPlayer[playerID]
	byDate := make(map[int64]int, len(existing))
	for i, game := range existing {
		byDate[game.PlayedAt.UTC().Unix()] = i
	}

	for _, game := range games {
		game.PlayerID = playerID
		if i, ok := byDate[game.PlayedAt.UTC().Unix()]; ok {
			existing[i] = game
			continue
		}
		existing = append(existing, game)
		byDate[game.PlayedAt.UTC().Unix()] = len(existing) - 1
	}

	sortNewestFirst(existing)
	r.byPlayer[playerID] = existing
	return nil
}

func sortNewestFirst(games []gamelog.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlayedAt.After(games[j].PlayedAt)
	})
}
