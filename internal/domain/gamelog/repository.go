package gamelog

import "context"

// Source supplies a player's most recent completed team games,
// newest first. It may return fewer than limit when the player has a
// short history; it never returns more.
type Source interface {
	ListRecentByPlayer(ctx context.Context, playerID string, limit int) ([]Game, error)
}

// Repository persists game logs and serves windows from storage.
type Repository interface {
	Source
	UpsertGames(ctx context.Context, playerID string, games []Game) error
}
