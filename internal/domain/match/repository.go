package match

import (
	"context"
	"time"
)

// Repository exposes match read and write operations.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	ListStartingBetween(ctx context.Context, from, until time.Time) ([]Match, error)
	UpsertMatches(ctx context.Context, items []Match) error
}
