package prediction

import "context"

// Repository persists prediction records and per-match run bookkeeping.
// Upsert must resolve conflicts on the (player, match) unique key so a
// recomputation overwrites rather than duplicates.
type Repository interface {
	Upsert(ctx context.Context, record Record) error
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (Record, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Record, error)
	UpsertRun(ctx context.Context, run Run) error
	GetRunByMatch(ctx context.Context, matchID string) (Run, bool, error)
}
