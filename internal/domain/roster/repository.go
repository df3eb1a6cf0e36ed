package roster

import "context"

// Repository describes roster persistence needs from use cases.
// ListByMatch returns the union of both teams' players for a match.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
	ReplaceByMatch(ctx context.Context, matchID string, entries []Entry) error
}
