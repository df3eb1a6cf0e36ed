package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	basecache "github.com/riskibarqy/player-props/internal/platform/cache"
)

// MatchRepository memoizes match reads and invalidates on upsert. Writes go
// straight through to the wrapped repository.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	key := "match:id:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, "match:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) ListStartingBetween(ctx context.Context, from, until time.Time) ([]match.Match, error) {
	// Time-bounded listings make poor cache keys; always read through.
	return r.next.ListStartingBetween(ctx, from, until)
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, items []match.Match) error {
	if err := r.next.UpsertMatches(ctx, items); err != nil {
		return err
	}
	r.cache.Delete(ctx, "match:list")
	for _, item := range items {
		r.cache.Delete(ctx, "match:id:"+item.ID)
	}
	return nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

// PredictionRepository memoizes per-match prediction reads. Every write for a
// match drops that match's cached rows so the read API never serves a stale
// run alongside fresh records.
type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) Upsert(ctx context.Context, record prediction.Record) error {
	if err := r.next.Upsert(ctx, record); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "prediction:match:"+record.MatchID+":")
	return nil
}

func (r *PredictionRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (prediction.Record, bool, error) {
	key := "prediction:match:" + matchID + ":player:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByMatchAndPlayer(ctx, matchID, playerID)
		if err != nil {
			return nil, err
		}
		return cachedRecord{value: item, exists: exists}, nil
	})
	if err != nil {
		return prediction.Record{}, false, err
	}

	cached, _ := v.(cachedRecord)
	return cached.value, cached.exists, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Record, error) {
	key := "prediction:match:" + matchID + ":list"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]prediction.Record)
	return append([]prediction.Record(nil), items...), nil
}

func (r *PredictionRepository) UpsertRun(ctx context.Context, run prediction.Run) error {
	if err := r.next.UpsertRun(ctx, run); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "prediction:match:"+run.MatchID+":")
	return nil
}

func (r *PredictionRepository) GetRunByMatch(ctx context.Context, matchID string) (prediction.Run, bool, error) {
	key := "prediction:match:" + matchID + ":run"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetRunByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedRun{value: item, exists: exists}, nil
	})
	if err != nil {
		return prediction.Run{}, false, err
	}

	cached, _ := v.(cachedRun)
	return cached.value, cached.exists, nil
}

type cachedRecord struct {
	value  prediction.Record
	exists bool
}

type cachedRun struct {
	value  prediction.Run
	exists bool
}
