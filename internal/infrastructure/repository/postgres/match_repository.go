package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/player-props/internal/domain/match"
	qb "github.com/riskibarqy/player-props/internal/platform/querybuilder"
)

var matchColumns = []string{
	"id",
	"public_id",
	"home_team",
	"home_abbreviation",
	"away_team",
	"away_abbreviation",
	"venue",
	"starts_at",
	"status",
	"created_at",
	"updated_at",
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchRowToDomain(row), true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		OrderBy("starts_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRowToDomain(row))
	}
	return out, nil
}

func (r *MatchRepository) ListStartingBetween(ctx context.Context, from, until time.Time) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(
			qb.Expr("starts_at >= ?", from.UTC()),
			qb.Expr("starts_at < ?", until.UTC()),
		).
		OrderBy("starts_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRowToDomain(row))
	}
	return out, nil
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := matchInsertModel{
			PublicID:         item.ID,
			HomeTeam:         item.HomeTeam,
			HomeAbbreviation: item.HomeAbbreviation,
			AwayTeam:         item.AwayTeam,
			AwayAbbreviation: item.AwayAbbreviation,
			Venue:            item.Venue,
			StartsAt:         item.StartsAt.UTC(),
			Status:           match.NormalizeStatus(item.Status),
		}
		query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    home_team = EXCLUDED.home_team,
    home_abbreviation = EXCLUDED.home_abbreviation,
    away_team = EXCLUDED.away_team,
    away_abbreviation = EXCLUDED.away_abbreviation,
    venue = EXCLUDED.venue,
    starts_at = EXCLUDED.starts_at,
    status = EXCLUDED.status,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert match %s query: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return nil
}

func matchRowToDomain(row matchTableModel) match.Match {
	return match.Match{
		ID:               row.PublicID,
		HomeTeam:         row.HomeTeam,
		HomeAbbreviation: row.HomeAbbreviation,
		AwayTeam:         row.AwayTeam,
		AwayAbbreviation: row.AwayAbbreviation,
		Venue:            row.Venue,
		StartsAt:         row.StartsAt,
		Status:           row.Status,
	}
}
