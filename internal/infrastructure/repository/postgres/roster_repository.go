package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	qb "github.com/riskibarqy/player-props/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	query, args, err := qb.Select(
		"id",
		"match_public_id",
		"player_public_id",
		"player_name",
		"team_abbreviation",
		"created_at",
		"updated_at",
	).From("match_rosters").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("team_abbreviation ASC", "player_name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster by match: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Entry{
			MatchID:          row.MatchID,
			PlayerID:         row.PlayerID,
			PlayerName:       row.PlayerName,
			TeamAbbreviation: row.TeamAbbreviation,
		})
	}
	return out, nil
}

// ReplaceByMatch swaps the stored roster for the feed's current one in a
// single transaction, so readers never observe a half-written roster.
func (r *RosterRepository) ReplaceByMatch(ctx context.Context, matchID string, entries []roster.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace roster: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_rosters WHERE match_public_id = $1`, matchID); err != nil {
		return fmt.Errorf("clear roster for match %s: %w", matchID, err)
	}

	for _, entry := range entries {
		insertModel := rosterInsertModel{
			MatchID:          matchID,
			PlayerID:         entry.PlayerID,
			PlayerName:       entry.PlayerName,
			TeamAbbreviation: entry.TeamAbbreviation,
		}
		query, args, err := qb.InsertModel("match_rosters", insertModel, `ON CONFLICT (match_public_id, player_public_id)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    team_abbreviation = EXCLUDED.team_abbreviation,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build insert roster entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert roster entry %s/%s: %w", matchID, entry.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace roster tx: %w", err)
	}
	return nil
}
