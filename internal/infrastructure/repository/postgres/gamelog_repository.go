package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/player-props/internal/domain/gamelog"
	qb "github.com/riskibarqy/player-props/internal/platform/querybuilder"
)

type GamelogRepository struct {
	db *sqlx.DB
}

func NewGamelogRepository(db *sqlx.DB) *GamelogRepository {
	return &GamelogRepository{db: db}
}

func (r *GamelogRepository) ListRecentByPlayer(ctx context.Context, playerID string, limit int) ([]gamelog.Game, error) {
	if limit <= 0 {
		limit = 15
	}

	query, args, err := qb.Select(
		"id",
		"player_public_id",
		"played_at",
		"opponent_abbreviation",
		"minutes_played",
		"points",
		"rebounds",
		"assists",
		"created_at",
		"updated_at",
	).From("player_game_logs").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("played_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent games query: %w", err)
	}

	var rows []gamelogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent games by player: %w", err)
	}

	out := make([]gamelog.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamelog.Game{
			PlayerID:             row.PlayerID,
			PlayedAt:             row.PlayedAt,
			OpponentAbbreviation: row.OpponentAbbreviation,
			MinutesPlayed:        row.MinutesPlayed,
			Points:               row.Points,
			Rebounds:             row.Rebounds,
			Assists:              row.Assists,
		})
	}
	return out, nil
}

func (r *GamelogRepository) UpsertGames(ctx context.Context, playerID string, games []gamelog.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert game logs: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, game := range games {
		insertModel := gamelogInsertModel{
			PlayerID:             playerID,
			PlayedAt:             game.PlayedAt.UTC(),
			OpponentAbbreviation: game.OpponentAbbreviation,
			MinutesPlayed:        game.MinutesPlayed,
			Points:               game.Points,
			Rebounds:             game.Rebounds,
			Assists:              game.Assists,
		}
		query, args, err := qb.InsertModel("player_game_logs", insertModel, `ON CONFLICT (player_public_id, played_at)
DO UPDATE SET
    opponent_abbreviation = EXCLUDED.opponent_abbreviation,
    minutes_played = EXCLUDED.minutes_played,
    points = EXCLUDED.points,
    rebounds = EXCLUDED.rebounds,
    assists = EXCLUDED.assists,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert game log query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game log %s@%s: %w", playerID, game.PlayedAt.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert game logs tx: %w", err)
	}
	return nil
}
