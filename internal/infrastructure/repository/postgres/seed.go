package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/player-props/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the dev dataset into an empty database. A non-empty
// matches table means the instance has real data and the seed is skipped.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM matches`); err != nil {
		return fmt.Errorf("count matches for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range memory.SeedMatches() {
		query, args, err := sqlx.Named(`
INSERT INTO matches (public_id, home_team, home_abbreviation, away_team, away_abbreviation, venue, starts_at, status)
VALUES (:public_id, :home_team, :home_abbreviation, :away_team, :away_abbreviation, :venue, :starts_at, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":         m.ID,
			"home_team":         m.HomeTeam,
			"home_abbreviation": m.HomeAbbreviation,
			"away_team":         m.AwayTeam,
			"away_abbreviation": m.AwayAbbreviation,
			"venue":             m.Venue,
			"starts_at":         m.StartsAt,
			"status":            m.Status,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	for _, entry := range memory.SeedRosters() {
		query, args, err := sqlx.Named(`
INSERT INTO match_rosters (match_public_id, player_public_id, player_name, team_abbreviation)
VALUES (:match_public_id, :player_public_id, :player_name, :team_abbreviation)
ON CONFLICT (match_public_id, player_public_id) DO NOTHING`, map[string]any{
			"match_public_id":   entry.MatchID,
			"player_public_id":  entry.PlayerID,
			"player_name":       entry.PlayerName,
			"team_abbreviation": entry.TeamAbbreviation,
		})
		if err != nil {
			return fmt.Errorf("bind seed roster %s/%s query: %w", entry.MatchID, entry.PlayerID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("seed roster %s/%s: %w", entry.MatchID, entry.PlayerID, err)
		}
	}

	for _, game := range memory.SeedGameLogs() {
		query, args, err := sqlx.Named(`
INSERT INTO player_game_logs (player_public_id, played_at, opponent_abbreviation, minutes_played, points, rebounds, assists)
VALUES (:player_public_id, :played_at, :opponent_abbreviation, :minutes_played, :points, :rebounds, :assists)
ON CONFLICT (player_public_id, played_at) DO NOTHING`, map[string]any{
			"player_public_id":      game.PlayerID,
			"played_at":             game.PlayedAt,
			"opponent_abbreviation": game.OpponentAbbreviation,
			"minutes_played":        game.MinutesPlayed,
			"points":                game.Points,
			"rebounds":              game.Rebounds,
			"assists":               game.Assists,
		})
		if err != nil {
			return fmt.Errorf("bind seed game log %s query: %w", game.PlayerID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("seed game log %s: %w", game.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
