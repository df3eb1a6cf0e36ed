package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	qb "github.com/riskibarqy/player-props/internal/platform/querybuilder"
)

var predictionColumns = []string{
	"id",
	"player_public_id",
	"match_public_id",
	"points_threshold",
	"rebounds_threshold",
	"assists_threshold",
	"games_analyzed",
	"rules_version",
	"computed_at",
	"created_at",
	"updated_at",
}

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert resolves concurrent writers for the same (player, match) pair at the
// unique key, which is the serialization point the derivation relies on.
func (r *PredictionRepository) Upsert(ctx context.Context, record prediction.Record) error {
	insertModel := predictionInsertModel{
		PlayerID:          record.PlayerID,
		MatchID:           record.MatchID,
		PointsThreshold:   nullableInt(record.PointsThreshold),
		ReboundsThreshold: nullableInt(record.ReboundsThreshold),
		AssistsThreshold:  nullableInt(record.AssistsThreshold),
		GamesAnalyzed:     record.GamesAnalyzed,
		RulesVersion:      record.RulesVersion,
		ComputedAt:        record.ComputedAt.UTC(),
	}
	query, args, err := qb.InsertModel("player_predictions", insertModel, `ON CONFLICT (player_public_id, match_public_id)
DO UPDATE SET
    points_threshold = EXCLUDED.points_threshold,
    rebounds_threshold = EXCLUDED.rebounds_threshold,
    assists_threshold = EXCLUDED.assists_threshold,
    games_analyzed = EXCLUDED.games_analyzed,
    rules_version = EXCLUDED.rules_version,
    computed_at = EXCLUDED.computed_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction %s/%s: %w", record.PlayerID, record.MatchID, err)
	}
	return nil
}

func (r *PredictionRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (prediction.Record, bool, error) {
	query, args, err := qb.Select(predictionColumns...).
		From("player_predictions").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("player_public_id", playerID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Record{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Record{}, false, nil
		}
		return prediction.Record{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return predictionRowToDomain(row), true, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Record, error) {
	query, args, err := qb.Select(predictionColumns...).
		From("player_predictions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("player_public_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}

	out := make([]prediction.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionRowToDomain(row))
	}
	return out, nil
}

func (r *PredictionRepository) UpsertRun(ctx context.Context, run prediction.Run) error {
	insertModel := predictionRunInsertModel{
		MatchID:           run.MatchID,
		RanAt:             run.RanAt.UTC(),
		PlayersConsidered: run.PlayersConsidered,
		PlayersSkipped:    run.PlayersSkipped,
		PlayersFailed:     run.PlayersFailed,
		RecordsWritten:    run.RecordsWritten,
		RulesVersion:      run.RulesVersion,
	}
	query, args, err := qb.InsertModel("prediction_runs", insertModel, `ON CONFLICT (match_public_id)
DO UPDATE SET
    ran_at = EXCLUDED.ran_at,
    players_considered = EXCLUDED.players_considered,
    players_skipped = EXCLUDED.players_skipped,
    players_failed = EXCLUDED.players_failed,
    records_written = EXCLUDED.records_written,
    rules_version = EXCLUDED.rules_version,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert prediction run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction run %s: %w", run.MatchID, err)
	}
	return nil
}

func (r *PredictionRepository) GetRunByMatch(ctx context.Context, matchID string) (prediction.Run, bool, error) {
	query, args, err := qb.Select(
		"id",
		"match_public_id",
		"ran_at",
		"players_considered",
		"players_skipped",
		"players_failed",
		"records_written",
		"rules_version",
		"created_at",
		"updated_at",
	).From("prediction_runs").
		Where(qb.Eq("match_public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Run{}, false, fmt.Errorf("build get prediction run query: %w", err)
	}

	var row predictionRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Run{}, false, nil
		}
		return prediction.Run{}, false, fmt.Errorf("get prediction run: %w", err)
	}

	return prediction.Run{
		MatchID:           row.MatchID,
		RanAt:             row.RanAt,
		PlayersConsidered: row.PlayersConsidered,
		PlayersSkipped:    row.PlayersSkipped,
		PlayersFailed:     row.PlayersFailed,
		RecordsWritten:    row.RecordsWritten,
		RulesVersion:      row.RulesVersion,
	}, true, nil
}

func predictionRowToDomain(row predictionTableModel) prediction.Record {
	return prediction.Record{
		PlayerID:          row.PlayerID,
		MatchID:           row.MatchID,
		PointsThreshold:   nullInt64ToIntPtr(row.PointsThreshold),
		ReboundsThreshold: nullInt64ToIntPtr(row.ReboundsThreshold),
		AssistsThreshold:  nullInt64ToIntPtr(row.AssistsThreshold),
		GamesAnalyzed:     row.GamesAnalyzed,
		RulesVersion:      row.RulesVersion,
		ComputedAt:        row.ComputedAt,
	}
}
