package postgres

import (
	"database/sql"
	"time"
)

type predictionTableModel struct {
	ID                int64         `db:"id"`
	PlayerID          string        `db:"player_public_id"`
	MatchID           string        `db:"match_public_id"`
	PointsThreshold   sql.NullInt64 `db:"points_threshold"`
	ReboundsThreshold sql.NullInt64 `db:"rebounds_threshold"`
	AssistsThreshold  sql.NullInt64 `db:"assists_threshold"`
	GamesAnalyzed     int           `db:"games_analyzed"`
	RulesVersion      string        `db:"rules_version"`
	ComputedAt        time.Time     `db:"computed_at"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

type predictionInsertModel struct {
	PlayerID          string        `db:"player_public_id"`
	MatchID           string        `db:"match_public_id"`
	PointsThreshold   sql.NullInt64 `db:"points_threshold"`
	ReboundsThreshold sql.NullInt64 `db:"rebounds_threshold"`
	AssistsThreshold  sql.NullInt64 `db:"assists_threshold"`
	GamesAnalyzed     int           `db:"games_analyzed"`
	RulesVersion      string        `db:"rules_version"`
	ComputedAt        time.Time     `db:"computed_at"`
}

type predictionRunTableModel struct {
	ID                int64     `db:"id"`
	MatchID           string    `db:"match_public_id"`
	RanAt             time.Time `db:"ran_at"`
	PlayersConsidered int       `db:"players_considered"`
	PlayersSkipped    int       `db:"players_skipped"`
	PlayersFailed     int       `db:"players_failed"`
	RecordsWritten    int       `db:"records_written"`
	RulesVersion      string    `db:"rules_version"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type predictionRunInsertModel struct {
	MatchID           string    `db:"match_public_id"`
	RanAt             time.Time `db:"ran_at"`
	PlayersConsidered int       `db:"players_considered"`
	PlayersSkipped    int       `db:"players_skipped"`
	PlayersFailed     int       `db:"players_failed"`
	RecordsWritten    int       `db:"records_written"`
	RulesVersion      string    `db:"rules_version"`
}
