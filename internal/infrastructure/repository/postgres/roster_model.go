package postgres

import "time"

type rosterTableModel struct {
	ID               int64     `db:"id"`
	MatchID          string    `db:"match_public_id"`
	PlayerID         string    `db:"player_public_id"`
	PlayerName       string    `db:"player_name"`
	TeamAbbreviation string    `db:"team_abbreviation"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type rosterInsertModel struct {
	MatchID          string `db:"match_public_id"`
	PlayerID         string `db:"player_public_id"`
	PlayerName       string `db:"player_name"`
	TeamAbbreviation string `db:"team_abbreviation"`
}
