package postgres

import "time"

type gamelogTableModel struct {
	ID                   int64     `db:"id"`
	PlayerID             string    `db:"player_public_id"`
	PlayedAt             time.Time `db:"played_at"`
	OpponentAbbreviation string    `db:"opponent_abbreviation"`
	MinutesPlayed        int       `db:"minutes_played"`
	Points               int       `db:"points"`
	Rebounds             int       `db:"rebounds"`
	Assists              int       `db:"assists"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type gamelogInsertModel struct {
	PlayerID             string    `db:"player_public_id"`
	PlayedAt             time.Time `db:"played_at"`
	OpponentAbbreviation string    `db:"opponent_abbreviation"`
	MinutesPlayed        int       `db:"minutes_played"`
	Points               int       `db:"points"`
	Rebounds             int       `db:"rebounds"`
	Assists              int       `db:"assists"`
}
