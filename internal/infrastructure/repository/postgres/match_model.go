package postgres

import "time"

type matchTableModel struct {
	ID               int64     `db:"id"`
	PublicID         string    `db:"public_id"`
	HomeTeam         string    `db:"home_team"`
	HomeAbbreviation string    `db:"home_abbreviation"`
	AwayTeam         string    `db:"away_team"`
	AwayAbbreviation string    `db:"away_abbreviation"`
	Venue            string    `db:"venue"`
	StartsAt         time.Time `db:"starts_at"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID         string    `db:"public_id"`
	HomeTeam         string    `db:"home_team"`
	HomeAbbreviation string    `db:"home_abbreviation"`
	AwayTeam         string    `db:"away_team"`
	AwayAbbreviation string    `db:"away_abbreviation"`
	Venue            string    `db:"venue"`
	StartsAt         time.Time `db:"starts_at"`
	Status           string    `db:"status"`
}
