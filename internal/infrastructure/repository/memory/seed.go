package memory

import (
	"time"

	"github.com/riskibarqy/player-props/internal/domain/gamelog"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/roster"
)

const (
	MatchIDCelticsLakers = "bos-lal-2024-11-21"
	MatchIDKnicksSuns    = "nyk-phx-2024-11-22"
)

var seedSeasonAnchor = time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:               MatchIDCelticsLakers,
			HomeTeam:         "Boston Celtics",
			HomeAbbreviation: "BOS",
			AwayTeam:         "Los Angeles Lakers",
			AwayAbbreviation: "LAL",
			Venue:            "TD Garden",
			StartsAt:         seedSeasonAnchor.Add(43 * time.Hour),
			Status:           match.StatusScheduled,
		},
		{
			ID:               MatchIDKnicksSuns,
			HomeTeam:         "New York Knicks",
			HomeAbbreviation: "NYK",
			AwayTeam:         "Phoenix Suns",
			AwayAbbreviation: "PHX",
			Venue:            "Madison Square Garden",
			StartsAt:         seedSeasonAnchor.Add(67 * time.Hour),
			Status:           match.StatusScheduled,
		},
	}
}

func SeedRosters() []roster.Entry {
	return []roster.Entry{
		{MatchID: MatchIDCelticsLakers, PlayerID: "bos-jt-00", PlayerName: "Jayson Tatum", TeamAbbreviation: "BOS"},
		{MatchID: MatchIDCelticsLakers, PlayerID: "bos-jb-07", PlayerName: "Jaylen Brown", TeamAbbreviation: "BOS"},
		{MatchID: MatchIDCelticsLakers, PlayerID: "lal-ad-03", PlayerName: "Anthony Davis", TeamAbbreviation: "LAL"},
		{MatchID: MatchIDCelticsLakers, PlayerID: "lal-ar-15", PlayerName: "Austin Reaves", TeamAbbreviation: "LAL"},
		{MatchID: MatchIDKnicksSuns, PlayerID: "nyk-jb-11", PlayerName: "Jalen Brunson", TeamAbbreviation: "NYK"},
		{MatchID: MatchIDKnicksSuns, PlayerID: "nyk-og-08", PlayerName: "OG Anunoby", TeamAbbreviation: "NYK"},
		{MatchID: MatchIDKnicksSuns, PlayerID: "phx-kd-35", PlayerName: "Kevin Durant", TeamAbbreviation: "PHX"},
		{MatchID: MatchIDKnicksSuns, PlayerID: "phx-db-01", PlayerName: "Devin Booker", TeamAbbreviation: "PHX"},
	}
}

type seedStatLine struct {
	minutes  int
	points   int
	rebounds int
	assists  int
}

// SeedGameLogs gives every rostered player a full recent window except one
// rookie-depth player, who stays below the eligibility line on purpose so the
// skip path is visible in dev mode. Tatum's window carries a zero-minute game
// to exercise imputation end to end.
func SeedGameLogs() []gamelog.Game {
	out := make([]gamelog.Game, 0, 128)

	out = append(out, seedWindow("bos-jt-00", "LAL", []seedStatLine{
		{36, 28, 9, 5}, {37, 26, 8, 6}, {38, 31, 11, 4}, {35, 25, 7, 5}, {36, 27, 8, 6},
		{37, 29, 10, 5}, {39, 32, 9, 7}, {35, 26, 8, 4}, {34, 24, 7, 5}, {38, 30, 10, 6},
		{0, 0, 0, 0}, {36, 28, 9, 5}, {35, 27, 8, 6}, {36, 26, 9, 4}, {35, 25, 8, 5},
	})...)
	out = append(out, seedWindow("bos-jb-07", "LAL", []seedStatLine{
		{34, 24, 6, 3}, {35, 22, 5, 4}, {36, 27, 7, 3}, {33, 21, 5, 3}, {34, 25, 6, 4},
		{35, 23, 6, 3}, {36, 28, 7, 5}, {33, 20, 4, 2}, {34, 22, 5, 3}, {35, 26, 6, 4},
		{34, 24, 6, 3}, {33, 21, 5, 2}, {35, 23, 6, 4}, {34, 22, 5, 3}, {33, 20, 4, 3},
	})...)
	out = append(out, seedWindow("lal-ad-03", "BOS", []seedStatLine{
		{36, 26, 13, 3}, {35, 24, 12, 4}, {37, 28, 14, 3}, {34, 22, 11, 2}, {36, 25, 12, 3},
		{35, 23, 13, 4}, {37, 29, 15, 3}, {34, 21, 11, 2}, {35, 24, 12, 3}, {36, 27, 13, 4},
		{35, 25, 12, 3}, {34, 22, 11, 2}, {36, 26, 13, 3}, {35, 23, 12, 4}, {34, 21, 10, 2},
	})...)
	out = append(out, seedWindow("lal-ar-15", "BOS", []seedStatLine{
		{32, 16, 4, 6}, {31, 14, 3, 7}, {33, 18, 4, 6}, {30, 12, 3, 5}, {32, 15, 4, 6},
		{31, 13, 3, 7}, {33, 19, 5, 8}, {30, 11, 3, 5}, {31, 14, 4, 6}, {32, 17, 4, 7},
	})...)
	out = append(out, seedWindow("nyk-jb-11", "PHX", []seedStatLine{
		{36, 28, 3, 8}, {35, 26, 4, 7}, {37, 30, 3, 9}, {34, 24, 3, 6}, {36, 27, 4, 8},
		{35, 25, 3, 7}, {37, 31, 4, 9}, {34, 23, 3, 6}, {35, 26, 4, 7}, {36, 29, 3, 8},
		{35, 27, 4, 7}, {34, 24, 3, 6}, {36, 28, 4, 8}, {35, 25, 3, 7}, {34, 23, 3, 6},
	})...)
	out = append(out, seedWindow("nyk-og-08", "PHX", []seedStatLine{
		{34, 16, 6, 2}, {33, 14, 5, 2}, {35, 18, 7, 3}, {32, 12, 5, 1}, {34, 15, 6, 2},
		{33, 13, 5, 2}, {35, 19, 7, 3}, {32, 11, 4, 1}, {33, 14, 5, 2}, {34, 17, 6, 3},
		{33, 15, 6, 2}, {32, 12, 5, 1}, {34, 16, 6, 2}, {33, 13, 5, 2}, {32, 11, 4, 1},
	})...)
	out = append(out, seedWindow("phx-kd-35", "NYK", []seedStatLine{
		{37, 29, 7, 5}, {36, 27, 6, 5}, {38, 32, 8, 6}, {35, 25, 6, 4}, {37, 28, 7, 5},
		{36, 26, 6, 5}, {38, 33, 8, 6}, {35, 24, 5, 4}, {36, 27, 6, 5}, {37, 30, 7, 6},
		{36, 28, 7, 5}, {35, 25, 6, 4}, {37, 29, 7, 5}, {36, 26, 6, 5}, {35, 24, 5, 4},
	})...)
	out = append(out, seedWindow("phx-db-01", "NYK", []seedStatLine{
		{36, 26, 4, 7}, {35, 24, 4, 6}, {37, 28, 5, 8}, {34, 22, 3, 5}, {36, 25, 4, 7},
		{35, 23, 4, 6}, {37, 29, 5, 8}, {34, 21, 3, 5}, {35, 24, 4, 6}, {36, 27, 4, 7},
		{35, 25, 4, 6}, {34, 22, 3, 5}, {36, 26, 4, 7}, {35, 23, 4, 6}, {34, 21, 3, 5},
	})...)

	return out
}

func seedWindow(playerID, opponent string, lines []seedStatLine) []gamelog.Game {
	out := make([]gamelog.Game, 0, len(lines))
	for i, line := range lines {
		out = append(out, gamelog.Game{
			PlayerID:             playerID,
			PlayedAt:             seedSeasonAnchor.AddDate(0, 0, -(2*i + 1)),
			OpponentAbbreviation: opponent,
			MinutesPlayed:        line.minutes,
			Points:               line.points,
			Rebounds:             line.rebounds,
			Assists:              line.assists,
		})
	}
	return out
}
