package statsfeed

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/player-props/internal/usecase"
)

type scheduleEnvelope struct {
	Data []matchPayload `json:"data"`
}

type matchPayload struct {
	ID       string `json:"id"`
	StartsAt string `json:"starts_at"`
	Venue    string `json:"venue"`
	Status   string `json:"status"`
	Home     struct {
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	} `json:"home"`
	Away struct {
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	} `json:"away"`
}

type rosterEnvelope struct {
	Data []rosterPayload `json:"data"`
}

type rosterPayload struct {
	PlayerID         string `json:"player_id"`
	PlayerName       string `json:"player_name"`
	TeamAbbreviation string `json:"team_abbreviation"`
}

type gamesEnvelope struct {
	Data []gamePayload `json:"data"`
}

type gamePayload struct {
	GameDate      string `json:"game_date"`
	Opponent      string `json:"opponent"`
	MinutesPlayed int    `json:"minutes_played"`
	Points        int    `json:"points"`
	Rebounds      int    `json:"rebounds"`
	Assists       int    `json:"assists"`
}

func mapMatchPayload(item matchPayload) (usecase.ExternalMatch, bool) {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return usecase.ExternalMatch{}, false
	}

	startsAt, err := parseFeedDate(item.StartsAt)
	if err != nil {
		return usecase.ExternalMatch{}, false
	}

	return usecase.ExternalMatch{
		ID:               id,
		HomeTeam:         strings.TrimSpace(item.Home.Name),
		HomeAbbreviation: strings.ToUpper(strings.TrimSpace(item.Home.Abbreviation)),
		AwayTeam:         strings.TrimSpace(item.Away.Name),
		AwayAbbreviation: strings.ToUpper(strings.TrimSpace(item.Away.Abbreviation)),
		Venue:            strings.TrimSpace(item.Venue),
		StartsAt:         startsAt,
		Status:           strings.TrimSpace(item.Status),
	}, true
}

// parseFeedDate accepts the feed's two observed formats: RFC 3339 for
// schedule timestamps and bare dates for game logs.
func parseFeedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}
