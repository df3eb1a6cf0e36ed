package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinal     = "FINAL"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Match represents one scheduled game between two teams.
type Match struct {
	ID               string
	HomeTeam         string
	HomeAbbreviation string
	AwayTeam         string
	AwayAbbreviation string
	Venue            string
	StartsAt         time.Time
	Status           string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinal, "FT", "COMPLETED":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}
