package statsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/player-props/internal/platform/logging"
	"github.com/riskibarqy/player-props/internal/platform/resilience"
	"github.com/riskibarqy/player-props/internal/usecase"
)

func newTestClient(srv *httptest.Server, apiKey string, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        srv.URL + "/v1",
		APIKey:         apiKey,
		Timeout:        5 * time.Second,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClientFetchRecentGames_SendsAPIKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/players/p1/games" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if got := query.Get("api_key"); got != "secret-key" {
			t.Errorf("unexpected api_key: %s", got)
		}
		if got := query.Get("limit"); got != "10" {
			t.Errorf("unexpected limit: %s", got)
		}
		if got := query.Get("order"); got != "desc" {
			t.Errorf("unexpected order: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"game_date":"2026-01-28","opponent":"lsg","minutes_played":30,"points":22,"rebounds":7,"assists":4},
			{"game_date":"not-a-date","opponent":"HCC","minutes_played":28,"points":18,"rebounds":9,"assists":6},
			{"game_date":"2026-01-26T19:00:00Z","opponent":"HCC","minutes_played":-3,"points":-1,"rebounds":2,"assists":1}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 0, resilience.CircuitBreakerConfig{Enabled: false})

	games, err := client.FetchRecentGames(context.Background(), "p1", 10)
	if err != nil {
		t.Fatalf("fetch recent games failed: %v", err)
	}

	if len(games) != 2 {
		t.Fatalf("unexpected game count: got=%d want=2", len(games))
	}
	if games[0].OpponentAbbreviation != "LSG" {
		t.Fatalf("unexpected opponent: got=%s want=LSG", games[0].OpponentAbbreviation)
	}
	if !games[0].PlayedAt.Equal(time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected played at: %s", games[0].PlayedAt)
	}
	if games[1].MinutesPlayed != 0 || games[1].Points != 0 {
		t.Fatalf("negative stats were not clamped: %+v", games[1])
	}
}

func TestClientFetchSchedule_DropsUnusablePayloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/schedule" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"match-1","starts_at":"2026-02-02T19:30:00Z","venue":"Metro Arena","status":"scheduled",
			 "home":{"name":"Metro Hawks","abbreviation":"mhk"},"away":{"name":"Harbor City Comets","abbreviation":"hcc"}},
			{"id":"","starts_at":"2026-02-03T19:30:00Z"},
			{"id":"match-bad-date","starts_at":"tomorrow-ish"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 0, resilience.CircuitBreakerConfig{Enabled: false})

	matches, err := client.FetchSchedule(context.Background())
	if err != nil {
		t.Fatalf("fetch schedule failed: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("unexpected match count: got=%d want=1", len(matches))
	}
	if matches[0].ID != "match-1" {
		t.Fatalf("unexpected match id: %s", matches[0].ID)
	}
	if matches[0].HomeAbbreviation != "MHK" || matches[0].AwayAbbreviation != "HCC" {
		t.Fatalf("abbreviations were not normalized: %+v", matches[0])
	}
}

func TestClientFetchRoster_FiltersEntriesWithoutPlayerID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/matches/match-1/roster" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"player_id":"p1","player_name":" One ","team_abbreviation":"mhk"},
			{"player_id":"  ","player_name":"No ID","team_abbreviation":"MHK"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 0, resilience.CircuitBreakerConfig{Enabled: false})

	entries, err := client.FetchRoster(context.Background(), "match-1")
	if err != nil {
		t.Fatalf("fetch roster failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	if entries[0].PlayerName != "One" || entries[0].TeamAbbreviation != "MHK" {
		t.Fatalf("entry was not normalized: %+v", entries[0])
	}

	if _, err := client.FetchRoster(context.Background(), "  "); err == nil {
		t.Fatalf("expected an error for a blank match id")
	}
}

func TestClientExecuteRequest_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 1, resilience.CircuitBreakerConfig{Enabled: false})

	if _, err := client.FetchSchedule(context.Background()); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("unexpected request count: got=%d want=2", got)
	}
}

func TestClientExecuteRequest_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown player"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 2, resilience.CircuitBreakerConfig{Enabled: false})

	_, err := client.FetchRecentGames(context.Background(), "p-missing", 10)
	if err == nil {
		t.Fatalf("expected an error for status 404")
	}
	if !strings.Contains(err.Error(), "feed status=404") {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("unexpected request count: got=%d want=1", got)
	}
}

func TestClientCircuitBreaker_OpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv, "secret-key", 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	if _, err := client.FetchSchedule(context.Background()); err == nil {
		t.Fatalf("expected a failure from the upstream")
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("unexpected request count before open: got=%d want=1", got)
	}

	_, err := client.FetchSchedule(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable while open, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("open circuit still reached the upstream: requests=%d", got)
	}
}

func TestParseFeedDate(t *testing.T) {
	t.Parallel()

	t.Run("accepts RFC 3339", func(t *testing.T) {
		parsed, err := parseFeedDate("2026-02-02T19:30:00+07:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, time.February, 2, 12, 30, 0, 0, time.UTC)
		if !parsed.Equal(want) {
			t.Fatalf("unexpected time: got=%s want=%s", parsed, want)
		}
	})

	t.Run("accepts bare dates", func(t *testing.T) {
		parsed, err := parseFeedDate("2026-01-28")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !parsed.Equal(time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected time: %s", parsed)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		if _, err := parseFeedDate("28/01/2026"); err == nil {
			t.Fatalf("expected an error")
		}
		if _, err := parseFeedDate("   "); err == nil {
			t.Fatalf("expected an error for a blank value")
		}
	})
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial https://feed?api_key=secret-key failed: secret-key rejected", "secret-key")
	if strings.Contains(got, "secret-key") {
		t.Fatalf("api key leaked: %s", got)
	}
	if !strings.Contains(got, "api_key=REDACTED") {
		t.Fatalf("expected redacted query param: %s", got)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://api.statsfeed.dev/v1/schedule?api_key=secret-key&order=desc")
	if got != "https://api.statsfeed.dev/v1/schedule?api_key=REDACTED&order=desc" {
		t.Fatalf("unexpected redacted url: %s", got)
	}
}

func TestBuildRequestURL(t *testing.T) {
	t.Parallel()

	if got := buildRequestURL("https://feed/v1", "/schedule", ""); got != "https://feed/v1/schedule" {
		t.Fatalf("unexpected url without query: %s", got)
	}
	if got := buildRequestURL("https://feed/v1", "/schedule", "order=desc"); got != "https://feed/v1/schedule?order=desc" {
		t.Fatalf("unexpected url with query: %s", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(status) {
			t.Fatalf("expected status %d to be retryable", status)
		}
	}
	for _, status := range []int{200, 400, 401, 404} {
		if isRetryableStatus(status) {
			t.Fatalf("expected status %d to not be retryable", status)
		}
	}
}
