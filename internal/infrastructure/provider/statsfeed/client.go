package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/player-props/internal/platform/logging"
	"github.com/riskibarqy/player-props/internal/platform/resilience"
	"github.com/riskibarqy/player-props/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.statsfeed.dev/v1"
	defaultTimeout     = 20 * time.Second
	maxResponseBodyLen = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)
var errStatsFeedTransient = crerr.New("statsfeed transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the upstream stats feed over fasthttp. It implements
// usecase.StatsFeedProvider.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			ReadBufferSize:      16 << 10,
			MaxResponseBodySize: maxResponseBodyLen,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchSchedule(ctx context.Context) ([]usecase.ExternalMatch, error) {
	var envelope scheduleEnvelope
	if err := c.doJSON(ctx, "/schedule", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, ok := mapMatchPayload(item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) FetchRoster(ctx context.Context, matchID string) ([]usecase.ExternalRosterEntry, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	path := "/matches/" + url.PathEscape(matchID) + "/roster"
	var envelope rosterEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch roster match_id=%s: %w", matchID, err)
	}

	out := make([]usecase.ExternalRosterEntry, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		playerID := strings.TrimSpace(item.PlayerID)
		if playerID == "" {
			continue
		}
		out = append(out, usecase.ExternalRosterEntry{
			PlayerID:         playerID,
			PlayerName:       strings.TrimSpace(item.PlayerName),
			TeamAbbreviation: strings.ToUpper(strings.TrimSpace(item.TeamAbbreviation)),
		})
	}
	return out, nil
}

func (c *Client) FetchRecentGames(ctx context.Context, playerID string, limit int) ([]usecase.ExternalGame, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if limit <= 0 {
		limit = 15
	}

	path := "/players/" + url.PathEscape(playerID) + "/games"
	query := map[string]string{
		"limit": strconv.Itoa(limit),
		"order": "desc",
	}
	var envelope gamesEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch recent games player_id=%s: %w", playerID, err)
	}

	out := make([]usecase.ExternalGame, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		playedAt, err := parseFeedDate(item.GameDate)
		if err != nil {
			c.logger.WarnContext(ctx, "dropping game with unparseable date",
				"player_id", playerID,
				"game_date", item.GameDate,
			)
			continue
		}
		out = append(out, usecase.ExternalGame{
			PlayedAt:             playedAt,
			OpponentAbbreviation: strings.ToUpper(strings.TrimSpace(item.Opponent)),
			MinutesPlayed:        maxInt(item.MinutesPlayed, 0),
			Points:               maxInt(item.Points, 0),
			Rebounds:             maxInt(item.Rebounds, 0),
			Assists:              maxInt(item.Assists, 0),
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsfeed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}

	encoded := values.Encode()
	fullURL := buildRequestURL(c.baseURL, path, encoded)

	out, err, _ := c.flight.Do(path+"?"+encoded, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errStatsFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.sendOnce(fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %s", errStatsFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: feed status=%d body=%s", errStatsFeedTransient, status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "statsfeed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) sendOnce(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	body := resp.Body()
	if len(body) > maxResponseBodyLen {
		body = body[:maxResponseBodyLen]
	}
	return append([]byte(nil), body...), resp.StatusCode(), nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout:
		return true
	}
	return false
}

func buildRequestURL(baseURL, path, encodedQuery string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(baseURL)
	_, _ = buf.WriteString(path)
	if encodedQuery != "" {
		_ = buf.WriteByte('?')
		_, _ = buf.WriteString(encodedQuery)
	}

	return buf.String()
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "api_key=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
