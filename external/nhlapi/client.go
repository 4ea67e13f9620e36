package nhlapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/icetrack/icetrack/internal/domain/rawdata"
	"github.com/icetrack/icetrack/internal/platform/logging"
	"github.com/icetrack/icetrack/internal/platform/resilience"
	"github.com/icetrack/icetrack/internal/usecase"
)

const (
	defaultBaseURL     = "https://api-web.nhle.com/v1"
	defaultMaxAttempts = 5
	defaultBackoffBase = time.Second
	defaultBackoffCap  = 30 * time.Second
	maxResponseBytes   = 6 << 20
)

var errNHLTransient = crerr.New("nhl transient failure")
var errNHLRateLimited = crerr.New("nhl rate limited")
var errNHLNotFound = crerr.New("nhl resource not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the NHL api-web feed. The feed is public and
// unauthenticated but aggressively rate limited, so every request
// goes through the circuit breaker, singleflight and a capped
// exponential backoff.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	backoffBase    time.Duration
	backoffCap     time.Duration
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
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	backoffCap := cfg.BackoffCap
	if backoffCap < backoffBase {
		backoffCap = defaultBackoffCap
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxAttempts:    maxAttempts,
		backoffBase:    backoffBase,
		backoffCap:     backoffCap,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchScheduleByDate(ctx context.Context, day time.Time) ([]usecase.UpstreamScheduleGame, []rawdata.Payload, error) {
	path := "/schedule/" + day.UTC().Format("2006-01-02")

	var envelope scheduleEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, nil, err
	}

	out := make([]usecase.UpstreamScheduleGame, 0, 16)
	for _, week := range envelope.GameWeek {
		for _, item := range week.Games {
			entry, mapErr := mapScheduleItem(item)
			if mapErr != nil {
				return nil, nil, mapErr
			}
			out = append(out, entry)
		}
	}

	payload := rawdata.Payload{
		EntityType:  "schedule",
		EntityKey:   path,
		PayloadJSON: string(raw),
	}

	return out, []rawdata.Payload{payload}, nil
}

func (c *Client) FetchBoxscore(ctx context.Context, gameID int64) (usecase.UpstreamBoxscore, []rawdata.Payload, error) {
	if gameID <= 0 {
		return usecase.UpstreamBoxscore{}, nil, fmt.Errorf("game id must be greater than zero")
	}
	path := fmt.Sprintf("/gamecenter/%d/boxscore", gameID)

	var envelope boxscoreEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return usecase.UpstreamBoxscore{}, nil, err
	}

	out, err := mapBoxscore(gameID, envelope)
	if err != nil {
		return usecase.UpstreamBoxscore{}, nil, err
	}

	payload := rawdata.Payload{
		EntityType:  "boxscore",
		EntityKey:   path,
		GameID:      gameID,
		PayloadJSON: string(raw),
	}

	return out, []rawdata.Payload{payload}, nil
}

func (c *Client) FetchPlayByPlay(ctx context.Context, gameID int64) (usecase.UpstreamPlayByPlay, []rawdata.Payload, error) {
	if gameID <= 0 {
		return usecase.UpstreamPlayByPlay{}, nil, fmt.Errorf("game id must be greater than zero")
	}
	path := fmt.Sprintf("/gamecenter/%d/play-by-play", gameID)

	var envelope playByPlayEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return usecase.UpstreamPlayByPlay{}, nil, err
	}

	items := append([]playItem(nil), envelope.Plays...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })

	out := usecase.UpstreamPlayByPlay{
		Plays:       make([]usecase.UpstreamPlay, 0, len(items)),
		RosterSpots: make([]usecase.UpstreamRosterPlayer, 0, len(envelope.RosterSpots)),
	}
	for idx, item := range items {
		entry, mapErr := mapPlayItem(gameID, idx+1, item)
		if mapErr != nil {
			return usecase.UpstreamPlayByPlay{}, nil, mapErr
		}
		out.Plays = append(out.Plays, entry)
	}
	for _, spot := range envelope.RosterSpots {
		entry, mapErr := mapRosterSpot(gameID, spot)
		if mapErr != nil {
			return usecase.UpstreamPlayByPlay{}, nil, mapErr
		}
		out.RosterSpots = append(out.RosterSpots, entry)
	}

	payload := rawdata.Payload{
		EntityType:  "play-by-play",
		EntityKey:   path,
		GameID:      gameID,
		PayloadJSON: string(raw),
	}

	return out, []rawdata.Payload{payload}, nil
}

func (c *Client) FetchRoster(ctx context.Context, teamAbbrev string, season int) ([]usecase.UpstreamRosterPlayer, []rawdata.Payload, error) {
	teamAbbrev = strings.ToUpper(strings.TrimSpace(teamAbbrev))
	if teamAbbrev == "" {
		return nil, nil, fmt.Errorf("team abbrev is required")
	}
	if season <= 0 {
		return nil, nil, fmt.Errorf("season must be greater than zero")
	}
	path := fmt.Sprintf("/roster/%s/%d", teamAbbrev, season)

	var envelope rosterEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, nil, err
	}

	groups := [][]rosterItem{envelope.Forwards, envelope.Defensemen, envelope.Goalies}
	out := make([]usecase.UpstreamRosterPlayer, 0, 32)
	for _, group := range groups {
		for _, item := range group {
			entry, mapErr := mapRosterItem(teamAbbrev, item)
			if mapErr != nil {
				return nil, nil, mapErr
			}
			out = append(out, entry)
		}
	}

	payload := rawdata.Payload{
		EntityType:  "roster",
		EntityKey:   path,
		PayloadJSON: string(raw),
	}

	return out, []rawdata.Payload{payload}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nhl circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: league feed is temporarily unavailable", usecase.ErrUpstreamUnavailable)
		}
	}

	fullURL := c.baseURL + path

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isNHLCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, translateRequestError(err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode feed payload: %v", usecase.ErrMalformedPayload, err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNHLTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errNHLTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: feed status=%d", errNHLRateLimited, resp.StatusCode)
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: feed status=%d url=%s", errNHLNotFound, resp.StatusCode, fullURL)
			case resp.StatusCode >= http.StatusInternalServerError:
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errNHLTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxAttempts-1 {
			break
		}
		timer := time.NewTimer(c.backoffDelay(attempt))
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
	c.logger.WarnContext(ctx, "nhl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.backoffBase << attempt
	if delay > c.backoffCap || delay <= 0 {
		return c.backoffCap
	}
	return delay
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func translateRequestError(err error) error {
	switch {
	case stderrors.Is(err, errNHLRateLimited):
		return fmt.Errorf("%w: %v", usecase.ErrUpstreamRateLimited, err)
	case stderrors.Is(err, errNHLTransient):
		return fmt.Errorf("%w: %v", usecase.ErrUpstreamUnavailable, err)
	case stderrors.Is(err, errNHLNotFound):
		return fmt.Errorf("%w: %v", usecase.ErrUpstreamNotFound, err)
	default:
		return err
	}
}

func isNHLCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errNHLTransient) || stderrors.Is(err, errNHLRateLimited)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
