package nhlapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/icetrack/icetrack/internal/platform/resilience"
	"github.com/icetrack/icetrack/internal/usecase"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffCap:  5 * time.Millisecond,
	})
}

func TestFetchScheduleByDate_MapsGames(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule/2026-01-15" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"gameWeek": [{
				"date": "2026-01-15",
				"games": [{
					"id": 2025020076,
					"season": 20252026,
					"gameType": 2,
					"startTimeUTC": "2026-01-16T00:00:00Z",
					"venue": {"default": "Scotiabank Arena"},
					"gameState": "FUT",
					"homeTeam": {"id": 10, "placeName": {"default": "Toronto"}, "commonName": {"default": "Maple Leafs"}, "abbrev": "TOR"},
					"awayTeam": {"id": 22, "placeName": {"default": "Edmonton"}, "commonName": {"default": "Oilers"}, "abbrev": "EDM"}
				}]
			}]
		}`))
	}))
	defer srv.Close()

	games, raw, err := testClient(srv).FetchScheduleByDate(context.Background(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	g := games[0]
	if g.GameID != 2025020076 || g.HomeTeamID != 10 || g.AwayTeamID != 22 {
		t.Fatalf("unexpected game: %+v", g)
	}
	if g.Venue != "Scotiabank Arena" || g.HomeTeamAbbrev != "TOR" {
		t.Fatalf("unexpected mapping: %+v", g)
	}
	if len(raw) != 1 || raw[0].EntityType != "schedule" {
		t.Fatalf("expected schedule payload retained, got %+v", raw)
	}
}

func TestFetchPlayByPlay_RenumbersBySortOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gamecenter/2025020076/play-by-play" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rosterSpots": [
				{"teamId": 22, "playerId": 8478402, "firstName": {"default": "Connor"}, "lastName": {"default": "McDavid"}, "sweaterNumber": 97, "positionCode": "C"},
				{"teamId": 10, "playerId": 8479318, "firstName": {"default": "Auston"}, "lastName": {"default": "Matthews"}, "sweaterNumber": 34, "positionCode": "C"}
			],
			"plays": [
				{"sortOrder": 51, "typeDescKey": "shot-on-goal", "periodDescriptor": {"number": 1}, "timeInPeriod": "01:12", "details": {"eventOwnerTeamId": 10, "shootingPlayerId": 8479318, "goalieInNetId": 8475683, "zoneCode": "O", "xCoord": 62, "yCoord": -10}},
				{"sortOrder": 8, "typeDescKey": "faceoff", "periodDescriptor": {"number": 1}, "timeInPeriod": "00:00", "details": {"winningPlayerId": 8478402, "losingPlayerId": 8479318, "zoneCode": "N"}},
				{"sortOrder": 90, "typeDescKey": "goal", "periodDescriptor": {"number": 1}, "timeInPeriod": "03:20", "details": {"eventOwnerTeamId": 22, "scoringPlayerId": 8478402, "assist1PlayerId": 8477934, "assist2PlayerId": 8475218}}
			]
		}`))
	}))
	defer srv.Close()

	feed, raw, err := testClient(srv).FetchPlayByPlay(context.Background(), 2025020076)
	if err != nil {
		t.Fatalf("fetch play-by-play: %v", err)
	}
	plays := feed.Plays
	if len(plays) != 3 {
		t.Fatalf("expected 3 plays, got %d", len(plays))
	}

	// Feed ordinals 8, 51, 90 become the gapless run 1..3.
	for i, p := range plays {
		if p.SequenceIndex != i+1 {
			t.Fatalf("expected gapless renumbering, position %d holds %d", i, p.SequenceIndex)
		}
	}
	if plays[0].TypeKey != "faceoff" || plays[2].TypeKey != "goal" {
		t.Fatalf("unexpected ordering: %+v", plays)
	}
	if plays[0].PrimaryPlayerID == nil || *plays[0].PrimaryPlayerID != 8478402 {
		t.Fatalf("faceoff winner should be primary, got %+v", plays[0].PrimaryPlayerID)
	}
	if plays[0].LosingPlayerID == nil || *plays[0].LosingPlayerID != 8479318 {
		t.Fatalf("faceoff loser should be kept, got %+v", plays[0].LosingPlayerID)
	}
	if plays[2].SecondaryPlayerID == nil || *plays[2].SecondaryPlayerID != 8477934 {
		t.Fatalf("first assist should be secondary, got %+v", plays[2].SecondaryPlayerID)
	}

	// The roster spots ride along so batches can carry the players
	// the plays reference.
	if len(feed.RosterSpots) != 2 {
		t.Fatalf("expected 2 roster spots, got %d", len(feed.RosterSpots))
	}
	if feed.RosterSpots[0].PlayerID != 8478402 || feed.RosterSpots[0].TeamID != 22 {
		t.Fatalf("unexpected roster spot: %+v", feed.RosterSpots[0])
	}
	if feed.RosterSpots[0].LastName != "McDavid" || feed.RosterSpots[0].Number != 97 {
		t.Fatalf("unexpected roster spot mapping: %+v", feed.RosterSpots[0])
	}

	if len(raw) != 1 || raw[0].GameID != 2025020076 {
		t.Fatalf("expected play-by-play payload retained, got %+v", raw)
	}
}

func TestFetchBoxscore_RetriesRateLimitThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 2025020076,
			"season": 20252026,
			"gameType": 2,
			"startTimeUTC": "2026-01-16T00:00:00Z",
			"gameState": "LIVE",
			"periodDescriptor": {"number": 2},
			"clock": {"timeRemaining": "12:34"},
			"homeTeam": {"id": 10, "score": 2, "sog": 18},
			"awayTeam": {"id": 22, "score": 1, "sog": 14}
		}`))
	}))
	defer srv.Close()

	box, _, err := testClient(srv).FetchBoxscore(context.Background(), 2025020076)
	if err != nil {
		t.Fatalf("fetch boxscore: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if box.Period != 2 || box.HomeScore != 2 || box.AwayShotsOnGoal != 14 {
		t.Fatalf("unexpected boxscore: %+v", box)
	}
}

func TestFetchBoxscore_RateLimitExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, err := testClient(srv).FetchBoxscore(context.Background(), 2025020076)
	if !errors.Is(err, usecase.ErrUpstreamRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected retries to stop at max attempts, got %d", got)
	}
}

func TestFetchBoxscore_NotFoundDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := testClient(srv).FetchBoxscore(context.Background(), 2025020076)
	if !errors.Is(err, usecase.ErrUpstreamNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("404 must not retry, got %d attempts", got)
	}
}

func TestFetchBoxscore_ServerErrorsSurfaceAsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := testClient(srv).FetchBoxscore(context.Background(), 2025020076)
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestDoJSON_MalformedPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"plays": "not-a-list"`))
	}))
	defer srv.Close()

	_, _, err := testClient(srv).FetchPlayByPlay(context.Background(), 2025020076)
	if !errors.Is(err, usecase.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}

func TestDoJSON_CircuitBreakerRejectsWhileOpen(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		MaxAttempts: 1,
		BackoffBase: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, _, err := client.FetchBoxscore(context.Background(), 2025020076); !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected unavailable from failing feed, got %v", err)
	}
	if _, _, err := client.FetchBoxscore(context.Background(), 2025020076); !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected breaker rejection, got %v", err)
	}
}

func TestBackoffDelay_IsCapped(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{
		BackoffBase: time.Second,
		BackoffCap:  30 * time.Second,
	})

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for attempt, expected := range want {
		if got := c.backoffDelay(attempt); got != expected {
			t.Fatalf("attempt %d: got %s, want %s", attempt, got, expected)
		}
	}
}
