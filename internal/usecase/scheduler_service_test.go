package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
)

func scheduleEntry(gameID int64, start time.Time) UpstreamScheduleGame {
	return UpstreamScheduleGame{
		GameID:         gameID,
		Season:         20252026,
		GameType:       game.TypeRegular,
		StartTimeUTC:   start,
		HomeTeamID:     10,
		HomeTeamName:   "Maple Leafs",
		HomeTeamAbbrev: "TOR",
		AwayTeamID:     22,
		AwayTeamName:   "Oilers",
		AwayTeamAbbrev: "EDM",
		GameState:      "FUT",
	}
}

func TestSchedulerService_RunScheduleSync(t *testing.T) {
	t.Parallel()

	day0 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	provider := stubProvider{
		scheduleFn: func(day time.Time) ([]UpstreamScheduleGame, []rawdata.Payload, error) {
			if !day.Equal(day0) {
				return nil, nil, nil
			}
			return []UpstreamScheduleGame{
				scheduleEntry(2025020076, day0.Add(19*time.Hour)),
				scheduleEntry(2025020077, day0.Add(22*time.Hour)),
			}, []rawdata.Payload{{EntityType: "schedule", EntityKey: "2026-01-15", PayloadJSON: "{}"}}, nil
		},
	}
	writer := &stubWriter{}
	svc := NewSchedulerService(
		provider,
		NewIngestionService(writer),
		nil,
		stubGameRepo{},
		SchedulerConfig{LookaheadDays: 3},
		nil,
	)
	svc.now = func() time.Time { return day0.Add(6 * time.Hour) }

	result, err := svc.RunScheduleSync(context.Background())
	if err != nil {
		t.Fatalf("run schedule sync: %v", err)
	}
	if result.DaysFetched != 3 {
		t.Fatalf("expected 3 days fetched, got %d", result.DaysFetched)
	}
	if result.GamesUpserted != 2 {
		t.Fatalf("expected 2 games, got %d", result.GamesUpserted)
	}
	if result.TeamsUpserted != 2 {
		t.Fatalf("expected 2 teams, got %d", result.TeamsUpserted)
	}

	applied := writer.applied()
	if len(applied) != 3 {
		t.Fatalf("expected teams batch plus two game batches, got %d", len(applied))
	}
	if len(applied[0].Teams) != 2 || applied[0].Teams[0].ID != 10 {
		t.Fatalf("expected sorted teams batch first, got %+v", applied[0].Teams)
	}
	for _, batch := range applied[1:] {
		if batch.Game == nil || !batch.ScheduleOnly {
			t.Fatalf("expected schedule-only game batch, got %+v", batch)
		}
	}
}

func TestSchedulerService_RunLiveCycle(t *testing.T) {
	t.Parallel()

	pollable := []game.Game{
		{ID: 2025020076, State: game.StateLive},
		{ID: 2025020077, State: game.StateCritical},
	}
	provider := stubProvider{
		boxscoreFn: func(gameID int64) (UpstreamBoxscore, []rawdata.Payload, error) {
			if gameID == 2025020077 {
				return UpstreamBoxscore{}, nil, ErrUpstreamUnavailable
			}
			return liveBoxscore(gameID), nil, nil
		},
		playsFn: func(gameID int64) (UpstreamPlayByPlay, []rawdata.Payload, error) {
			return upstreamFeed(5), nil, nil
		},
	}
	writer := &stubWriter{}
	gameSync := NewGameSyncService(provider, NewIngestionService(writer), nil)
	svc := NewSchedulerService(
		provider,
		NewIngestionService(writer),
		gameSync,
		stubGameRepo{pollable: pollable},
		SchedulerConfig{Workers: 2},
		nil,
	)

	result, err := svc.RunLiveCycle(context.Background())
	if err != nil {
		t.Fatalf("run live cycle: %v", err)
	}
	if result.PollableCount != 2 {
		t.Fatalf("expected 2 pollable games, got %d", result.PollableCount)
	}
	if result.SyncedCount != 1 || result.FailedCount != 1 {
		t.Fatalf("expected one success and one failure, got %+v", result)
	}
	if result.PlaysInserted != 5 {
		t.Fatalf("expected 5 plays inserted, got %d", result.PlaysInserted)
	}
}

// One unreachable day must not block the rest of the lookahead sweep;
// the failed day is counted and retried next cycle.
func TestSchedulerService_RunScheduleSync_FailedDayDoesNotAbortSweep(t *testing.T) {
	t.Parallel()

	day0 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	provider := stubProvider{
		scheduleFn: func(day time.Time) ([]UpstreamScheduleGame, []rawdata.Payload, error) {
			if day.Equal(day0) {
				return nil, nil, ErrUpstreamUnavailable
			}
			return []UpstreamScheduleGame{
				scheduleEntry(2025020080, day.Add(19*time.Hour)),
			}, nil, nil
		},
	}
	writer := &stubWriter{}
	svc := NewSchedulerService(
		provider,
		NewIngestionService(writer),
		nil,
		stubGameRepo{},
		SchedulerConfig{LookaheadDays: 3},
		nil,
	)
	svc.now = func() time.Time { return day0.Add(6 * time.Hour) }

	result, err := svc.RunScheduleSync(context.Background())
	if err != nil {
		t.Fatalf("run schedule sync: %v", err)
	}
	if result.DaysFailed != 1 {
		t.Fatalf("expected 1 failed day, got %d", result.DaysFailed)
	}
	if result.DaysFetched != 2 {
		t.Fatalf("expected the remaining days fetched, got %d", result.DaysFetched)
	}
	if result.GamesUpserted != 2 {
		t.Fatalf("expected games from the surviving days, got %d", result.GamesUpserted)
	}
}

// A rejected pool submission fails only that game; submissions already
// accepted still run to completion and are aggregated.
func TestSchedulerService_RunLiveCycle_RejectedSubmissionDrainsInFlight(t *testing.T) {
	t.Parallel()

	pollable := []game.Game{
		{ID: 2025020076, State: game.StateLive},
		{ID: 2025020077, State: game.StateLive},
	}
	provider := stubProvider{
		boxscoreFn: func(gameID int64) (UpstreamBoxscore, []rawdata.Payload, error) {
			return liveBoxscore(gameID), nil, nil
		},
		playsFn: func(gameID int64) (UpstreamPlayByPlay, []rawdata.Payload, error) {
			return upstreamFeed(2), nil, nil
		},
	}
	writer := &stubWriter{}
	gameSync := NewGameSyncService(provider, NewIngestionService(writer), nil)
	svc := NewSchedulerService(
		provider,
		NewIngestionService(writer),
		gameSync,
		stubGameRepo{pollable: pollable},
		SchedulerConfig{Workers: 2},
		nil,
	)
	svc.newPool = func(size int) (*ants.Pool, error) {
		p, err := ants.NewPool(size)
		if err != nil {
			return nil, err
		}
		p.Release()
		return p, nil
	}

	result, err := svc.RunLiveCycle(context.Background())
	if err != nil {
		t.Fatalf("run live cycle: %v", err)
	}
	if result.FailedCount != len(pollable) {
		t.Fatalf("expected every rejected game counted as failed, got %+v", result)
	}
	if result.SyncedCount != 0 {
		t.Fatalf("expected no synced games from a closed pool, got %+v", result)
	}
}

func TestSchedulerService_RunLiveCycle_EmptyPollSet(t *testing.T) {
	t.Parallel()

	svc := NewSchedulerService(
		stubProvider{},
		NewIngestionService(&stubWriter{}),
		nil,
		stubGameRepo{},
		SchedulerConfig{},
		nil,
	)

	result, err := svc.RunLiveCycle(context.Background())
	if err != nil {
		t.Fatalf("run live cycle: %v", err)
	}
	if result.PollableCount != 0 || result.SyncedCount != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
