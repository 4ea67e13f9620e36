package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	gamemock "github.com/icetrack/icetrack/internal/mocks/domain/game"
	usecasemock "github.com/icetrack/icetrack/internal/mocks/usecase"
	"github.com/icetrack/icetrack/internal/usecase"
)

func TestGameSyncService_SyncGame_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewUpstreamProvider(t)
	writer := usecasemock.NewBatchWriter(t)

	gameID := int64(2025020076)
	start := time.Date(2025, 10, 18, 23, 0, 0, 0, time.UTC)

	provider.
		On("FetchBoxscore", mock.Anything, gameID).
		Return(usecase.UpstreamBoxscore{
			GameID:         gameID,
			Season:         20252026,
			GameType:       2,
			StartTimeUTC:   start,
			HomeTeamID:     10,
			HomeTeamName:   "Maple Leafs",
			HomeTeamAbbrev: "TOR",
			AwayTeamID:     22,
			AwayTeamName:   "Oilers",
			AwayTeamAbbrev: "EDM",
			GameState:      "LIVE",
			Period:         2,
			Clock:          "12:34",
			HomeScore:      2,
			AwayScore:      1,
		}, nil, nil).
		Once()
	provider.
		On("FetchPlayByPlay", mock.Anything, gameID).
		Return(usecase.UpstreamPlayByPlay{
			Plays: []usecase.UpstreamPlay{
				{SequenceIndex: 1, Period: 1, TypeKey: "faceoff"},
				{SequenceIndex: 2, Period: 1, TypeKey: "shot-on-goal"},
			},
		}, nil, nil).
		Once()
	writer.
		On("ApplyBatch", mock.Anything, mock.MatchedBy(func(b usecase.Batch) bool {
			return b.Game != nil && b.Game.ID == gameID && len(b.Plays) == 2 && !b.Correction
		})).
		Return(usecase.ApplyReport{PlaysInserted: 2}, nil).
		Once()

	service := usecase.NewGameSyncService(provider, usecase.NewIngestionService(writer), nil)

	result, err := service.SyncGame(ctx, gameID)
	if err != nil {
		t.Fatalf("sync game: %v", err)
	}
	if result.Status != "synced" {
		t.Fatalf("unexpected status: %q", result.Status)
	}
	if result.PlaysInserted != 2 {
		t.Fatalf("unexpected plays inserted: %d", result.PlaysInserted)
	}
	if result.Corrected {
		t.Fatalf("did not expect a correction pass")
	}
}

func TestGameSyncService_SyncGame_ResyncTriggersCorrectionUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewUpstreamProvider(t)
	writer := usecasemock.NewBatchWriter(t)

	gameID := int64(2025020077)
	start := time.Date(2025, 10, 19, 23, 0, 0, 0, time.UTC)
	box := usecase.UpstreamBoxscore{
		GameID:         gameID,
		Season:         20252026,
		GameType:       2,
		StartTimeUTC:   start,
		HomeTeamID:     10,
		HomeTeamName:   "Maple Leafs",
		HomeTeamAbbrev: "TOR",
		AwayTeamID:     22,
		AwayTeamName:   "Oilers",
		AwayTeamAbbrev: "EDM",
		GameState:      "LIVE",
	}
	feed := usecase.UpstreamPlayByPlay{
		Plays: []usecase.UpstreamPlay{{SequenceIndex: 1, Period: 1, TypeKey: "faceoff"}},
	}

	provider.On("FetchBoxscore", mock.Anything, gameID).Return(box, nil, nil).Twice()
	provider.On("FetchPlayByPlay", mock.Anything, gameID).Return(feed, nil, nil).Twice()
	writer.
		On("ApplyBatch", mock.Anything, mock.MatchedBy(func(b usecase.Batch) bool { return !b.Correction })).
		Return(usecase.ApplyReport{ResyncRequired: true}, nil).
		Once()
	writer.
		On("ApplyBatch", mock.Anything, mock.MatchedBy(func(b usecase.Batch) bool { return b.Correction })).
		Return(usecase.ApplyReport{PlaysInserted: 1}, nil).
		Once()

	service := usecase.NewGameSyncService(provider, usecase.NewIngestionService(writer), nil)

	result, err := service.SyncGame(ctx, gameID)
	if err != nil {
		t.Fatalf("sync game: %v", err)
	}
	if !result.Corrected {
		t.Fatalf("expected a correction pass")
	}
	if result.PlaysInserted != 1 {
		t.Fatalf("unexpected plays inserted: %d", result.PlaysInserted)
	}
}

func TestSchedulerService_RunLiveCycle_PollableFetchFailsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewUpstreamProvider(t)
	writer := usecasemock.NewBatchWriter(t)
	gameRepo := gamemock.NewRepository(t)

	gameRepo.
		On("ListPollable", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db gone")).
		Once()

	gameSync := usecase.NewGameSyncService(provider, usecase.NewIngestionService(writer), nil)
	scheduler := usecase.NewSchedulerService(provider, usecase.NewIngestionService(writer), gameSync, gameRepo, usecase.SchedulerConfig{}, nil)

	if _, err := scheduler.RunLiveCycle(ctx); err == nil {
		t.Fatalf("expected error when pollable listing fails")
	}
}
