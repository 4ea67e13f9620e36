package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/team"
	"github.com/icetrack/icetrack/internal/platform/logging"
)

type SchedulerConfig struct {
	ScheduleInterval time.Duration
	LiveInterval     time.Duration
	PreGameLead      time.Duration
	LookaheadDays    int
	Workers          int
}

type ScheduleSyncResult struct {
	DaysFetched   int `json:"days_fetched"`
	DaysFailed    int `json:"days_failed"`
	GamesUpserted int `json:"games_upserted"`
	TeamsUpserted int `json:"teams_upserted"`
}

type LiveCycleResult struct {
	PollableCount int              `json:"pollable_count"`
	SyncedCount   int              `json:"synced_count"`
	SkippedCount  int              `json:"skipped_count"`
	FailedCount   int              `json:"failed_count"`
	PlaysInserted int              `json:"plays_inserted"`
	AnomalyCount  int              `json:"anomaly_count"`
	Games         []GameSyncResult `json:"games,omitempty"`
}

// SchedulerService owns the two polling cadences: a slow schedule
// sweep that keeps the games table ahead of the calendar, and a fast
// live cycle that syncs every pollable game. Terminal games stay in
// the poll set until one post-terminal fetch confirms them, then drop
// out.
type SchedulerService struct {
	provider  UpstreamProvider
	ingestion *IngestionService
	gameSync  *GameSyncService
	gameRepo  game.Repository
	cfg       SchedulerConfig
	logger    *logging.Logger
	now       func() time.Time
	newPool   func(size int) (*ants.Pool, error)
}

func NewSchedulerService(
	provider UpstreamProvider,
	ingestion *IngestionService,
	gameSync *GameSyncService,
	gameRepo game.Repository,
	cfg SchedulerConfig,
	logger *logging.Logger,
) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = 24 * time.Hour
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 10 * time.Minute
	}
	if cfg.PreGameLead <= 0 {
		cfg.PreGameLead = 15 * time.Minute
	}
	if cfg.LookaheadDays < 1 {
		cfg.LookaheadDays = 7
	}
	if cfg.Workers < 1 {
		cfg.Workers = 8
	}

	return &SchedulerService{
		provider:  provider,
		ingestion: ingestion,
		gameSync:  gameSync,
		gameRepo:  gameRepo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		newPool:   func(size int) (*ants.Pool, error) { return ants.NewPool(size) },
	}
}

// RunScheduleSync sweeps the lookahead window day by day and upserts
// every game and team it finds. A day that fails is logged and
// counted, the sweep moves on; the next cycle retries it. Schedule
// rows never touch live state or scores.
func (s *SchedulerService) RunScheduleSync(ctx context.Context) (ScheduleSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.RunScheduleSync")
	defer span.End()

	var result ScheduleSyncResult
	day := s.now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < s.cfg.LookaheadDays; i++ {
		if err := ctx.Err(); err != nil {
			return ScheduleSyncResult{}, err
		}

		current := day.AddDate(0, 0, i)
		if err := s.syncScheduleDay(ctx, current, &result); err != nil {
			if ctx.Err() != nil {
				return ScheduleSyncResult{}, ctx.Err()
			}
			result.DaysFailed++
			s.logger.ErrorContext(ctx, "schedule day sync failed", "day", current.Format("2006-01-02"), "error", err)
		}
	}

	return result, nil
}

func (s *SchedulerService) syncScheduleDay(ctx context.Context, current time.Time, result *ScheduleSyncResult) error {
	entries, raw, err := s.provider.FetchScheduleByDate(ctx, current)
	if err != nil {
		return fmt.Errorf("fetch schedule %s: %w", current.Format("2006-01-02"), err)
	}
	result.DaysFetched++
	if len(entries) == 0 {
		return nil
	}

	teamsByID := make(map[int64]team.Team, len(entries)*2)
	games := make([]game.Game, 0, len(entries))
	for _, entry := range entries {
		g, teams, err := MapScheduleGame(entry)
		if err != nil {
			return err
		}
		for _, t := range teams {
			teamsByID[t.ID] = t
		}
		games = append(games, g)
	}

	teams := make([]team.Team, 0, len(teamsByID))
	for _, t := range teamsByID {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })

	// Teams land first so the game rows have their references.
	if _, err := s.ingestion.ApplyBatch(ctx, Batch{Teams: teams, RawPayloads: raw}); err != nil {
		return fmt.Errorf("apply schedule teams %s: %w", current.Format("2006-01-02"), err)
	}
	result.TeamsUpserted += len(teams)

	for i := range games {
		batch := Batch{Game: &games[i], ScheduleOnly: true}
		if _, err := s.ingestion.ApplyBatch(ctx, batch); err != nil {
			return fmt.Errorf("apply schedule game %d: %w", games[i].ID, err)
		}
		result.GamesUpserted++
	}

	return nil
}

// RunLiveCycle syncs every pollable game concurrently and aggregates
// the per-game outcomes. Individual game failures are counted, not
// fatal; the next tick retries them.
func (s *SchedulerService) RunLiveCycle(ctx context.Context) (LiveCycleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.RunLiveCycle")
	defer span.End()

	games, err := s.gameRepo.ListPollable(ctx, s.now().UTC(), s.cfg.PreGameLead)
	if err != nil {
		return LiveCycleResult{}, fmt.Errorf("list pollable games: %w", err)
	}

	result := LiveCycleResult{PollableCount: len(games)}
	if len(games) == 0 {
		return result, nil
	}

	pool, err := s.newPool(s.cfg.Workers)
	if err != nil {
		return LiveCycleResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan GameSyncResult, len(games))

	var failedCount atomic.Int32
	var workers sync.WaitGroup
	for _, g := range games {
		gameID := g.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, err := s.gameSync.SyncGame(ctx, gameID)
			if err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "game sync failed", "game_id", gameID, "error", err)
				return
			}
			rows <- row
		}); err != nil {
			// A rejected submission fails only that game; syncs
			// already in flight are still drained below.
			workers.Done()
			failedCount.Add(1)
			s.logger.ErrorContext(ctx, "submit game to worker pool failed", "game_id", gameID, "error", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Games = append(result.Games, row)
		switch row.Status {
		case syncStatusSkipped:
			result.SkippedCount++
		default:
			result.SyncedCount++
			result.PlaysInserted += row.PlaysInserted
			result.AnomalyCount += row.AnomalyCount
		}
	}
	result.FailedCount = int(failedCount.Load())

	sort.Slice(result.Games, func(i, j int) bool { return result.Games[i].GameID < result.Games[j].GameID })

	return result, nil
}

// Run blocks, driving both cadences until the context is cancelled.
func (s *SchedulerService) Run(ctx context.Context) error {
	scheduleTicker := time.NewTicker(s.cfg.ScheduleInterval)
	defer scheduleTicker.Stop()
	liveTicker := time.NewTicker(s.cfg.LiveInterval)
	defer liveTicker.Stop()

	if _, err := s.RunScheduleSync(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "initial schedule sync failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-scheduleTicker.C:
			if _, err := s.RunScheduleSync(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "schedule sync failed", "error", err)
			}
		case <-liveTicker.C:
			if _, err := s.RunLiveCycle(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "live cycle failed", "error", err)
			}
		}
	}
}
