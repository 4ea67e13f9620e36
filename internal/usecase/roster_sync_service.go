package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/icetrack/icetrack/internal/domain/team"
	"github.com/icetrack/icetrack/internal/platform/logging"
)

type RosterSyncResult struct {
	TeamCount      int   `json:"team_count"`
	PlayersSynced  int   `json:"players_synced"`
	FailedTeams    int   `json:"failed_teams"`
	DurationMillis int64 `json:"duration_ms"`
}

// RosterSyncService refreshes player rows team by team. Rosters move
// slowly, so this runs on demand rather than on a poll cadence.
type RosterSyncService struct {
	provider  UpstreamProvider
	ingestion *IngestionService
	teamRepo  team.Repository
	workers   int
	logger    *logging.Logger
	now       func() time.Time
}

func NewRosterSyncService(
	provider UpstreamProvider,
	ingestion *IngestionService,
	teamRepo team.Repository,
	workers int,
	logger *logging.Logger,
) *RosterSyncService {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterSyncService{
		provider:  provider,
		ingestion: ingestion,
		teamRepo:  teamRepo,
		workers:   workers,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *RosterSyncService) SyncRosters(ctx context.Context, season int) (RosterSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterSyncService.SyncRosters")
	defer span.End()

	if season <= 0 {
		return RosterSyncResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return RosterSyncResult{}, fmt.Errorf("list teams: %w", err)
	}

	start := s.now()
	result := RosterSyncResult{TeamCount: len(teams)}
	if len(teams) == 0 {
		return result, nil
	}

	var playersSynced atomic.Int64
	var failedTeams atomic.Int32

	p := pool.New().WithMaxGoroutines(s.workers)
	for _, t := range teams {
		t := t
		p.Go(func() {
			count, err := s.syncTeamRoster(ctx, t, season)
			if err != nil {
				failedTeams.Add(1)
				s.logger.ErrorContext(ctx, "roster sync failed", "team_id", t.ID, "team_abbrev", t.Abbrev, "error", err)
				return
			}
			playersSynced.Add(int64(count))
		})
	}
	p.Wait()

	result.PlayersSynced = int(playersSynced.Load())
	result.FailedTeams = int(failedTeams.Load())
	result.DurationMillis = s.now().Sub(start).Milliseconds()

	return result, nil
}

func (s *RosterSyncService) syncTeamRoster(ctx context.Context, t team.Team, season int) (int, error) {
	feed, raw, err := s.provider.FetchRoster(ctx, t.Abbrev, season)
	if err != nil {
		return 0, fmt.Errorf("fetch roster %s: %w", t.Abbrev, err)
	}

	players, err := MapRosterPlayers(t.ID, feed)
	if err != nil {
		return 0, err
	}
	if len(players) == 0 {
		return 0, nil
	}

	if _, err := s.ingestion.ApplyBatch(ctx, Batch{Players: players, RawPayloads: raw}); err != nil {
		return 0, fmt.Errorf("apply roster %s: %w", t.Abbrev, err)
	}

	return len(players), nil
}
