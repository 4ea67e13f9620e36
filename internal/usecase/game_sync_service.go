package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/icetrack/icetrack/internal/platform/logging"
)

const (
	syncStatusSynced  = "synced"
	syncStatusSkipped = "skipped"
)

type GameSyncResult struct {
	GameID        int64  `json:"game_id"`
	Status        string `json:"status"`
	GameState     string `json:"game_state,omitempty"`
	PlaysInserted int    `json:"plays_inserted"`
	PlaysExisting int    `json:"plays_existing"`
	AnomalyCount  int    `json:"anomaly_count"`
	Corrected     bool   `json:"corrected"`
	DurationMs    int64  `json:"duration_ms"`
}

// GameSyncService pulls one game's boxscore and play-by-play from the
// upstream feed and applies them as a single batch. At most one sync
// runs per game at a time; an overlapping request is skipped rather
// than queued, the next poll tick will pick the game up again.
type GameSyncService struct {
	provider  UpstreamProvider
	ingestion *IngestionService
	logger    *logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	inflight map[int64]struct{}
}

func NewGameSyncService(
	provider UpstreamProvider,
	ingestion *IngestionService,
	logger *logging.Logger,
) *GameSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameSyncService{
		provider:  provider,
		ingestion: ingestion,
		logger:    logger,
		now:       time.Now,
		inflight:  make(map[int64]struct{}),
	}
}

func (s *GameSyncService) acquire(gameID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[gameID]; busy {
		return false
	}
	s.inflight[gameID] = struct{}{}
	return true
}

func (s *GameSyncService) release(gameID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, gameID)
}

func (s *GameSyncService) SyncGame(ctx context.Context, gameID int64) (GameSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.SyncGame")
	defer span.End()

	if gameID <= 0 {
		return GameSyncResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if !s.acquire(gameID) {
		s.logger.DebugContext(ctx, "game sync already in flight, skipping", "game_id", gameID)
		return GameSyncResult{GameID: gameID, Status: syncStatusSkipped}, nil
	}
	defer s.release(gameID)

	start := s.now()
	result := GameSyncResult{GameID: gameID, Status: syncStatusSynced}

	report, state, err := s.fetchAndApply(ctx, gameID, false)
	if err != nil {
		return GameSyncResult{}, err
	}
	result.GameState = state
	result.PlaysInserted = report.PlaysInserted
	result.PlaysExisting = report.PlaysExisting
	result.AnomalyCount = len(report.Anomalies)

	if report.ResyncRequired {
		s.logger.WarnContext(ctx, "stored plays disagree with feed, replaying as correction", "game_id", gameID)
		corrected, _, err := s.fetchAndApply(ctx, gameID, true)
		if err != nil {
			return GameSyncResult{}, fmt.Errorf("correction pass game %d: %w", gameID, err)
		}
		result.Corrected = true
		result.PlaysInserted += corrected.PlaysInserted
		result.AnomalyCount += len(corrected.Anomalies)
	}

	result.DurationMs = s.now().Sub(start).Milliseconds()
	return result, nil
}

func (s *GameSyncService) fetchAndApply(ctx context.Context, gameID int64, correction bool) (ApplyReport, string, error) {
	box, boxRaw, err := s.provider.FetchBoxscore(ctx, gameID)
	if err != nil {
		return ApplyReport{}, "", fmt.Errorf("fetch boxscore game %d: %w", gameID, err)
	}
	g, err := MapBoxscoreGame(box)
	if err != nil {
		return ApplyReport{}, "", err
	}

	feed, feedRaw, err := s.provider.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return ApplyReport{}, "", fmt.Errorf("fetch play-by-play game %d: %w", gameID, err)
	}
	plays, err := MapPlays(gameID, feed.Plays)
	if err != nil {
		return ApplyReport{}, "", err
	}
	players, err := MapGamePlayers(gameID, feed.RosterSpots)
	if err != nil {
		return ApplyReport{}, "", err
	}

	// Teams and players referenced by the game and its plays ride in
	// the same batch, so a first-sight game commits with its foreign
	// keys satisfied.
	batch := Batch{
		Teams:       MapBoxscoreTeams(box),
		Players:     players,
		Game:        &g,
		Plays:       plays,
		Correction:  correction,
		RawPayloads: append(boxRaw, feedRaw...),
	}
	report, err := s.ingestion.ApplyBatch(ctx, batch)
	if err != nil {
		return ApplyReport{}, "", err
	}

	return report, g.State, nil
}
