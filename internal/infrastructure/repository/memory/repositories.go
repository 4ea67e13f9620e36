package memory

import (
	"context"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/team"
)

// The store carries all entities behind one lock; these wrappers give
// each domain repository interface its own receiver so method names
// do not collide.

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.store.List(ctx)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	return r.store.GetTeamByID(ctx, teamID)
}

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	return r.store.ListByTeam(ctx, teamID)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	return r.store.GetPlayerByID(ctx, playerID)
}

type PlayRepository struct {
	store *Store
}

func NewPlayRepository(store *Store) *PlayRepository {
	return &PlayRepository{store: store}
}

func (r *PlayRepository) ListByGame(ctx context.Context, gameID int64) ([]play.Play, error) {
	return r.store.ListPlaysByGame(ctx, gameID)
}

func (r *PlayRepository) CountByGame(ctx context.Context, gameID int64) (int, error) {
	return r.store.CountPlaysByGame(ctx, gameID)
}

type AnomalyRepository struct {
	store *Store
}

func NewAnomalyRepository(store *Store) *AnomalyRepository {
	return &AnomalyRepository{store: store}
}

func (r *AnomalyRepository) ListByGame(ctx context.Context, gameID int64) ([]anomaly.Anomaly, error) {
	return r.store.ListAnomaliesByGame(ctx, gameID)
}

func (r *AnomalyRepository) ListRecent(ctx context.Context, limit int) ([]anomaly.Anomaly, error) {
	return r.store.ListRecentAnomalies(ctx, limit)
}
