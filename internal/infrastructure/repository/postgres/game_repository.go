package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/icetrack/icetrack/internal/domain/game"
	qb "github.com/icetrack/icetrack/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game %d: %w", gameID, err)
	}

	return row.toDomain(), true, nil
}

func (r *GameRepository) ListByDate(ctx context.Context, day time.Time) ([]game.Game, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Expr("start_time_utc >= ?", dayStart),
			qb.Expr("start_time_utc < ?", dayEnd),
		).
		OrderBy("start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by date query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by date: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// ListPollable mirrors the live monitor's poll set: games in flight,
// terminal games still awaiting their confirmatory fetch, and
// scheduled games starting within the lead window. Postponed-like
// states never poll.
func (r *GameRepository) ListPollable(ctx context.Context, now time.Time, startingWithin time.Duration) ([]game.Game, error) {
	cutoff := now.UTC().Add(startingWithin)

	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Expr(`(
state IN ('LIVE', 'CRIT')
OR (state IN ('FINAL', 'OFF') AND terminal_confirmed_at IS NULL)
OR (state NOT IN ('LIVE', 'CRIT', 'FINAL', 'OFF', 'PPD', 'SUSP', 'CNCL') AND start_time_utc <= ?)
)`, cutoff),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pollable games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pollable games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
