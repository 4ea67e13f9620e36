package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/icetrack/icetrack/internal/domain/play"
	qb "github.com/icetrack/icetrack/internal/platform/querybuilder"
)

type PlayRepository struct {
	db *sqlx.DB
}

func NewPlayRepository(db *sqlx.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

func (r *PlayRepository) ListByGame(ctx context.Context, gameID int64) ([]play.Play, error) {
	query, args, err := qb.Select("*").From("plays").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("period", "sequence_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select plays query: %w", err)
	}

	var rows []playTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select plays for game %d: %w", gameID, err)
	}

	out := make([]play.Play, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayRepository) CountByGame(ctx context.Context, gameID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("plays").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count plays query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count plays for game %d: %w", gameID, err)
	}

	return count, nil
}
