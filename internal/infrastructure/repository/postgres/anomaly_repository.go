package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	qb "github.com/icetrack/icetrack/internal/platform/querybuilder"
)

type AnomalyRepository struct {
	db *sqlx.DB
}

func NewAnomalyRepository(db *sqlx.DB) *AnomalyRepository {
	return &AnomalyRepository{db: db}
}

func (r *AnomalyRepository) ListByGame(ctx context.Context, gameID int64) ([]anomaly.Anomaly, error) {
	query, args, err := qb.Select("*").From("anomalies").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select anomalies query: %w", err)
	}

	var rows []anomalyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select anomalies for game %d: %w", gameID, err)
	}

	out := make([]anomaly.Anomaly, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *AnomalyRepository) ListRecent(ctx context.Context, limit int) ([]anomaly.Anomaly, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := qb.Select("*").From("anomalies").
		OrderBy("id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent anomalies query: %w", err)
	}

	var rows []anomalyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent anomalies: %w", err)
	}

	out := make([]anomaly.Anomaly, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
