package postgres

import (
	"time"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
)

type anomalyTableModel struct {
	ID         int64     `db:"id"`
	GameID     int64     `db:"game_id"`
	Kind       string    `db:"kind"`
	Detail     string    `db:"detail"`
	ObservedAt time.Time `db:"observed_at"`
}

func (m anomalyTableModel) toDomain() anomaly.Anomaly {
	return anomaly.Anomaly{
		ID:         m.ID,
		GameID:     m.GameID,
		Kind:       m.Kind,
		Detail:     m.Detail,
		ObservedAt: m.ObservedAt.UTC(),
	}
}
