package anomaly

import "context"

// Repository exposes anomaly read operations for the ops surface.
type Repository interface {
	ListByGame(ctx context.Context, gameID int64) ([]Anomaly, error)
	ListRecent(ctx context.Context, limit int) ([]Anomaly, error)
}
