package play

import "context"

// Repository exposes play read operations.
type Repository interface {
	ListByGame(ctx context.Context, gameID int64) ([]Play, error)
	CountByGame(ctx context.Context, gameID int64) (int, error)
}
