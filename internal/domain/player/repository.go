package player

import "context"

// Repository exposes player read operations.
type Repository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
}
