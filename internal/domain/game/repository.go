package game

import (
	"context"
	"time"
)

// Repository exposes game read operations used by the sync loops.
type Repository interface {
	GetByID(ctx context.Context, gameID int64) (Game, bool, error)
	ListByDate(ctx context.Context, day time.Time) ([]Game, error)
	// ListPollable returns games that still need live polling: anything
	// live or about to start, plus terminal games awaiting their
	// confirmatory fetch.
	ListPollable(ctx context.Context, now time.Time, startingWithin time.Duration) ([]Game, error)
}
