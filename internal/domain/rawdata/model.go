package rawdata

import "time"

type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	GameID      int64
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
