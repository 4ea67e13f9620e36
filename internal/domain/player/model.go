package player

import "fmt"

// Player is one skater or goalie. TeamID is nil for players without a
// current club (free agents, retirees); rows are never deleted.
type Player struct {
	ID          int64
	TeamID      *int64
	FirstName   string
	LastName    string
	Number      int
	Position    string
	HeadshotURL string
	HomeCity    string
	HomeCountry string
	IsActive    bool
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}

	return nil
}
