package team

import "fmt"

// Team is one NHL franchise.
type Team struct {
	ID       int64
	Name     string
	City     string
	Abbrev   string
	LogoURL  string
	IsActive bool
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Abbrev == "" {
		return fmt.Errorf("team abbrev is required")
	}

	return nil
}
