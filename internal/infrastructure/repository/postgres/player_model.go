package postgres

import (
	"time"

	"github.com/icetrack/icetrack/internal/domain/player"
)

type playerTableModel struct {
	ID          int64     `db:"id"`
	TeamID      *int64    `db:"team_id"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	Number      int       `db:"number"`
	Position    string    `db:"position"`
	HeadshotURL string    `db:"headshot_url"`
	HomeCity    string    `db:"home_city"`
	HomeCountry string    `db:"home_country"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          m.ID,
		TeamID:      m.TeamID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Number:      m.Number,
		Position:    m.Position,
		HeadshotURL: m.HeadshotURL,
		HomeCity:    m.HomeCity,
		HomeCountry: m.HomeCountry,
		IsActive:    m.IsActive,
	}
}
