package postgres

import (
	"time"

	"github.com/icetrack/icetrack/internal/domain/team"
)

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	City      string    `db:"city"`
	Abbrev    string    `db:"abbrev"`
	LogoURL   string    `db:"logo_url"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:       m.ID,
		Name:     m.Name,
		City:     m.City,
		Abbrev:   m.Abbrev,
		LogoURL:  m.LogoURL,
		IsActive: m.IsActive,
	}
}
