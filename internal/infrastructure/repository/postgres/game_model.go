package postgres

import (
	"time"

	"github.com/icetrack/icetrack/internal/domain/game"
)

type gameTableModel struct {
	ID                  int64      `db:"id"`
	Season              int        `db:"season"`
	GameType            int        `db:"game_type"`
	StartTimeUTC        time.Time  `db:"start_time_utc"`
	Venue               string     `db:"venue"`
	HomeTeamID          int64      `db:"home_team_id"`
	AwayTeamID          int64      `db:"away_team_id"`
	State               string     `db:"state"`
	Period              int        `db:"period"`
	Clock               string     `db:"clock"`
	HomeScore           int        `db:"home_score"`
	AwayScore           int        `db:"away_score"`
	HomeSOG             int        `db:"home_sog"`
	AwaySOG             int        `db:"away_sog"`
	PlayCount           int        `db:"play_count"`
	LastSyncedAt        *time.Time `db:"last_synced_at"`
	TerminalConfirmedAt *time.Time `db:"terminal_confirmed_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:                  m.ID,
		Season:              m.Season,
		Type:                m.GameType,
		StartTimeUTC:        m.StartTimeUTC.UTC(),
		Venue:               m.Venue,
		HomeTeamID:          m.HomeTeamID,
		AwayTeamID:          m.AwayTeamID,
		State:               m.State,
		Period:              m.Period,
		Clock:               m.Clock,
		HomeScore:           m.HomeScore,
		AwayScore:           m.AwayScore,
		HomeShotsOnGoal:     m.HomeSOG,
		AwayShotsOnGoal:     m.AwaySOG,
		PlayCount:           m.PlayCount,
		LastSyncedAt:        m.LastSyncedAt,
		TerminalConfirmedAt: m.TerminalConfirmedAt,
	}
}
