package postgres

import (
	"time"

	"github.com/icetrack/icetrack/internal/domain/play"
)

type playTableModel struct {
	ID                int64     `db:"id"`
	GameID            int64     `db:"game_id"`
	SequenceIndex     int       `db:"sequence_index"`
	TeamID            *int64    `db:"team_id"`
	PrimaryPlayerID   *int64    `db:"primary_player_id"`
	SecondaryPlayerID *int64    `db:"secondary_player_id"`
	TertiaryPlayerID  *int64    `db:"tertiary_player_id"`
	LosingPlayerID    *int64    `db:"losing_player_id"`
	Period            int       `db:"period"`
	TimeInPeriod      string    `db:"time_in_period"`
	TimeRemaining     string    `db:"time_remaining"`
	TypeKey           string    `db:"type_key"`
	Zone              string    `db:"zone"`
	XCoord            *int      `db:"x_coord"`
	YCoord            *int      `db:"y_coord"`
	CreatedAt         time.Time `db:"created_at"`
}

func (m playTableModel) toDomain() play.Play {
	return play.Play{
		ID:                m.ID,
		GameID:            m.GameID,
		SequenceIndex:     m.SequenceIndex,
		TeamID:            m.TeamID,
		PrimaryPlayerID:   m.PrimaryPlayerID,
		SecondaryPlayerID: m.SecondaryPlayerID,
		TertiaryPlayerID:  m.TertiaryPlayerID,
		LosingPlayerID:    m.LosingPlayerID,
		Period:            m.Period,
		TimeInPeriod:      m.TimeInPeriod,
		TimeRemaining:     m.TimeRemaining,
		Type:              m.TypeKey,
		Zone:              m.Zone,
		XCoord:            m.XCoord,
		YCoord:            m.YCoord,
	}
}
