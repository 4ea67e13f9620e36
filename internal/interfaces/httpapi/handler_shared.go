package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/team"
	"github.com/icetrack/icetrack/internal/usecase"
)

type teamDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Abbrev   string `json:"abbrev"`
	LogoURL  string `json:"logoUrl,omitempty"`
	IsActive bool   `json:"isActive"`
}

type playerDTO struct {
	ID          int64  `json:"id"`
	TeamID      *int64 `json:"teamId,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Number      int    `json:"number,omitempty"`
	Position    string `json:"position,omitempty"`
	HeadshotURL string `json:"headshotUrl,omitempty"`
	HomeCity    string `json:"homeCity,omitempty"`
	HomeCountry string `json:"homeCountry,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type gameDTO struct {
	ID                  int64      `json:"id"`
	Season              int        `json:"season"`
	GameType            int        `json:"gameType"`
	StartTimeUTC        time.Time  `json:"startTimeUtc"`
	Venue               string     `json:"venue,omitempty"`
	HomeTeamID          int64      `json:"homeTeamId"`
	AwayTeamID          int64      `json:"awayTeamId"`
	State               string     `json:"state"`
	Period              int        `json:"period,omitempty"`
	Clock               string     `json:"clock,omitempty"`
	HomeScore           int        `json:"homeScore"`
	AwayScore           int        `json:"awayScore"`
	HomeShotsOnGoal     int        `json:"homeSog"`
	AwayShotsOnGoal     int        `json:"awaySog"`
	PlayCount           int        `json:"playCount"`
	LastSyncedAt        *time.Time `json:"lastSyncedAt,omitempty"`
	TerminalConfirmedAt *time.Time `json:"terminalConfirmedAt,omitempty"`
}

type playDTO struct {
	ID                int64  `json:"id"`
	GameID            int64  `json:"gameId"`
	SequenceIndex     int    `json:"sequenceIndex"`
	TeamID            *int64 `json:"teamId,omitempty"`
	PrimaryPlayerID   *int64 `json:"primaryPlayerId,omitempty"`
	SecondaryPlayerID *int64 `json:"secondaryPlayerId,omitempty"`
	TertiaryPlayerID  *int64 `json:"tertiaryPlayerId,omitempty"`
	LosingPlayerID    *int64 `json:"losingPlayerId,omitempty"`
	Period            int    `json:"period"`
	TimeInPeriod      string `json:"timeInPeriod,omitempty"`
	TimeRemaining     string `json:"timeRemaining,omitempty"`
	Type              string `json:"type"`
	Zone              string `json:"zone,omitempty"`
	XCoord            *int   `json:"xCoord,omitempty"`
	YCoord            *int   `json:"yCoord,omitempty"`
}

type anomalyDTO struct {
	ID         int64     `json:"id"`
	GameID     int64     `json:"gameId"`
	Kind       string    `json:"kind"`
	Detail     string    `json:"detail"`
	ObservedAt time.Time `json:"observedAt"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:       t.ID,
		Name:     t.Name,
		City:     t.City,
		Abbrev:   t.Abbrev,
		LogoURL:  t.LogoURL,
		IsActive: t.IsActive,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		TeamID:      p.TeamID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Number:      p.Number,
		Position:    p.Position,
		HeadshotURL: p.HeadshotURL,
		HomeCity:    p.HomeCity,
		HomeCountry: p.HomeCountry,
		IsActive:    p.IsActive,
	}
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:                  g.ID,
		Season:              g.Season,
		GameType:            g.Type,
		StartTimeUTC:        g.StartTimeUTC,
		Venue:               g.Venue,
		HomeTeamID:          g.HomeTeamID,
		AwayTeamID:          g.AwayTeamID,
		State:               g.State,
		Period:              g.Period,
		Clock:               g.Clock,
		HomeScore:           g.HomeScore,
		AwayScore:           g.AwayScore,
		HomeShotsOnGoal:     g.HomeShotsOnGoal,
		AwayShotsOnGoal:     g.AwayShotsOnGoal,
		PlayCount:           g.PlayCount,
		LastSyncedAt:        g.LastSyncedAt,
		TerminalConfirmedAt: g.TerminalConfirmedAt,
	}
}

func playToDTO(p play.Play) playDTO {
	return playDTO{
		ID:                p.ID,
		GameID:            p.GameID,
		SequenceIndex:     p.SequenceIndex,
		TeamID:            p.TeamID,
		PrimaryPlayerID:   p.PrimaryPlayerID,
		SecondaryPlayerID: p.SecondaryPlayerID,
		TertiaryPlayerID:  p.TertiaryPlayerID,
		LosingPlayerID:    p.LosingPlayerID,
		Period:            p.Period,
		TimeInPeriod:      p.TimeInPeriod,
		TimeRemaining:     p.TimeRemaining,
		Type:              p.Type,
		Zone:              p.Zone,
		XCoord:            p.XCoord,
		YCoord:            p.YCoord,
	}
}

func anomalyToDTO(a anomaly.Anomaly) anomalyDTO {
	return anomalyDTO{
		ID:         a.ID,
		GameID:     a.GameID,
		Kind:       a.Kind,
		Detail:     a.Detail,
		ObservedAt: a.ObservedAt,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func queryDate(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must use the YYYY-MM-DD format", usecase.ErrInvalidInput, name)
	}
	return day.UTC(), nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(raw)
	if err != nil || out < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return out, nil
}
