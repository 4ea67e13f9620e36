package nhlapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/icetrack/icetrack/internal/usecase"
)

type localizedName struct {
	Default string `json:"default"`
}

type scheduleEnvelope struct {
	GameWeek []scheduleDay `json:"gameWeek"`
}

type scheduleDay struct {
	Date  string             `json:"date"`
	Games []scheduleGameItem `json:"games"`
}

type scheduleGameItem struct {
	ID           int64         `json:"id"`
	Season       int           `json:"season"`
	GameType     int           `json:"gameType"`
	StartTimeUTC time.Time     `json:"startTimeUTC"`
	Venue        localizedName `json:"venue"`
	GameState    string        `json:"gameState"`
	HomeTeam     scheduleTeam  `json:"homeTeam"`
	AwayTeam     scheduleTeam  `json:"awayTeam"`
}

type scheduleTeam struct {
	ID         int64         `json:"id"`
	PlaceName  localizedName `json:"placeName"`
	CommonName localizedName `json:"commonName"`
	Abbrev     string        `json:"abbrev"`
	Logo       string        `json:"logo"`
}

type boxscoreEnvelope struct {
	ID               int64            `json:"id"`
	Season           int              `json:"season"`
	GameType         int              `json:"gameType"`
	StartTimeUTC     time.Time        `json:"startTimeUTC"`
	Venue            localizedName    `json:"venue"`
	GameState        string           `json:"gameState"`
	PeriodDescriptor periodDescriptor `json:"periodDescriptor"`
	Clock            clockInfo        `json:"clock"`
	HomeTeam         boxscoreTeam     `json:"homeTeam"`
	AwayTeam         boxscoreTeam     `json:"awayTeam"`
}

type periodDescriptor struct {
	Number int `json:"number"`
}

type clockInfo struct {
	TimeRemaining string `json:"timeRemaining"`
}

type boxscoreTeam struct {
	ID         int64         `json:"id"`
	CommonName localizedName `json:"commonName"`
	PlaceName  localizedName `json:"placeName"`
	Abbrev     string        `json:"abbrev"`
	Logo       string        `json:"logo"`
	Score      int           `json:"score"`
	SOG        int           `json:"sog"`
}

type playByPlayEnvelope struct {
	RosterSpots []rosterSpotItem `json:"rosterSpots"`
	Plays       []playItem       `json:"plays"`
}

type rosterSpotItem struct {
	TeamID        int64         `json:"teamId"`
	PlayerID      int64         `json:"playerId"`
	FirstName     localizedName `json:"firstName"`
	LastName      localizedName `json:"lastName"`
	SweaterNumber int           `json:"sweaterNumber"`
	PositionCode  string        `json:"positionCode"`
	Headshot      string        `json:"headshot"`
}

type playItem struct {
	SortOrder        int              `json:"sortOrder"`
	TypeDescKey      string           `json:"typeDescKey"`
	PeriodDescriptor periodDescriptor `json:"periodDescriptor"`
	TimeInPeriod     string           `json:"timeInPeriod"`
	TimeRemaining    string           `json:"timeRemaining"`
	Details          playDetails      `json:"details"`
}

type playDetails struct {
	EventOwnerTeamID    *int64 `json:"eventOwnerTeamId"`
	XCoord              *int   `json:"xCoord"`
	YCoord              *int   `json:"yCoord"`
	ZoneCode            string `json:"zoneCode"`
	WinningPlayerID     *int64 `json:"winningPlayerId"`
	LosingPlayerID      *int64 `json:"losingPlayerId"`
	ScoringPlayerID     *int64 `json:"scoringPlayerId"`
	Assist1PlayerID     *int64 `json:"assist1PlayerId"`
	Assist2PlayerID     *int64 `json:"assist2PlayerId"`
	ShootingPlayerID    *int64 `json:"shootingPlayerId"`
	GoalieInNetID       *int64 `json:"goalieInNetId"`
	HittingPlayerID     *int64 `json:"hittingPlayerId"`
	HitteePlayerID      *int64 `json:"hitteePlayerId"`
	CommittedByPlayerID *int64 `json:"committedByPlayerId"`
	DrawnByPlayerID     *int64 `json:"drawnByPlayerId"`
	BlockingPlayerID    *int64 `json:"blockingPlayerId"`
	PlayerID            *int64 `json:"playerId"`
}

type rosterEnvelope struct {
	Forwards   []rosterItem `json:"forwards"`
	Defensemen []rosterItem `json:"defensemen"`
	Goalies    []rosterItem `json:"goalies"`
}

type rosterItem struct {
	ID            int64         `json:"id"`
	FirstName     localizedName `json:"firstName"`
	LastName      localizedName `json:"lastName"`
	SweaterNumber int           `json:"sweaterNumber"`
	PositionCode  string        `json:"positionCode"`
	Headshot      string        `json:"headshot"`
	BirthCity     localizedName `json:"birthCity"`
	BirthCountry  string        `json:"birthCountry"`
}

func mapScheduleItem(item scheduleGameItem) (usecase.UpstreamScheduleGame, error) {
	if item.ID <= 0 {
		return usecase.UpstreamScheduleGame{}, fmt.Errorf("%w: schedule game without id", usecase.ErrMalformedPayload)
	}
	if item.HomeTeam.ID <= 0 || item.AwayTeam.ID <= 0 {
		return usecase.UpstreamScheduleGame{}, fmt.Errorf("%w: schedule game %d without team ids", usecase.ErrMalformedPayload, item.ID)
	}
	if item.StartTimeUTC.IsZero() {
		return usecase.UpstreamScheduleGame{}, fmt.Errorf("%w: schedule game %d without start time", usecase.ErrMalformedPayload, item.ID)
	}

	return usecase.UpstreamScheduleGame{
		GameID:         item.ID,
		Season:         item.Season,
		GameType:       item.GameType,
		StartTimeUTC:   item.StartTimeUTC.UTC(),
		Venue:          strings.TrimSpace(item.Venue.Default),
		HomeTeamID:     item.HomeTeam.ID,
		HomeTeamName:   strings.TrimSpace(item.HomeTeam.CommonName.Default),
		HomeTeamCity:   strings.TrimSpace(item.HomeTeam.PlaceName.Default),
		HomeTeamAbbrev: strings.TrimSpace(item.HomeTeam.Abbrev),
		HomeTeamLogo:   strings.TrimSpace(item.HomeTeam.Logo),
		AwayTeamID:     item.AwayTeam.ID,
		AwayTeamName:   strings.TrimSpace(item.AwayTeam.CommonName.Default),
		AwayTeamCity:   strings.TrimSpace(item.AwayTeam.PlaceName.Default),
		AwayTeamAbbrev: strings.TrimSpace(item.AwayTeam.Abbrev),
		AwayTeamLogo:   strings.TrimSpace(item.AwayTeam.Logo),
		GameState:      strings.TrimSpace(item.GameState),
	}, nil
}

func mapBoxscore(gameID int64, envelope boxscoreEnvelope) (usecase.UpstreamBoxscore, error) {
	if envelope.ID != gameID {
		return usecase.UpstreamBoxscore{}, fmt.Errorf("%w: boxscore carries game %d, requested %d", usecase.ErrMalformedPayload, envelope.ID, gameID)
	}
	if envelope.HomeTeam.ID <= 0 || envelope.AwayTeam.ID <= 0 {
		return usecase.UpstreamBoxscore{}, fmt.Errorf("%w: boxscore %d without team ids", usecase.ErrMalformedPayload, gameID)
	}

	return usecase.UpstreamBoxscore{
		GameID:          envelope.ID,
		Season:          envelope.Season,
		GameType:        envelope.GameType,
		StartTimeUTC:    envelope.StartTimeUTC.UTC(),
		Venue:           strings.TrimSpace(envelope.Venue.Default),
		HomeTeamID:      envelope.HomeTeam.ID,
		HomeTeamName:    strings.TrimSpace(envelope.HomeTeam.CommonName.Default),
		HomeTeamCity:    strings.TrimSpace(envelope.HomeTeam.PlaceName.Default),
		HomeTeamAbbrev:  strings.TrimSpace(envelope.HomeTeam.Abbrev),
		HomeTeamLogo:    strings.TrimSpace(envelope.HomeTeam.Logo),
		AwayTeamID:      envelope.AwayTeam.ID,
		AwayTeamName:    strings.TrimSpace(envelope.AwayTeam.CommonName.Default),
		AwayTeamCity:    strings.TrimSpace(envelope.AwayTeam.PlaceName.Default),
		AwayTeamAbbrev:  strings.TrimSpace(envelope.AwayTeam.Abbrev),
		AwayTeamLogo:    strings.TrimSpace(envelope.AwayTeam.Logo),
		GameState:       strings.TrimSpace(envelope.GameState),
		Period:          envelope.PeriodDescriptor.Number,
		Clock:           strings.TrimSpace(envelope.Clock.TimeRemaining),
		HomeScore:       envelope.HomeTeam.Score,
		AwayScore:       envelope.AwayTeam.Score,
		HomeShotsOnGoal: envelope.HomeTeam.SOG,
		AwayShotsOnGoal: envelope.AwayTeam.SOG,
	}, nil
}

// mapPlayItem renumbers plays positionally: sequenceIndex is the
// play's position in sortOrder, which keeps the run gapless even
// when the feed's own ordinals skip.
func mapPlayItem(gameID int64, sequenceIndex int, item playItem) (usecase.UpstreamPlay, error) {
	typeKey := strings.TrimSpace(item.TypeDescKey)
	if typeKey == "" {
		return usecase.UpstreamPlay{}, fmt.Errorf("%w: game %d play %d without type", usecase.ErrMalformedPayload, gameID, sequenceIndex)
	}

	primary, secondary, tertiary := resolvePlayPlayers(item.Details)

	return usecase.UpstreamPlay{
		SequenceIndex:     sequenceIndex,
		TeamID:            item.Details.EventOwnerTeamID,
		PrimaryPlayerID:   primary,
		SecondaryPlayerID: secondary,
		TertiaryPlayerID:  tertiary,
		LosingPlayerID:    item.Details.LosingPlayerID,
		Period:            item.PeriodDescriptor.Number,
		TimeInPeriod:      strings.TrimSpace(item.TimeInPeriod),
		TimeRemaining:     strings.TrimSpace(item.TimeRemaining),
		TypeKey:           typeKey,
		Zone:              strings.TrimSpace(item.Details.ZoneCode),
		XCoord:            item.Details.XCoord,
		YCoord:            item.Details.YCoord,
	}, nil
}

// resolvePlayPlayers collapses the feed's per-type player fields into
// the generic primary/secondary/tertiary slots.
func resolvePlayPlayers(details playDetails) (*int64, *int64, *int64) {
	primary := firstPlayerID(
		details.ScoringPlayerID,
		details.ShootingPlayerID,
		details.WinningPlayerID,
		details.HittingPlayerID,
		details.CommittedByPlayerID,
		details.PlayerID,
	)
	secondary := firstPlayerID(
		details.Assist1PlayerID,
		details.HitteePlayerID,
		details.DrawnByPlayerID,
		details.BlockingPlayerID,
	)
	tertiary := firstPlayerID(
		details.Assist2PlayerID,
		details.GoalieInNetID,
	)

	return primary, secondary, tertiary
}

func firstPlayerID(candidates ...*int64) *int64 {
	for _, candidate := range candidates {
		if candidate != nil && *candidate > 0 {
			return candidate
		}
	}
	return nil
}

func mapRosterSpot(gameID int64, item rosterSpotItem) (usecase.UpstreamRosterPlayer, error) {
	if item.PlayerID <= 0 {
		return usecase.UpstreamRosterPlayer{}, fmt.Errorf("%w: game %d roster spot without player id", usecase.ErrMalformedPayload, gameID)
	}
	if strings.TrimSpace(item.LastName.Default) == "" {
		return usecase.UpstreamRosterPlayer{}, fmt.Errorf("%w: game %d roster spot %d without last name", usecase.ErrMalformedPayload, gameID, item.PlayerID)
	}

	return usecase.UpstreamRosterPlayer{
		PlayerID:    item.PlayerID,
		TeamID:      item.TeamID,
		FirstName:   strings.TrimSpace(item.FirstName.Default),
		LastName:    strings.TrimSpace(item.LastName.Default),
		Number:      item.SweaterNumber,
		Position:    strings.TrimSpace(item.PositionCode),
		HeadshotURL: strings.TrimSpace(item.Headshot),
	}, nil
}

func mapRosterItem(teamAbbrev string, item rosterItem) (usecase.UpstreamRosterPlayer, error) {
	if item.ID <= 0 {
		return usecase.UpstreamRosterPlayer{}, fmt.Errorf("%w: roster %s entry without player id", usecase.ErrMalformedPayload, teamAbbrev)
	}
	if strings.TrimSpace(item.LastName.Default) == "" {
		return usecase.UpstreamRosterPlayer{}, fmt.Errorf("%w: roster %s player %d without last name", usecase.ErrMalformedPayload, teamAbbrev, item.ID)
	}

	return usecase.UpstreamRosterPlayer{
		PlayerID:    item.ID,
		FirstName:   strings.TrimSpace(item.FirstName.Default),
		LastName:    strings.TrimSpace(item.LastName.Default),
		Number:      item.SweaterNumber,
		Position:    strings.TrimSpace(item.PositionCode),
		HeadshotURL: strings.TrimSpace(item.Headshot),
		HomeCity:    strings.TrimSpace(item.BirthCity.Default),
		HomeCountry: strings.TrimSpace(item.BirthCountry),
	}, nil
}
