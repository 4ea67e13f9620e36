package usecase

import (
	"context"
	"time"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
	"github.com/icetrack/icetrack/internal/domain/team"
)

// UpstreamProvider is the league data feed as the sync services see
// it. The concrete client lives under external/ and implements this.
type UpstreamProvider interface {
	FetchScheduleByDate(ctx context.Context, day time.Time) ([]UpstreamScheduleGame, []rawdata.Payload, error)
	FetchBoxscore(ctx context.Context, gameID int64) (UpstreamBoxscore, []rawdata.Payload, error)
	FetchPlayByPlay(ctx context.Context, gameID int64) (UpstreamPlayByPlay, []rawdata.Payload, error)
	FetchRoster(ctx context.Context, teamAbbrev string, season int) ([]UpstreamRosterPlayer, []rawdata.Payload, error)
}

type UpstreamScheduleGame struct {
	GameID         int64
	Season         int
	GameType       int
	StartTimeUTC   time.Time
	Venue          string
	HomeTeamID     int64
	HomeTeamName   string
	HomeTeamCity   string
	HomeTeamAbbrev string
	HomeTeamLogo   string
	AwayTeamID     int64
	AwayTeamName   string
	AwayTeamCity   string
	AwayTeamAbbrev string
	AwayTeamLogo   string
	GameState      string
}

type UpstreamBoxscore struct {
	GameID          int64
	Season          int
	GameType        int
	StartTimeUTC    time.Time
	Venue           string
	HomeTeamID      int64
	HomeTeamName    string
	HomeTeamCity    string
	HomeTeamAbbrev  string
	HomeTeamLogo    string
	AwayTeamID      int64
	AwayTeamName    string
	AwayTeamCity    string
	AwayTeamAbbrev  string
	AwayTeamLogo    string
	GameState       string
	Period          int
	Clock           string
	HomeScore       int
	AwayScore       int
	HomeShotsOnGoal int
	AwayShotsOnGoal int
}

// UpstreamPlayByPlay is one play-by-play feed response: the ordered
// plays plus the roster spots the feed ships alongside them, so a
// batch can carry every player its plays reference.
type UpstreamPlayByPlay struct {
	Plays       []UpstreamPlay
	RosterSpots []UpstreamRosterPlayer
}

type UpstreamPlay struct {
	SequenceIndex     int
	TeamID            *int64
	PrimaryPlayerID   *int64
	SecondaryPlayerID *int64
	TertiaryPlayerID  *int64
	LosingPlayerID    *int64
	Period            int
	TimeInPeriod      string
	TimeRemaining     string
	TypeKey           string
	Zone              string
	XCoord            *int
	YCoord            *int
}

type UpstreamRosterPlayer struct {
	PlayerID    int64
	TeamID      int64
	FirstName   string
	LastName    string
	Number      int
	Position    string
	HeadshotURL string
	HomeCity    string
	HomeCountry string
}

// Batch is one atomic unit of work against the store. Everything in
// it lands in a single transaction or not at all.
type Batch struct {
	Teams   []team.Team
	Players []player.Player
	Game    *game.Game
	Plays   []play.Play
	// ScheduleOnly marks a game row sourced from the schedule feed.
	// The writer then touches calendar columns only and leaves live
	// state, scores and clock to the boxscore path.
	ScheduleOnly bool
	Correction   bool
	RawPayloads  []rawdata.Payload
}

// ApplyReport summarizes what a batch did once committed.
type ApplyReport struct {
	PlaysInserted  int
	PlaysExisting  int
	Anomalies      []anomaly.Anomaly
	ResyncRequired bool
}

// BatchWriter applies batches transactionally.
type BatchWriter interface {
	ApplyBatch(ctx context.Context, batch Batch) (ApplyReport, error)
}
