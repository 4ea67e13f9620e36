package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StateScheduled = "SCHEDULED"
	StateLive      = "LIVE"
	StateCritical  = "CRIT"
	StateFinal     = "FINAL"
	StateOfficial  = "OFF"
	StatePostponed = "PPD"
)

const (
	TypePreseason = 1
	TypeRegular   = 2
	TypePlayoff   = 3
)

// Game is one scheduled or played NHL game.
type Game struct {
	ID                  int64
	Season              int
	Type                int
	StartTimeUTC        time.Time
	Venue               string
	HomeTeamID          int64
	AwayTeamID          int64
	State               string
	Period              int
	Clock               string
	HomeScore           int
	AwayScore           int
	HomeShotsOnGoal     int
	AwayShotsOnGoal     int
	PlayCount           int
	LastSyncedAt        *time.Time
	TerminalConfirmedAt *time.Time
}

func (g Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id is required")
	}
	if g.Season <= 0 {
		return fmt.Errorf("game season is required")
	}
	if g.HomeTeamID <= 0 || g.AwayTeamID <= 0 {
		return fmt.Errorf("game team ids are required")
	}
	if g.StartTimeUTC.IsZero() {
		return fmt.Errorf("game start time is required")
	}

	return nil
}

func NormalizeState(value string) string {
	state := strings.ToUpper(strings.TrimSpace(value))
	if state == "" {
		return StateScheduled
	}
	return state
}

func IsLiveState(state string) bool {
	switch NormalizeState(state) {
	case StateLive, StateCritical:
		return true
	default:
		return false
	}
}

func IsTerminalState(state string) bool {
	switch NormalizeState(state) {
	case StateFinal, StateOfficial:
		return true
	default:
		return false
	}
}

func IsPostponedLikeState(state string) bool {
	switch NormalizeState(state) {
	case StatePostponed, "SUSP", "CNCL":
		return true
	default:
		return false
	}
}

// stateRank orders the normal lifecycle. Postponed-like states sit
// outside the ordering and are handled separately.
func stateRank(state string) int {
	switch NormalizeState(state) {
	case StateScheduled:
		return 0
	case StateLive:
		return 1
	case StateCritical:
		return 2
	case StateFinal:
		return 3
	case StateOfficial:
		return 4
	default:
		return -1
	}
}

// ClockSeconds parses an MM:SS game clock into remaining seconds. The
// second return is false for clocks the feed left empty or malformed.
func ClockSeconds(clock string) (int, bool) {
	minutes, seconds, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, false
	}
	s, err := strconv.Atoi(seconds)
	if err != nil || s < 0 || s > 59 {
		return 0, false
	}
	return m*60 + s, true
}

// IsStateRegression reports whether moving from to next walks the
// lifecycle backwards, e.g. FINAL back to LIVE.
func IsStateRegression(from, next string) bool {
	fromRank := stateRank(from)
	nextRank := stateRank(next)
	if fromRank < 0 || nextRank < 0 {
		return false
	}
	return nextRank < fromRank
}
