package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
	"github.com/icetrack/icetrack/internal/domain/team"
	"github.com/icetrack/icetrack/internal/usecase"
)

// Store keeps the whole dataset in maps behind one mutex. It mirrors
// the Postgres writer semantics so sync services can be tested
// without a database.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	teams     map[int64]team.Team
	players   map[int64]player.Player
	games     map[int64]game.Game
	plays     map[int64]map[int]play.Play
	anomalies []anomaly.Anomaly
	payloads  []rawdata.Payload

	nextAnomalyID int64
}

func NewStore() *Store {
	return &Store{
		now:     time.Now,
		teams:   make(map[int64]team.Team),
		players: make(map[int64]player.Player),
		games:   make(map[int64]game.Game),
		plays:   make(map[int64]map[int]play.Play),
	}
}

// SetNow overrides the clock. Test helper.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) ApplyBatch(_ context.Context, batch usecase.Batch) (usecase.ApplyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	var report usecase.ApplyReport

	for _, t := range batch.Teams {
		s.teams[t.ID] = t
	}
	for _, p := range batch.Players {
		s.players[p.ID] = p
	}

	if batch.Game != nil {
		s.applyGame(*batch.Game, batch.ScheduleOnly, now, &report)
	}
	if len(batch.Plays) > 0 {
		s.applyPlays(batch.Game.ID, batch.Plays, batch.Correction, now, &report)
	}
	if batch.Game != nil && !batch.ScheduleOnly {
		g := s.games[batch.Game.ID]
		g.PlayCount = len(s.plays[batch.Game.ID])
		s.games[batch.Game.ID] = g
	}

	s.payloads = append(s.payloads, batch.RawPayloads...)

	return report, nil
}

func (s *Store) applyGame(incoming game.Game, scheduleOnly bool, now time.Time, report *usecase.ApplyReport) {
	incoming.State = game.NormalizeState(incoming.State)
	stored, exists := s.games[incoming.ID]

	if scheduleOnly {
		if !exists {
			s.games[incoming.ID] = incoming
			return
		}
		stored.Season = incoming.Season
		stored.Type = incoming.Type
		stored.StartTimeUTC = incoming.StartTimeUTC
		stored.Venue = incoming.Venue
		stored.HomeTeamID = incoming.HomeTeamID
		stored.AwayTeamID = incoming.AwayTeamID
		if !game.IsLiveState(stored.State) && !game.IsTerminalState(stored.State) {
			stored.State = incoming.State
		}
		s.games[incoming.ID] = stored
		return
	}

	if exists {
		if game.IsTerminalState(stored.State) && !game.IsTerminalState(incoming.State) {
			s.recordAnomaly(incoming.ID, anomaly.KindTerminalReopen,
				fmt.Sprintf("state %s reopened as %s", stored.State, incoming.State), now, report)
			incoming.TerminalConfirmedAt = nil
		}
		if incoming.HomeScore < stored.HomeScore || incoming.AwayScore < stored.AwayScore {
			s.recordAnomaly(incoming.ID, anomaly.KindScoreRegression,
				fmt.Sprintf("score went from %d-%d to %d-%d", stored.HomeScore, stored.AwayScore, incoming.HomeScore, incoming.AwayScore), now, report)
		}
		if incoming.Period < stored.Period {
			s.recordAnomaly(incoming.ID, anomaly.KindPeriodRegression,
				fmt.Sprintf("period went from %d to %d", stored.Period, incoming.Period), now, report)
		}
		// The clock counts down, so within one period more time
		// remaining than before means it ran backwards.
		if incoming.Period == stored.Period {
			in, okIn := game.ClockSeconds(incoming.Clock)
			st, okSt := game.ClockSeconds(stored.Clock)
			if okIn && okSt && in > st {
				s.recordAnomaly(incoming.ID, anomaly.KindClockRegression,
					fmt.Sprintf("clock went from %s to %s in period %d", stored.Clock, incoming.Clock, incoming.Period), now, report)
			}
		}
		if game.IsTerminalState(incoming.State) && game.IsTerminalState(stored.State) {
			if stored.TerminalConfirmedAt != nil {
				incoming.TerminalConfirmedAt = stored.TerminalConfirmedAt
			} else {
				confirmed := now
				incoming.TerminalConfirmedAt = &confirmed
			}
		}
		incoming.PlayCount = stored.PlayCount
	}

	syncedAt := now
	incoming.LastSyncedAt = &syncedAt
	s.games[incoming.ID] = incoming
}

func (s *Store) applyPlays(gameID int64, incoming []play.Play, correction bool, now time.Time, report *usecase.ApplyReport) {
	rows := s.plays[gameID]
	if rows == nil {
		rows = make(map[int]play.Play)
		s.plays[gameID] = rows
	}

	if correction {
		next := make(map[int]play.Play, len(incoming))
		for _, p := range incoming {
			if old, ok := rows[p.SequenceIndex]; ok {
				if !old.Equal(p) {
					s.recordAnomaly(gameID, anomaly.KindPlayOverwrite,
						fmt.Sprintf("play %d rewritten by correction", p.ID), now, report)
				}
			}
			next[p.SequenceIndex] = p
			report.PlaysInserted++
		}
		s.plays[gameID] = next
		return
	}

	if len(incoming) < len(rows) {
		s.recordAnomaly(gameID, anomaly.KindPlayCountShrink,
			fmt.Sprintf("feed carries %d plays, store holds %d", len(incoming), len(rows)), now, report)
		report.ResyncRequired = true
	}

	for _, p := range incoming {
		old, ok := rows[p.SequenceIndex]
		if !ok {
			rows[p.SequenceIndex] = p
			report.PlaysInserted++
			continue
		}
		report.PlaysExisting++
		if !old.Equal(p) {
			s.recordAnomaly(gameID, anomaly.KindPlayOverwrite,
				fmt.Sprintf("play %d content changed upstream", p.ID), now, report)
			report.ResyncRequired = true
		}
	}

	maxSeq := 0
	for seq := range rows {
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if maxSeq != len(rows) {
		s.recordAnomaly(gameID, anomaly.KindSequenceGap,
			fmt.Sprintf("stored plays hold %d rows but reach index %d", len(rows), maxSeq), now, report)
		report.ResyncRequired = true
	}
}

func (s *Store) recordAnomaly(gameID int64, kind, detail string, now time.Time, report *usecase.ApplyReport) {
	s.nextAnomalyID++
	row := anomaly.Anomaly{
		ID:         s.nextAnomalyID,
		GameID:     gameID,
		Kind:       kind,
		Detail:     detail,
		ObservedAt: now,
	}
	s.anomalies = append(s.anomalies, row)
	report.Anomalies = append(report.Anomalies, row)
}

func (s *Store) List(_ context.Context) ([]team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]team.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Store) GetTeamByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[teamID]
	return t, ok, nil
}

func (s *Store) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]player.Player, 0, 32)
	for _, p := range s.players {
		if p.TeamID != nil && *p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Store) GetPlayerByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	return p, ok, nil
}

func (s *Store) GetByID(_ context.Context, gameID int64) (game.Game, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	return g, ok, nil
}

func (s *Store) ListByDate(_ context.Context, day time.Time) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	out := make([]game.Game, 0, 16)
	for _, g := range s.games {
		if !g.StartTimeUTC.Before(dayStart) && g.StartTimeUTC.Before(dayEnd) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Store) ListPollable(_ context.Context, now time.Time, startingWithin time.Duration) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.Add(startingWithin)
	out := make([]game.Game, 0, 16)
	for _, g := range s.games {
		if isPollable(g, cutoff) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func isPollable(g game.Game, cutoff time.Time) bool {
	switch {
	case game.IsLiveState(g.State):
		return true
	case game.IsTerminalState(g.State):
		return g.TerminalConfirmedAt == nil
	case game.IsPostponedLikeState(g.State):
		return false
	default:
		return !g.StartTimeUTC.After(cutoff)
	}
}

func (s *Store) ListPlaysByGame(_ context.Context, gameID int64) ([]play.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.plays[gameID]
	out := make([]play.Play, 0, len(rows))
	for _, p := range rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].SequenceIndex < out[j].SequenceIndex
	})

	return out, nil
}

func (s *Store) CountPlaysByGame(_ context.Context, gameID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.plays[gameID]), nil
}

func (s *Store) ListAnomaliesByGame(_ context.Context, gameID int64) ([]anomaly.Anomaly, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]anomaly.Anomaly, 0, 8)
	for _, a := range s.anomalies {
		if a.GameID == gameID {
			out = append(out, a)
		}
	}

	return out, nil
}

func (s *Store) ListRecentAnomalies(_ context.Context, limit int) ([]anomaly.Anomaly, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.anomalies) {
		limit = len(s.anomalies)
	}

	out := make([]anomaly.Anomaly, 0, limit)
	for i := len(s.anomalies) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.anomalies[i])
	}

	return out, nil
}

func (s *Store) RawPayloadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.payloads)
}
