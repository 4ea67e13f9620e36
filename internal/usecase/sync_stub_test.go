package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
	"github.com/icetrack/icetrack/internal/domain/team"
)

type stubProvider struct {
	scheduleFn func(day time.Time) ([]UpstreamScheduleGame, []rawdata.Payload, error)
	boxscoreFn func(gameID int64) (UpstreamBoxscore, []rawdata.Payload, error)
	playsFn    func(gameID int64) (UpstreamPlayByPlay, []rawdata.Payload, error)
	rosterFn   func(teamAbbrev string, season int) ([]UpstreamRosterPlayer, []rawdata.Payload, error)
}

func (s stubProvider) FetchScheduleByDate(_ context.Context, day time.Time) ([]UpstreamScheduleGame, []rawdata.Payload, error) {
	if s.scheduleFn == nil {
		return nil, nil, nil
	}
	return s.scheduleFn(day)
}

func (s stubProvider) FetchBoxscore(_ context.Context, gameID int64) (UpstreamBoxscore, []rawdata.Payload, error) {
	return s.boxscoreFn(gameID)
}

func (s stubProvider) FetchPlayByPlay(_ context.Context, gameID int64) (UpstreamPlayByPlay, []rawdata.Payload, error) {
	return s.playsFn(gameID)
}

func (s stubProvider) FetchRoster(_ context.Context, teamAbbrev string, season int) ([]UpstreamRosterPlayer, []rawdata.Payload, error) {
	return s.rosterFn(teamAbbrev, season)
}

type stubWriter struct {
	mu       sync.Mutex
	batches  []Batch
	reportFn func(batch Batch) (ApplyReport, error)
}

func (w *stubWriter) ApplyBatch(_ context.Context, batch Batch) (ApplyReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, batch)
	if w.reportFn == nil {
		return ApplyReport{PlaysInserted: len(batch.Plays)}, nil
	}
	return w.reportFn(batch)
}

func (w *stubWriter) applied() []Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Batch, len(w.batches))
	copy(out, w.batches)
	return out
}

type stubGameRepo struct {
	pollable []game.Game
}

func (r stubGameRepo) GetByID(_ context.Context, gameID int64) (game.Game, bool, error) {
	for _, g := range r.pollable {
		if g.ID == gameID {
			return g, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r stubGameRepo) ListByDate(_ context.Context, _ time.Time) ([]game.Game, error) {
	return r.pollable, nil
}

func (r stubGameRepo) ListPollable(_ context.Context, _ time.Time, _ time.Duration) ([]game.Game, error) {
	return r.pollable, nil
}

type stubTeamRepo struct {
	teams []team.Team
}

func (r stubTeamRepo) List(_ context.Context) ([]team.Team, error) {
	return r.teams, nil
}

func (r stubTeamRepo) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	for _, t := range r.teams {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}
