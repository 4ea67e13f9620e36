package memory

import (
	"context"
	"testing"
	"time"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/usecase"
)

const testGameID = int64(2025020076)

func testGame(state string) game.Game {
	return game.Game{
		ID:           testGameID,
		Season:       20252026,
		Type:         game.TypeRegular,
		StartTimeUTC: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamID:   10,
		AwayTeamID:   22,
		State:        state,
	}
}

func testPlays(n int) []play.Play {
	out := make([]play.Play, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, play.Play{
			ID:            play.DeriveID(testGameID, i),
			GameID:        testGameID,
			SequenceIndex: i,
			Period:        1 + (i-1)/40,
			TimeInPeriod:  "00:00",
			Type:          "faceoff",
			Zone:          "N",
		})
	}
	return out
}

func applyLive(t *testing.T, s *Store, g game.Game, plays []play.Play, correction bool) usecase.ApplyReport {
	t.Helper()
	report, err := s.ApplyBatch(context.Background(), usecase.Batch{
		Game:       &g,
		Plays:      plays,
		Correction: correction,
	})
	if err != nil {
		t.Fatalf("apply batch: %v", err)
	}
	return report
}

func TestApplyBatch_PlayGrowthIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewStore()

	report := applyLive(t, s, testGame(game.StateLive), testPlays(54), false)
	if report.PlaysInserted != 54 || report.PlaysExisting != 0 {
		t.Fatalf("first apply: %+v", report)
	}

	report = applyLive(t, s, testGame(game.StateLive), testPlays(120), false)
	if report.PlaysInserted != 66 {
		t.Fatalf("expected 66 new plays, got %d", report.PlaysInserted)
	}
	if report.PlaysExisting != 54 {
		t.Fatalf("expected 54 existing plays, got %d", report.PlaysExisting)
	}
	if len(report.Anomalies) != 0 || report.ResyncRequired {
		t.Fatalf("clean growth should not flag anything: %+v", report)
	}

	report = applyLive(t, s, testGame(game.StateLive), testPlays(120), false)
	if report.PlaysInserted != 0 || report.PlaysExisting != 120 {
		t.Fatalf("replay must be a no-op: %+v", report)
	}

	g, _, _ := s.GetByID(context.Background(), testGameID)
	if g.PlayCount != 120 {
		t.Fatalf("expected play count 120, got %d", g.PlayCount)
	}
}

func TestApplyBatch_PlayCountShrinkFlagsResync(t *testing.T) {
	t.Parallel()
	s := NewStore()

	applyLive(t, s, testGame(game.StateLive), testPlays(100), false)
	report := applyLive(t, s, testGame(game.StateLive), testPlays(80), false)

	if !report.ResyncRequired {
		t.Fatalf("shrinking feed must request a resync")
	}
	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindPlayCountShrink {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}

	// Stored plays are untouched until a correction pass.
	count, _ := s.CountPlaysByGame(context.Background(), testGameID)
	if count != 100 {
		t.Fatalf("expected stored plays to survive, got %d", count)
	}
}

func TestApplyBatch_ChangedPlayIsNotSilentlyOverwritten(t *testing.T) {
	t.Parallel()
	s := NewStore()

	applyLive(t, s, testGame(game.StateLive), testPlays(10), false)

	changed := testPlays(10)
	changed[4].Type = "goal"
	report := applyLive(t, s, testGame(game.StateLive), changed, false)

	if !report.ResyncRequired {
		t.Fatalf("changed play must request a resync")
	}
	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindPlayOverwrite {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}

	plays, _ := s.ListPlaysByGame(context.Background(), testGameID)
	if plays[4].Type != "faceoff" {
		t.Fatalf("stored play changed outside a correction: %q", plays[4].Type)
	}

	// The correction pass rewrites it and audits the overwrite.
	report = applyLive(t, s, testGame(game.StateLive), changed, true)
	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindPlayOverwrite {
		t.Fatalf("correction should audit the rewrite: %+v", report.Anomalies)
	}
	plays, _ = s.ListPlaysByGame(context.Background(), testGameID)
	if plays[4].Type != "goal" {
		t.Fatalf("correction did not land: %q", plays[4].Type)
	}
}

func TestApplyBatch_CorrectionDropsExtraPlays(t *testing.T) {
	t.Parallel()
	s := NewStore()

	applyLive(t, s, testGame(game.StateLive), testPlays(100), false)
	applyLive(t, s, testGame(game.StateLive), testPlays(80), true)

	count, _ := s.CountPlaysByGame(context.Background(), testGameID)
	if count != 80 {
		t.Fatalf("expected correction to shrink store to 80, got %d", count)
	}
	g, _, _ := s.GetByID(context.Background(), testGameID)
	if g.PlayCount != 80 {
		t.Fatalf("expected play count 80, got %d", g.PlayCount)
	}
}

// Incoming feeds are validated gapless upstream, but the store guards
// its own invariant: a merged play set with a hole is flagged and
// resynced.
func TestApplyBatch_StoredSequenceGapFlagsResync(t *testing.T) {
	t.Parallel()
	s := NewStore()

	holed := testPlays(5)
	holed = append(holed[:2], holed[3:]...)
	report := applyLive(t, s, testGame(game.StateLive), holed, false)

	if !report.ResyncRequired {
		t.Fatalf("gapped store must request a resync")
	}
	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindSequenceGap {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}
}

func TestApplyBatch_ClockRegressionIsAppliedAndAudited(t *testing.T) {
	t.Parallel()
	s := NewStore()

	g := testGame(game.StateLive)
	g.Period = 2
	g.Clock = "08:15"
	applyLive(t, s, g, nil, false)

	g.Clock = "12:40"
	report := applyLive(t, s, g, nil, false)

	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindClockRegression {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}

	stored, _, _ := s.GetByID(context.Background(), testGameID)
	if stored.Clock != "12:40" {
		t.Fatalf("regressed clock must still be applied, got %q", stored.Clock)
	}

	// A new period resets the clock legitimately.
	g.Period = 3
	g.Clock = "20:00"
	report = applyLive(t, s, g, nil, false)
	if len(report.Anomalies) != 0 {
		t.Fatalf("period change must not flag the clock: %+v", report.Anomalies)
	}
}

func TestApplyBatch_ScoreRegressionIsAppliedAndAudited(t *testing.T) {
	t.Parallel()
	s := NewStore()

	g := testGame(game.StateLive)
	g.HomeScore = 3
	g.AwayScore = 2
	applyLive(t, s, g, nil, false)

	g.HomeScore = 2
	report := applyLive(t, s, g, nil, false)

	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindScoreRegression {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}

	stored, _, _ := s.GetByID(context.Background(), testGameID)
	if stored.HomeScore != 2 {
		t.Fatalf("regressed score must still be applied, got %d", stored.HomeScore)
	}
}

func TestApplyBatch_TerminalConfirmationCadence(t *testing.T) {
	t.Parallel()
	s := NewStore()

	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	s.SetNow(func() time.Time { return now })

	applyLive(t, s, testGame(game.StateLive), nil, false)

	// First terminal observation: still pollable.
	applyLive(t, s, testGame(game.StateFinal), nil, false)
	pollable, _ := s.ListPollable(context.Background(), now, 15*time.Minute)
	if len(pollable) != 1 {
		t.Fatalf("freshly final game must stay in the poll set")
	}

	// Confirmatory fetch: drops out.
	applyLive(t, s, testGame(game.StateFinal), nil, false)
	stored, _, _ := s.GetByID(context.Background(), testGameID)
	if stored.TerminalConfirmedAt == nil {
		t.Fatalf("expected terminal confirmation timestamp")
	}
	pollable, _ = s.ListPollable(context.Background(), now, 15*time.Minute)
	if len(pollable) != 0 {
		t.Fatalf("confirmed terminal game must leave the poll set, got %d", len(pollable))
	}
}

func TestApplyBatch_TerminalReopenIsAudited(t *testing.T) {
	t.Parallel()
	s := NewStore()

	applyLive(t, s, testGame(game.StateFinal), nil, false)
	applyLive(t, s, testGame(game.StateFinal), nil, false)

	report := applyLive(t, s, testGame(game.StateLive), nil, false)
	if len(report.Anomalies) != 1 || report.Anomalies[0].Kind != anomaly.KindTerminalReopen {
		t.Fatalf("unexpected anomalies: %+v", report.Anomalies)
	}

	stored, _, _ := s.GetByID(context.Background(), testGameID)
	if stored.State != game.StateLive {
		t.Fatalf("reopen must be applied, got %s", stored.State)
	}
	if stored.TerminalConfirmedAt != nil {
		t.Fatalf("reopen must clear the terminal confirmation")
	}
}

func TestApplyBatch_ScheduleOnlyLeavesLiveStateAlone(t *testing.T) {
	t.Parallel()
	s := NewStore()

	live := testGame(game.StateLive)
	live.HomeScore = 2
	live.Period = 2
	applyLive(t, s, live, nil, false)

	sched := testGame(game.StateScheduled)
	sched.Venue = "Rogers Place"
	if _, err := s.ApplyBatch(context.Background(), usecase.Batch{Game: &sched, ScheduleOnly: true}); err != nil {
		t.Fatalf("apply schedule batch: %v", err)
	}

	stored, _, _ := s.GetByID(context.Background(), testGameID)
	if stored.State != game.StateLive || stored.HomeScore != 2 || stored.Period != 2 {
		t.Fatalf("schedule sweep clobbered live state: %+v", stored)
	}
	if stored.Venue != "Rogers Place" {
		t.Fatalf("schedule sweep should update calendar fields, got %q", stored.Venue)
	}
}

func TestListPollable_Window(t *testing.T) {
	t.Parallel()
	s := NewStore()

	now := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)

	soon := testGame(game.StateScheduled)
	soon.StartTimeUTC = now.Add(10 * time.Minute)

	later := testGame(game.StateScheduled)
	later.ID = testGameID + 1
	later.StartTimeUTC = now.Add(3 * time.Hour)

	postponed := testGame(game.StatePostponed)
	postponed.ID = testGameID + 2
	postponed.StartTimeUTC = now.Add(5 * time.Minute)

	for _, g := range []game.Game{soon, later, postponed} {
		g := g
		if _, err := s.ApplyBatch(context.Background(), usecase.Batch{Game: &g, ScheduleOnly: true}); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}

	pollable, _ := s.ListPollable(context.Background(), now, 15*time.Minute)
	if len(pollable) != 1 || pollable[0].ID != testGameID {
		t.Fatalf("expected only the imminent game, got %+v", pollable)
	}
}
