package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
	"github.com/icetrack/icetrack/internal/domain/team"
	qb "github.com/icetrack/icetrack/internal/platform/querybuilder"
	"github.com/icetrack/icetrack/internal/usecase"
)

// Store applies sync batches against Postgres. Each batch commits in
// one transaction; the game row lock serializes concurrent writers on
// the same game.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) ApplyBatch(ctx context.Context, batch usecase.Batch) (usecase.ApplyReport, error) {
	now := s.now().UTC()
	var report usecase.ApplyReport

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin apply batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertTeams(ctx, tx, batch.Teams, now); err != nil {
		return report, err
	}
	if err := upsertPlayers(ctx, tx, batch.Players, now); err != nil {
		return report, err
	}

	if batch.Game != nil {
		if err := s.applyGame(ctx, tx, *batch.Game, batch.ScheduleOnly, now, &report); err != nil {
			return report, err
		}
	}
	if len(batch.Plays) > 0 {
		if err := s.applyPlays(ctx, tx, batch.Game.ID, batch.Plays, batch.Correction, now, &report); err != nil {
			return report, err
		}
	}
	if batch.Game != nil && !batch.ScheduleOnly {
		if err := refreshPlayCount(ctx, tx, batch.Game.ID, now); err != nil {
			return report, err
		}
	}

	if err := insertRawPayloads(ctx, tx, batch.RawPayloads, now); err != nil {
		return report, err
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit apply batch tx: %w", err)
	}

	return report, nil
}

func upsertTeams(ctx context.Context, tx *sqlx.Tx, teams []team.Team, now time.Time) error {
	if len(teams) == 0 {
		return nil
	}

	builder := qb.InsertInto("teams").
		Columns("id", "name", "city", "abbrev", "logo_url", "is_active", "created_at", "updated_at")
	for _, t := range teams {
		builder.Values(t.ID, t.Name, t.City, t.Abbrev, t.LogoURL, t.IsActive, now, now)
	}
	query, args, err := builder.Suffix(`ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    city = EXCLUDED.city,
    abbrev = EXCLUDED.abbrev,
    logo_url = EXCLUDED.logo_url,
    is_active = EXCLUDED.is_active,
    updated_at = EXCLUDED.updated_at`).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}

	return nil
}

func upsertPlayers(ctx context.Context, tx *sqlx.Tx, players []player.Player, now time.Time) error {
	if len(players) == 0 {
		return nil
	}

	builder := qb.InsertInto("players").
		Columns("id", "team_id", "first_name", "last_name", "number", "position",
			"headshot_url", "home_city", "home_country", "is_active", "created_at", "updated_at")
	for _, p := range players {
		builder.Values(p.ID, p.TeamID, p.FirstName, p.LastName, p.Number, p.Position,
			p.HeadshotURL, p.HomeCity, p.HomeCountry, p.IsActive, now, now)
	}
	query, args, err := builder.Suffix(`ON CONFLICT (id) DO UPDATE SET
    team_id = EXCLUDED.team_id,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    number = EXCLUDED.number,
    position = EXCLUDED.position,
    headshot_url = EXCLUDED.headshot_url,
    home_city = EXCLUDED.home_city,
    home_country = EXCLUDED.home_country,
    is_active = EXCLUDED.is_active,
    updated_at = EXCLUDED.updated_at`).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}

	return nil
}

func (s *Store) applyGame(ctx context.Context, tx *sqlx.Tx, incoming game.Game, scheduleOnly bool, now time.Time, report *usecase.ApplyReport) error {
	incoming.State = game.NormalizeState(incoming.State)

	stored, exists, err := lockGame(ctx, tx, incoming.ID)
	if err != nil {
		return err
	}

	if scheduleOnly {
		if !exists {
			return insertGame(ctx, tx, incoming, now)
		}
		return updateGameCalendar(ctx, tx, incoming, stored, now)
	}

	if exists {
		if game.IsTerminalState(stored.State) && !game.IsTerminalState(incoming.State) {
			if err := recordAnomaly(ctx, tx, incoming.ID, anomaly.KindTerminalReopen,
				fmt.Sprintf("state %s reopened as %s", stored.State, incoming.State), now, report); err != nil {
				return err
			}
			incoming.TerminalConfirmedAt = nil
		}
		if incoming.HomeScore < stored.HomeScore || incoming.AwayScore < stored.AwayScore {
			if err := recordAnomaly(ctx, tx, incoming.ID, anomaly.KindScoreRegression,
				fmt.Sprintf("score went from %d-%d to %d-%d", stored.HomeScore, stored.AwayScore, incoming.HomeScore, incoming.AwayScore), now, report); err != nil {
				return err
			}
		}
		if incoming.Period < stored.Period {
			if err := recordAnomaly(ctx, tx, incoming.ID, anomaly.KindPeriodRegression,
				fmt.Sprintf("period went from %d to %d", stored.Period, incoming.Period), now, report); err != nil {
				return err
			}
		}
		// The clock counts down, so within one period more time
		// remaining than before means it ran backwards.
		if incoming.Period == stored.Period {
			in, okIn := game.ClockSeconds(incoming.Clock)
			st, okSt := game.ClockSeconds(stored.Clock)
			if okIn && okSt && in > st {
				if err := recordAnomaly(ctx, tx, incoming.ID, anomaly.KindClockRegression,
					fmt.Sprintf("clock went from %s to %s in period %d", stored.Clock, incoming.Clock, incoming.Period), now, report); err != nil {
					return err
				}
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
	if !exists {
		return insertGame(ctx, tx, incoming, now)
	}
	return updateGame(ctx, tx, incoming, now)
}

// lockGame reads the stored row under FOR UPDATE so anomaly checks and
// the subsequent write see a stable snapshot.
func lockGame(ctx context.Context, tx *sqlx.Tx, gameID int64) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build lock game query: %w", err)
	}

	var row gameTableModel
	if err := tx.GetContext(ctx, &row, query+" FOR UPDATE", args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("lock game %d: %w", gameID, err)
	}

	return row.toDomain(), true, nil
}

func insertGame(ctx context.Context, tx *sqlx.Tx, g game.Game, now time.Time) error {
	query, args, err := qb.InsertInto("games").
		Columns("id", "season", "game_type", "start_time_utc", "venue", "home_team_id", "away_team_id",
			"state", "period", "clock", "home_score", "away_score", "home_sog", "away_sog",
			"play_count", "last_synced_at", "terminal_confirmed_at", "created_at", "updated_at").
		Values(g.ID, g.Season, g.Type, g.StartTimeUTC, g.Venue, g.HomeTeamID, g.AwayTeamID,
			g.State, g.Period, g.Clock, g.HomeScore, g.AwayScore, g.HomeShotsOnGoal, g.AwayShotsOnGoal,
			g.PlayCount, g.LastSyncedAt, g.TerminalConfirmedAt, now, now).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game %d: %w", g.ID, err)
	}

	return nil
}

// updateGameCalendar applies a schedule-feed row to an existing game:
// calendar columns only. Live state, scores and the clock belong to
// the boxscore path.
func updateGameCalendar(ctx context.Context, tx *sqlx.Tx, incoming, stored game.Game, now time.Time) error {
	builder := qb.Update("games").
		Set("season", incoming.Season).
		Set("game_type", incoming.Type).
		Set("start_time_utc", incoming.StartTimeUTC).
		Set("venue", incoming.Venue).
		Set("home_team_id", incoming.HomeTeamID).
		Set("away_team_id", incoming.AwayTeamID).
		Set("updated_at", now)
	if !game.IsLiveState(stored.State) && !game.IsTerminalState(stored.State) {
		builder.Set("state", incoming.State)
	}
	query, args, err := builder.Where(qb.Eq("id", incoming.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update game calendar query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game %d calendar: %w", incoming.ID, err)
	}

	return nil
}

func updateGame(ctx context.Context, tx *sqlx.Tx, g game.Game, now time.Time) error {
	query, args, err := qb.Update("games").
		Set("season", g.Season).
		Set("game_type", g.Type).
		Set("start_time_utc", g.StartTimeUTC).
		Set("venue", g.Venue).
		Set("home_team_id", g.HomeTeamID).
		Set("away_team_id", g.AwayTeamID).
		Set("state", g.State).
		Set("period", g.Period).
		Set("clock", g.Clock).
		Set("home_score", g.HomeScore).
		Set("away_score", g.AwayScore).
		Set("home_sog", g.HomeShotsOnGoal).
		Set("away_sog", g.AwayShotsOnGoal).
		Set("last_synced_at", g.LastSyncedAt).
		Set("terminal_confirmed_at", g.TerminalConfirmedAt).
		Set("updated_at", now).
		Where(qb.Eq("id", g.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game %d: %w", g.ID, err)
	}

	return nil
}

func (s *Store) applyPlays(ctx context.Context, tx *sqlx.Tx, gameID int64, incoming []play.Play, correction bool, now time.Time, report *usecase.ApplyReport) error {
	stored, err := selectPlaysForGame(ctx, tx, gameID)
	if err != nil {
		return err
	}

	if correction {
		for _, p := range incoming {
			if old, ok := stored[p.SequenceIndex]; ok && !old.Equal(p) {
				if err := recordAnomaly(ctx, tx, gameID, anomaly.KindPlayOverwrite,
					fmt.Sprintf("play %d rewritten by correction", p.ID), now, report); err != nil {
					return err
				}
			}
		}
		if err := deletePlaysForGame(ctx, tx, gameID); err != nil {
			return err
		}
		if err := insertPlays(ctx, tx, incoming, now); err != nil {
			return err
		}
		report.PlaysInserted += len(incoming)
		return nil
	}

	if len(incoming) < len(stored) {
		if err := recordAnomaly(ctx, tx, gameID, anomaly.KindPlayCountShrink,
			fmt.Sprintf("feed carries %d plays, store holds %d", len(incoming), len(stored)), now, report); err != nil {
			return err
		}
		report.ResyncRequired = true
	}

	fresh := make([]play.Play, 0, len(incoming))
	for _, p := range incoming {
		old, ok := stored[p.SequenceIndex]
		if !ok {
			fresh = append(fresh, p)
			continue
		}
		report.PlaysExisting++
		if !old.Equal(p) {
			if err := recordAnomaly(ctx, tx, gameID, anomaly.KindPlayOverwrite,
				fmt.Sprintf("play %d content changed upstream", p.ID), now, report); err != nil {
				return err
			}
			report.ResyncRequired = true
		}
	}

	if err := insertPlays(ctx, tx, fresh, now); err != nil {
		return err
	}
	report.PlaysInserted += len(fresh)

	maxSeq := 0
	total := len(stored)
	for seq := range stored {
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	for _, p := range fresh {
		if p.SequenceIndex > maxSeq {
			maxSeq = p.SequenceIndex
		}
		total++
	}
	if maxSeq != total {
		if err := recordAnomaly(ctx, tx, gameID, anomaly.KindSequenceGap,
			fmt.Sprintf("stored plays hold %d rows but reach index %d", total, maxSeq), now, report); err != nil {
			return err
		}
		report.ResyncRequired = true
	}

	return nil
}

func selectPlaysForGame(ctx context.Context, tx *sqlx.Tx, gameID int64) (map[int]play.Play, error) {
	query, args, err := qb.Select("*").From("plays").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("sequence_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stored plays query: %w", err)
	}

	var rows []playTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stored plays for game %d: %w", gameID, err)
	}

	out := make(map[int]play.Play, len(rows))
	for _, row := range rows {
		out[row.SequenceIndex] = row.toDomain()
	}

	return out, nil
}

func deletePlaysForGame(ctx context.Context, tx *sqlx.Tx, gameID int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM plays WHERE game_id = $1", gameID); err != nil {
		return fmt.Errorf("delete plays for game %d: %w", gameID, err)
	}
	return nil
}

func insertPlays(ctx context.Context, tx *sqlx.Tx, plays []play.Play, now time.Time) error {
	if len(plays) == 0 {
		return nil
	}

	builder := qb.InsertInto("plays").
		Columns("id", "game_id", "sequence_index", "team_id",
			"primary_player_id", "secondary_player_id", "tertiary_player_id", "losing_player_id",
			"period", "time_in_period", "time_remaining", "type_key", "zone",
			"x_coord", "y_coord", "created_at")
	for _, p := range plays {
		builder.Values(p.ID, p.GameID, p.SequenceIndex, p.TeamID,
			p.PrimaryPlayerID, p.SecondaryPlayerID, p.TertiaryPlayerID, p.LosingPlayerID,
			p.Period, p.TimeInPeriod, p.TimeRemaining, p.Type, p.Zone,
			p.XCoord, p.YCoord, now)
	}
	query, args, err := builder.Suffix("ON CONFLICT (game_id, sequence_index) DO NOTHING").ToSQL()
	if err != nil {
		return fmt.Errorf("build insert plays query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert plays: %w", err)
	}

	return nil
}

func refreshPlayCount(ctx context.Context, tx *sqlx.Tx, gameID int64, now time.Time) error {
	query := `UPDATE games SET play_count = (SELECT COUNT(*) FROM plays WHERE game_id = $1), updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, gameID, now); err != nil {
		return fmt.Errorf("refresh play count for game %d: %w", gameID, err)
	}
	return nil
}

func recordAnomaly(ctx context.Context, tx *sqlx.Tx, gameID int64, kind, detail string, now time.Time, report *usecase.ApplyReport) error {
	query, args, err := qb.InsertInto("anomalies").
		Columns("game_id", "kind", "detail", "observed_at").
		Values(gameID, kind, detail, now).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert anomaly query: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("insert %s anomaly for game %d: %w", kind, gameID, err)
	}

	report.Anomalies = append(report.Anomalies, anomaly.Anomaly{
		ID:         id,
		GameID:     gameID,
		Kind:       kind,
		Detail:     detail,
		ObservedAt: now,
	})

	return nil
}

func insertRawPayloads(ctx context.Context, tx *sqlx.Tx, payloads []rawdata.Payload, now time.Time) error {
	if len(payloads) == 0 {
		return nil
	}

	builder := qb.InsertInto("raw_payloads").
		Columns("source", "entity_type", "entity_key", "game_id", "payload", "payload_hash", "fetched_at", "created_at")
	for _, p := range payloads {
		var gameID *int64
		if p.GameID > 0 {
			id := p.GameID
			gameID = &id
		}
		fetchedAt := p.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = now
		}
		builder.Values(p.Source, p.EntityType, p.EntityKey, gameID, p.PayloadJSON, p.PayloadHash, fetchedAt, now)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert raw payloads query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert raw payloads: %w", err)
	}

	return nil
}
