package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
)

func validScheduleGame() UpstreamScheduleGame {
	return UpstreamScheduleGame{
		GameID:         2025020076,
		Season:         20252026,
		GameType:       game.TypeRegular,
		StartTimeUTC:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Venue:          "Scotiabank Arena",
		HomeTeamID:     10,
		HomeTeamName:   "Maple Leafs",
		HomeTeamCity:   "Toronto",
		HomeTeamAbbrev: "tor",
		AwayTeamID:     22,
		AwayTeamName:   "Oilers",
		AwayTeamCity:   "Edmonton",
		AwayTeamAbbrev: "EDM",
		GameState:      "FUT",
	}
}

func TestMapScheduleGame(t *testing.T) {
	t.Parallel()

	g, teams, err := MapScheduleGame(validScheduleGame())
	if err != nil {
		t.Fatalf("map schedule game: %v", err)
	}
	if g.ID != 2025020076 || g.HomeTeamID != 10 || g.AwayTeamID != 22 {
		t.Fatalf("unexpected game: %+v", g)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].Abbrev != "TOR" {
		t.Fatalf("expected abbrev upcased, got %q", teams[0].Abbrev)
	}
}

func TestMapScheduleGame_MissingTeam(t *testing.T) {
	t.Parallel()

	in := validScheduleGame()
	in.AwayTeamID = 0
	if _, _, err := MapScheduleGame(in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure, got %v", err)
	}
}

func TestMapBoxscoreGame_RejectsNegativeScore(t *testing.T) {
	t.Parallel()

	in := UpstreamBoxscore{
		GameID:       2025020076,
		Season:       20252026,
		GameType:     game.TypeRegular,
		StartTimeUTC: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamID:   10,
		AwayTeamID:   22,
		GameState:    game.StateLive,
		HomeScore:    -1,
	}
	if _, err := MapBoxscoreGame(in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure, got %v", err)
	}
}

func TestMapPlays_OrdersAndDerivesIDs(t *testing.T) {
	t.Parallel()

	teamID := int64(10)
	in := []UpstreamPlay{
		{SequenceIndex: 2, Period: 1, TimeInPeriod: "01:12", TypeKey: "shot-on-goal", Zone: "o", TeamID: &teamID},
		{SequenceIndex: 1, Period: 1, TimeInPeriod: "00:00", TypeKey: "faceoff", Zone: "N"},
		{SequenceIndex: 3, Period: 1, TimeInPeriod: "02:30", TypeKey: "hit", Zone: "D"},
	}

	plays, err := MapPlays(2025020076, in)
	if err != nil {
		t.Fatalf("map plays: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("expected 3 plays, got %d", len(plays))
	}
	for i, p := range plays {
		if p.SequenceIndex != i+1 {
			t.Fatalf("expected ordered run, position %d holds %d", i, p.SequenceIndex)
		}
		if p.ID != play.DeriveID(2025020076, p.SequenceIndex) {
			t.Fatalf("unexpected play id %d", p.ID)
		}
	}
	if plays[1].Zone != "O" {
		t.Fatalf("expected zone upcased, got %q", plays[1].Zone)
	}
}

func TestMapPlays_RejectsGap(t *testing.T) {
	t.Parallel()

	in := []UpstreamPlay{
		{SequenceIndex: 1, Period: 1, TypeKey: "faceoff"},
		{SequenceIndex: 3, Period: 1, TypeKey: "hit"},
	}
	if _, err := MapPlays(2025020076, in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure for gap, got %v", err)
	}
}

func TestMapPlays_RejectsDuplicateIndex(t *testing.T) {
	t.Parallel()

	in := []UpstreamPlay{
		{SequenceIndex: 1, Period: 1, TypeKey: "faceoff"},
		{SequenceIndex: 1, Period: 1, TypeKey: "hit"},
	}
	if _, err := MapPlays(2025020076, in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure for duplicate, got %v", err)
	}
}

func TestMapBoxscoreTeams(t *testing.T) {
	t.Parallel()

	in := UpstreamBoxscore{
		GameID:         2025020076,
		HomeTeamID:     10,
		HomeTeamName:   "Maple Leafs",
		HomeTeamCity:   "Toronto",
		HomeTeamAbbrev: "tor",
		AwayTeamID:     22,
		AwayTeamAbbrev: "EDM",
	}

	teams := MapBoxscoreTeams(in)
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].ID != 10 || teams[0].Abbrev != "TOR" || teams[0].Name != "Maple Leafs" {
		t.Fatalf("unexpected home team: %+v", teams[0])
	}
	if teams[1].Name != "EDM" {
		t.Fatalf("expected away name falling back to abbrev, got %+v", teams[1])
	}
}

func TestMapGamePlayers(t *testing.T) {
	t.Parallel()

	in := []UpstreamRosterPlayer{
		{PlayerID: 8478402, TeamID: 22, FirstName: "Connor", LastName: "McDavid", Number: 97, Position: "c"},
		{PlayerID: 8479318, LastName: "Matthews"},
	}

	players, err := MapGamePlayers(2025020076, in)
	if err != nil {
		t.Fatalf("map game players: %v", err)
	}
	if players[0].TeamID == nil || *players[0].TeamID != 22 || players[0].Position != "C" {
		t.Fatalf("unexpected player: %+v", players[0])
	}
	if players[1].TeamID != nil {
		t.Fatalf("expected nil team for a spot without one, got %v", *players[1].TeamID)
	}

	in[1].LastName = ""
	if _, err := MapGamePlayers(2025020076, in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure, got %v", err)
	}
}

func TestMapRosterPlayers(t *testing.T) {
	t.Parallel()

	in := []UpstreamRosterPlayer{
		{PlayerID: 8478402, FirstName: "Connor", LastName: "McDavid", Number: 97, Position: "c"},
	}
	players, err := MapRosterPlayers(22, in)
	if err != nil {
		t.Fatalf("map roster: %v", err)
	}
	if players[0].TeamID == nil || *players[0].TeamID != 22 || players[0].Position != "C" {
		t.Fatalf("unexpected player: %+v", players[0])
	}

	in[0].LastName = ""
	if _, err := MapRosterPlayers(22, in); !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("expected mapping failure, got %v", err)
	}
}
