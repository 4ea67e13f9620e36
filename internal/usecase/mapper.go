package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/team"
)

// MapScheduleGame converts one schedule entry into its game row plus
// the two team rows it references.
func MapScheduleGame(in UpstreamScheduleGame) (game.Game, []team.Team, error) {
	g := game.Game{
		ID:           in.GameID,
		Season:       in.Season,
		Type:         in.GameType,
		StartTimeUTC: in.StartTimeUTC.UTC(),
		Venue:        strings.TrimSpace(in.Venue),
		HomeTeamID:   in.HomeTeamID,
		AwayTeamID:   in.AwayTeamID,
		State:        game.NormalizeState(in.GameState),
	}
	if err := g.Validate(); err != nil {
		return game.Game{}, nil, fmt.Errorf("%w: schedule game %d: %v", ErrMappingFailed, in.GameID, err)
	}

	teams := []team.Team{
		{
			ID:       in.HomeTeamID,
			Name:     strings.TrimSpace(in.HomeTeamName),
			City:     strings.TrimSpace(in.HomeTeamCity),
			Abbrev:   strings.ToUpper(strings.TrimSpace(in.HomeTeamAbbrev)),
			LogoURL:  strings.TrimSpace(in.HomeTeamLogo),
			IsActive: true,
		},
		{
			ID:       in.AwayTeamID,
			Name:     strings.TrimSpace(in.AwayTeamName),
			City:     strings.TrimSpace(in.AwayTeamCity),
			Abbrev:   strings.ToUpper(strings.TrimSpace(in.AwayTeamAbbrev)),
			LogoURL:  strings.TrimSpace(in.AwayTeamLogo),
			IsActive: true,
		},
	}
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return game.Game{}, nil, fmt.Errorf("%w: schedule game %d: %v", ErrMappingFailed, in.GameID, err)
		}
	}

	return g, teams, nil
}

// MapBoxscoreGame converts a boxscore into the game row it updates.
func MapBoxscoreGame(in UpstreamBoxscore) (game.Game, error) {
	g := game.Game{
		ID:              in.GameID,
		Season:          in.Season,
		Type:            in.GameType,
		StartTimeUTC:    in.StartTimeUTC.UTC(),
		Venue:           strings.TrimSpace(in.Venue),
		HomeTeamID:      in.HomeTeamID,
		AwayTeamID:      in.AwayTeamID,
		State:           game.NormalizeState(in.GameState),
		Period:          in.Period,
		Clock:           strings.TrimSpace(in.Clock),
		HomeScore:       in.HomeScore,
		AwayScore:       in.AwayScore,
		HomeShotsOnGoal: in.HomeShotsOnGoal,
		AwayShotsOnGoal: in.AwayShotsOnGoal,
	}
	if err := g.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: boxscore game %d: %v", ErrMappingFailed, in.GameID, err)
	}
	if g.HomeScore < 0 || g.AwayScore < 0 {
		return game.Game{}, fmt.Errorf("%w: boxscore game %d: negative score", ErrMappingFailed, in.GameID)
	}
	if g.Period < 0 {
		return game.Game{}, fmt.Errorf("%w: boxscore game %d: negative period", ErrMappingFailed, in.GameID)
	}

	return g, nil
}

// MapBoxscoreTeams builds the two team rows a boxscore game row
// references, so a first-sight game can commit with its foreign keys
// satisfied before any schedule sweep has seen the teams. Display
// attributes fall back to the abbrev when the feed omits them.
func MapBoxscoreTeams(in UpstreamBoxscore) []team.Team {
	home := team.Team{
		ID:       in.HomeTeamID,
		Name:     strings.TrimSpace(in.HomeTeamName),
		City:     strings.TrimSpace(in.HomeTeamCity),
		Abbrev:   strings.ToUpper(strings.TrimSpace(in.HomeTeamAbbrev)),
		LogoURL:  strings.TrimSpace(in.HomeTeamLogo),
		IsActive: true,
	}
	away := team.Team{
		ID:       in.AwayTeamID,
		Name:     strings.TrimSpace(in.AwayTeamName),
		City:     strings.TrimSpace(in.AwayTeamCity),
		Abbrev:   strings.ToUpper(strings.TrimSpace(in.AwayTeamAbbrev)),
		LogoURL:  strings.TrimSpace(in.AwayTeamLogo),
		IsActive: true,
	}
	if home.Name == "" {
		home.Name = home.Abbrev
	}
	if away.Name == "" {
		away.Name = away.Abbrev
	}

	return []team.Team{home, away}
}

// MapGamePlayers converts the roster spots shipped with a play-by-play
// feed into player rows. Spots without a team keep a nil TeamID.
func MapGamePlayers(gameID int64, in []UpstreamRosterPlayer) ([]player.Player, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	out := make([]player.Player, 0, len(in))
	for _, item := range in {
		var teamID *int64
		if item.TeamID > 0 {
			id := item.TeamID
			teamID = &id
		}
		p := player.Player{
			ID:          item.PlayerID,
			TeamID:      teamID,
			FirstName:   strings.TrimSpace(item.FirstName),
			LastName:    strings.TrimSpace(item.LastName),
			Number:      item.Number,
			Position:    strings.ToUpper(strings.TrimSpace(item.Position)),
			HeadshotURL: strings.TrimSpace(item.HeadshotURL),
			IsActive:    true,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: game %d player %d: %v", ErrMappingFailed, gameID, item.PlayerID, err)
		}
		out = append(out, p)
	}

	return out, nil
}

// MapPlays converts a play-by-play feed into play rows for gameID.
// The result is ordered by sequence index and must form the gapless
// run 1..N; a feed that cannot produce that run is rejected rather
// than partially stored.
func MapPlays(gameID int64, in []UpstreamPlay) ([]play.Play, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	out := make([]play.Play, 0, len(in))
	for _, item := range in {
		p := play.Play{
			ID:                play.DeriveID(gameID, item.SequenceIndex),
			GameID:            gameID,
			SequenceIndex:     item.SequenceIndex,
			TeamID:            item.TeamID,
			PrimaryPlayerID:   item.PrimaryPlayerID,
			SecondaryPlayerID: item.SecondaryPlayerID,
			TertiaryPlayerID:  item.TertiaryPlayerID,
			LosingPlayerID:    item.LosingPlayerID,
			Period:            item.Period,
			TimeInPeriod:      strings.TrimSpace(item.TimeInPeriod),
			TimeRemaining:     strings.TrimSpace(item.TimeRemaining),
			Type:              strings.TrimSpace(item.TypeKey),
			Zone:              strings.ToUpper(strings.TrimSpace(item.Zone)),
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: game %d play %d: %v", ErrMappingFailed, gameID, item.SequenceIndex, err)
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SequenceIndex < out[j].SequenceIndex })

	for i := 1; i < len(out); i++ {
		if out[i].SequenceIndex == out[i-1].SequenceIndex {
			return nil, fmt.Errorf("%w: game %d: duplicate sequence index %d", ErrMappingFailed, gameID, out[i].SequenceIndex)
		}
	}
	if err := play.ValidateSequence(out); err != nil {
		return nil, fmt.Errorf("%w: game %d: %v", ErrMappingFailed, gameID, err)
	}

	return out, nil
}

// MapRosterPlayers converts a roster feed into player rows.
func MapRosterPlayers(teamID int64, in []UpstreamRosterPlayer) ([]player.Player, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	out := make([]player.Player, 0, len(in))
	for _, item := range in {
		id := teamID
		p := player.Player{
			ID:          item.PlayerID,
			TeamID:      &id,
			FirstName:   strings.TrimSpace(item.FirstName),
			LastName:    strings.TrimSpace(item.LastName),
			Number:      item.Number,
			Position:    strings.ToUpper(strings.TrimSpace(item.Position)),
			HeadshotURL: strings.TrimSpace(item.HeadshotURL),
			HomeCity:    strings.TrimSpace(item.HomeCity),
			HomeCountry: strings.TrimSpace(item.HomeCountry),
			IsActive:    true,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: roster team %d player %d: %v", ErrMappingFailed, teamID, item.PlayerID, err)
		}
		out = append(out, p)
	}

	return out, nil
}
