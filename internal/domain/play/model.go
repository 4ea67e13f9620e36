package play

import "fmt"

// idSpan is the sequence-index space reserved per game when deriving
// play identifiers. NHL play-by-play feeds stay well under it.
const idSpan = 10_000

// Play is one event in a game's play-by-play feed. Plays are
// append-only: once stored, a play row changes only through an
// explicit correction pass.
type Play struct {
	ID                int64
	GameID            int64
	SequenceIndex     int
	TeamID            *int64
	PrimaryPlayerID   *int64
	SecondaryPlayerID *int64
	TertiaryPlayerID  *int64
	LosingPlayerID    *int64
	Period            int
	TimeInPeriod      string
	TimeRemaining     string
	Type              string
	Zone              string
	XCoord            *int
	YCoord            *int
}

// DeriveID builds the deterministic play identifier from its game and
// position. The same upstream event always maps to the same row.
func DeriveID(gameID int64, sequenceIndex int) int64 {
	return gameID*idSpan + int64(sequenceIndex)
}

func (p Play) Validate() error {
	if p.GameID <= 0 {
		return fmt.Errorf("play game id is required")
	}
	if p.SequenceIndex <= 0 {
		return fmt.Errorf("play sequence index must be positive")
	}
	if p.SequenceIndex >= idSpan {
		return fmt.Errorf("play sequence index %d out of range", p.SequenceIndex)
	}
	if p.ID != DeriveID(p.GameID, p.SequenceIndex) {
		return fmt.Errorf("play id %d does not match game %d index %d", p.ID, p.GameID, p.SequenceIndex)
	}
	if p.Type == "" {
		return fmt.Errorf("play type is required")
	}

	return nil
}

// Equal compares by value, following the player and coordinate
// pointers instead of comparing addresses.
func (p Play) Equal(other Play) bool {
	return p.ID == other.ID &&
		p.GameID == other.GameID &&
		p.SequenceIndex == other.SequenceIndex &&
		int64PtrEqual(p.TeamID, other.TeamID) &&
		int64PtrEqual(p.PrimaryPlayerID, other.PrimaryPlayerID) &&
		int64PtrEqual(p.SecondaryPlayerID, other.SecondaryPlayerID) &&
		int64PtrEqual(p.TertiaryPlayerID, other.TertiaryPlayerID) &&
		int64PtrEqual(p.LosingPlayerID, other.LosingPlayerID) &&
		p.Period == other.Period &&
		p.TimeInPeriod == other.TimeInPeriod &&
		p.TimeRemaining == other.TimeRemaining &&
		p.Type == other.Type &&
		p.Zone == other.Zone &&
		intPtrEqual(p.XCoord, other.XCoord) &&
		intPtrEqual(p.YCoord, other.YCoord)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ValidateSequence checks that plays form the gapless run 1..N in
// order. The slice must already be sorted by sequence index.
func ValidateSequence(plays []Play) error {
	for i, p := range plays {
		if p.SequenceIndex != i+1 {
			return fmt.Errorf("play sequence gap: position %d holds index %d", i+1, p.SequenceIndex)
		}
	}
	return nil
}
