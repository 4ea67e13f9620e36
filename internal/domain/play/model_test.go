package play

import "testing"

func TestDeriveID(t *testing.T) {
	t.Parallel()

	if got := DeriveID(2025020076, 54); got != 20250200760054 {
		t.Fatalf("DeriveID = %d", got)
	}
	if DeriveID(2025020076, 54) == DeriveID(2025020076, 55) {
		t.Fatalf("adjacent plays must not collide")
	}
	if DeriveID(2025020076, 54) == DeriveID(2025020077, 54) {
		t.Fatalf("same index across games must not collide")
	}
}

func TestPlayValidate(t *testing.T) {
	t.Parallel()

	valid := Play{
		ID:            DeriveID(2025020076, 1),
		GameID:        2025020076,
		SequenceIndex: 1,
		Period:        1,
		TimeInPeriod:  "00:42",
		Type:          "faceoff",
		Zone:          "N",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid play, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Play)
	}{
		{"zero sequence", func(p *Play) { p.SequenceIndex = 0; p.ID = DeriveID(p.GameID, 0) }},
		{"mismatched id", func(p *Play) { p.ID++ }},
		{"missing type", func(p *Play) { p.Type = "" }},
		{"index overflow", func(p *Play) { p.SequenceIndex = 10_000; p.ID = DeriveID(p.GameID, 10_000) }},
	}
	for _, tc := range cases {
		p := valid
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateSequence(t *testing.T) {
	t.Parallel()

	gapless := []Play{
		{GameID: 1, SequenceIndex: 1},
		{GameID: 1, SequenceIndex: 2},
		{GameID: 1, SequenceIndex: 3},
	}
	if err := ValidateSequence(gapless); err != nil {
		t.Fatalf("expected gapless run to pass: %v", err)
	}

	gapped := []Play{
		{GameID: 1, SequenceIndex: 1},
		{GameID: 1, SequenceIndex: 3},
	}
	if err := ValidateSequence(gapped); err == nil {
		t.Fatalf("expected gap to fail validation")
	}

	if err := ValidateSequence(nil); err != nil {
		t.Fatalf("empty run is valid: %v", err)
	}
}
