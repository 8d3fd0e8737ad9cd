package action

import (
	"testing"

	"github.com/kees-jan/swoq-bot/internal/offset"
)

func TestMoveAndUseCoverAllCardinals(t *testing.T) {
	cases := []struct {
		dir      offset.Offset
		wantMove Directed
		wantUse  Directed
	}{
		{offset.North, MoveNorth, UseNorth},
		{offset.East, MoveEast, UseEast},
		{offset.South, MoveSouth, UseSouth},
		{offset.West, MoveWest, UseWest},
	}
	for _, c := range cases {
		if got := Move(c.dir); got != c.wantMove {
			t.Errorf("Move(%v) = %v, want %v", c.dir, got, c.wantMove)
		}
		if got := Use(c.dir); got != c.wantUse {
			t.Errorf("Use(%v) = %v, want %v", c.dir, got, c.wantUse)
		}
	}
}

func TestMovePanicsOnNonCardinal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a non-cardinal direction")
		}
	}()
	Move(offset.NorthEast)
}

func TestUsePanicsOnZeroOffset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for the zero offset")
		}
	}()
	Use(offset.Offset{})
}

func TestStringCoversEveryValue(t *testing.T) {
	for d := None; d <= UseWest; d++ {
		if d.String() == "" {
			t.Errorf("String() for %d is empty", int(d))
		}
	}
}
