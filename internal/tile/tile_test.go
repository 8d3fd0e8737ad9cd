package tile

import "testing"

func TestDoorColorOf(t *testing.T) {
	cases := []struct {
		t    Tile
		want DoorColor
	}{
		{DoorRed, Red}, {KeyRed, Red}, {PressurePlateRed, Red},
		{DoorGreen, Green}, {KeyGreen, Green}, {PressurePlateGreen, Green},
		{DoorBlue, Blue}, {KeyBlue, Blue}, {PressurePlateBlue, Blue},
	}
	for _, c := range cases {
		if got := DoorColorOf(c.t); got != c.want {
			t.Errorf("DoorColorOf(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestDoorColorOfPanicsForNonColoredTile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a tile with no door color")
		}
	}()
	DoorColorOf(Wall)
}

func TestDoorForRoundTrips(t *testing.T) {
	for _, c := range Colors {
		if got := DoorColorOf(DoorFor(c)); got != c {
			t.Errorf("DoorColorOf(DoorFor(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestCompareUnknownMapLearnsNewTile(t *testing.T) {
	cmp := Compare(Unknown, Wall)
	if !cmp.NeedsUpdate {
		t.Error("observing a known tile where the map has Unknown should need an update")
	}
	if cmp.NewBoulder {
		t.Error("Wall is not a boulder")
	}
}

func TestCompareUnknownMapBoulderIsFlagged(t *testing.T) {
	cmp := Compare(Unknown, Boulder)
	if !cmp.NeedsUpdate || !cmp.NewBoulder {
		t.Errorf("Compare(Unknown, Boulder) = %+v, want NeedsUpdate and NewBoulder", cmp)
	}
}

func TestCompareEnemyAlwaysFlagged(t *testing.T) {
	cmp := Compare(Wall, Enemy)
	if !cmp.IsEnemy {
		t.Error("an observed Enemy tile must always be flagged, regardless of the map tile")
	}
}

func TestCompareWallAndExitAreFinal(t *testing.T) {
	if Compare(Wall, Empty).NeedsUpdate {
		t.Error("a map cell already known as Wall should never need an update")
	}
	if Compare(Exit, Empty).NeedsUpdate {
		t.Error("a map cell already known as Exit should never need an update")
	}
}

func TestComparePlayerTileOnlyUpdatesPickupables(t *testing.T) {
	if !Compare(Boulder, Player).NeedsUpdate {
		t.Error("a player standing on a pickupable map tile should need an update")
	}
	if Compare(Empty, Player).NeedsUpdate {
		t.Error("a player standing on an already-empty map tile should not need an update")
	}
}

func TestAreConsistentRejectsContradictions(t *testing.T) {
	if !AreConsistent(Unknown, Wall) {
		t.Error("Unknown view tile is always consistent")
	}
	if !AreConsistent(Wall, Unknown) {
		t.Error("Unknown map tile is always consistent")
	}
	if AreConsistent(Wall, Empty) {
		t.Error("Wall observed where the map says Empty should be inconsistent")
	}
}

func TestCharIsStableAndDistinct(t *testing.T) {
	seen := map[byte]Tile{}
	for tl := Unknown; tl <= PressurePlateBlue; tl++ {
		c := tl.Char()
		if other, ok := seen[c]; ok {
			t.Errorf("Char() for %v and %v collide on %q", tl, other, c)
		}
		seen[c] = tl
	}
}
