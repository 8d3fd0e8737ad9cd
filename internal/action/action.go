// Package action defines the directed action the interpreter emits for a
// player each tick: move or use a tile in a cardinal direction, or do
// nothing. Grounded in original_source/src/Commands.h's Action variant
// and spec.md §6's wire enumeration.
package action

import "github.com/kees-jan/swoq-bot/internal/offset"

// Directed is the action emitted for one player on one tick.
type Directed int

const (
	None Directed = iota
	MoveNorth
	MoveEast
	MoveSouth
	MoveWest
	UseNorth
	UseEast
	UseSouth
	UseWest
)

var names = map[Directed]string{
	None:      "None",
	MoveNorth: "MoveNorth",
	MoveEast:  "MoveEast",
	MoveSouth: "MoveSouth",
	MoveWest:  "MoveWest",
	UseNorth:  "UseNorth",
	UseEast:   "UseEast",
	UseSouth:  "UseSouth",
	UseWest:   "UseWest",
}

func (d Directed) String() string { return names[d] }

var moveByDirection = map[offset.Offset]Directed{
	offset.North: MoveNorth,
	offset.East:  MoveEast,
	offset.South: MoveSouth,
	offset.West:  MoveWest,
}

var useByDirection = map[offset.Offset]Directed{
	offset.North: UseNorth,
	offset.East:  UseEast,
	offset.South: UseSouth,
	offset.West:  UseWest,
}

// Move returns the Move action for a unit cardinal direction. Panics if
// direction is not one of the four cardinals.
func Move(direction offset.Offset) Directed {
	d, ok := moveByDirection[direction]
	if !ok {
		panic("action: direction is not a unit cardinal")
	}
	return d
}

// Use returns the Use action for a unit cardinal direction. Panics if
// direction is not one of the four cardinals.
func Use(direction offset.Offset) Directed {
	d, ok := useByDirection[direction]
	if !ok {
		panic("action: direction is not a unit cardinal")
	}
	return d
}
