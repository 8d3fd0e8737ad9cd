// Package tile defines the closed Tile enumeration, its static properties,
// and the pure tile-comparison rules the map layers use to decide whether
// an observation changes anything. Grounded in
// original_source/src/TileProperties.h and Map.cpp/PlayerMap.cpp.
package tile

import "fmt"

// Tile is the closed set of things a grid cell can be.
type Tile int

const (
	Unknown Tile = iota
	Empty
	Wall
	Exit
	Player
	Enemy
	Boulder
	Sword
	Health
	DoorRed
	DoorGreen
	DoorBlue
	KeyRed
	KeyGreen
	KeyBlue
	PressurePlateRed
	PressurePlateGreen
	PressurePlateBlue
)

var names = map[Tile]string{
	Unknown:            "Unknown",
	Empty:              "Empty",
	Wall:               "Wall",
	Exit:               "Exit",
	Player:             "Player",
	Enemy:              "Enemy",
	Boulder:            "Boulder",
	Sword:              "Sword",
	Health:             "Health",
	DoorRed:            "DoorRed",
	DoorGreen:          "DoorGreen",
	DoorBlue:           "DoorBlue",
	KeyRed:             "KeyRed",
	KeyGreen:           "KeyGreen",
	KeyBlue:            "KeyBlue",
	PressurePlateRed:   "PressurePlateRed",
	PressurePlateGreen: "PressurePlateGreen",
	PressurePlateBlue:  "PressurePlateBlue",
}

func (t Tile) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Tile(%d)", int(t))
}

// Char renders a tile as the single ASCII character used by the
// pretty-printer.
func (t Tile) Char() byte {
	switch t {
	case Unknown:
		return ' '
	case Empty:
		return '.'
	case Wall:
		return '#'
	case Exit:
		return 'E'
	case Player:
		return 'O'
	case Enemy:
		return 'x'
	case Boulder:
		return 'B'
	case Sword:
		return '/'
	case Health:
		return '+'
	case DoorRed:
		return 'r'
	case DoorGreen:
		return 'g'
	case DoorBlue:
		return 'b'
	case KeyRed:
		return 'R'
	case KeyGreen:
		return 'G'
	case KeyBlue:
		return 'L'
	case PressurePlateRed:
		return '1'
	case PressurePlateGreen:
		return '2'
	case PressurePlateBlue:
		return '3'
	default:
		return '?'
	}
}

// DoorColor is the shared color axis for doors, keys, and pressure plates.
type DoorColor int

const (
	Red DoorColor = iota
	Green
	Blue
)

var Colors = []DoorColor{Red, Green, Blue}

func (c DoorColor) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return "<UNKNOWN>"
	}
}

// DoorColorOf maps a door/key/pressure-plate tile to its color. Panics for
// any other tile.
func DoorColorOf(t Tile) DoorColor {
	switch t {
	case DoorRed, KeyRed, PressurePlateRed:
		return Red
	case DoorGreen, KeyGreen, PressurePlateGreen:
		return Green
	case DoorBlue, KeyBlue, PressurePlateBlue:
		return Blue
	default:
		panic(fmt.Sprintf("tile: %v has no door color", t))
	}
}

// DoorFor returns the door tile for a color.
func DoorFor(c DoorColor) Tile {
	switch c {
	case Red:
		return DoorRed
	case Green:
		return DoorGreen
	case Blue:
		return DoorBlue
	default:
		panic(fmt.Sprintf("tile: unknown door color %d", c))
	}
}

type properties struct {
	canBePickedUp        bool
	canBeDropped         bool
	isPotentiallyWalkable bool
	isDoor               bool
	isKey                bool
	isPressurePlate      bool
	canMove              bool
}

var propertyTable = map[Tile]properties{
	Unknown:            {isPotentiallyWalkable: true},
	Empty:              {isPotentiallyWalkable: true},
	Wall:               {},
	Exit:               {isPotentiallyWalkable: true},
	Player:             {},
	Enemy:              {canMove: true},
	Boulder:            {canBePickedUp: true, canBeDropped: true, isPotentiallyWalkable: true},
	Sword:              {canBePickedUp: true, canBeDropped: true, isPotentiallyWalkable: true},
	Health:             {canBePickedUp: true, canBeDropped: true, isPotentiallyWalkable: true},
	DoorRed:            {isDoor: true, isPotentiallyWalkable: true},
	DoorGreen:          {isDoor: true, isPotentiallyWalkable: true},
	DoorBlue:           {isDoor: true, isPotentiallyWalkable: true},
	KeyRed:             {canBePickedUp: true, canBeDropped: true, isKey: true, isPotentiallyWalkable: true},
	KeyGreen:           {canBePickedUp: true, canBeDropped: true, isKey: true, isPotentiallyWalkable: true},
	KeyBlue:            {canBePickedUp: true, canBeDropped: true, isKey: true, isPotentiallyWalkable: true},
	PressurePlateRed:   {isPressurePlate: true, isPotentiallyWalkable: true},
	PressurePlateGreen: {isPressurePlate: true, isPotentiallyWalkable: true},
	PressurePlateBlue:  {isPressurePlate: true, isPotentiallyWalkable: true},
}

func props(t Tile) properties {
	p, ok := propertyTable[t]
	if !ok {
		panic(fmt.Sprintf("tile: no properties registered for %v", t))
	}
	return p
}

func CanBePickedUp(t Tile) bool         { return props(t).canBePickedUp }
func CanBeDropped(t Tile) bool          { return props(t).canBeDropped }
func IsPotentiallyWalkable(t Tile) bool { return props(t).isPotentiallyWalkable }
func IsDoor(t Tile) bool                { return props(t).isDoor }
func IsKey(t Tile) bool                 { return props(t).isKey }
func IsPressurePlate(t Tile) bool       { return props(t).isPressurePlate }
func CanMove(t Tile) bool               { return props(t).canMove }

// ComparisonResult is the outcome of comparing one map cell against one
// observed view cell.
type ComparisonResult struct {
	NeedsUpdate bool
	NewBoulder  bool
	IsEnemy     bool
}

// Compare implements the per-tile consistency rules of spec.md §4.2.
func Compare(mapTile, viewTile Tile) ComparisonResult {
	switch {
	case viewTile == Enemy:
		return ComparisonResult{IsEnemy: true}
	case mapTile == Wall:
		return ComparisonResult{}
	case mapTile == Exit:
		return ComparisonResult{}
	case mapTile == Unknown && viewTile == Boulder:
		return ComparisonResult{NeedsUpdate: true, NewBoulder: true}
	case mapTile == Unknown && viewTile != Unknown:
		return ComparisonResult{NeedsUpdate: true}
	case viewTile == Player:
		return ComparisonResult{NeedsUpdate: CanBePickedUp(mapTile)}
	default:
		return ComparisonResult{NeedsUpdate: viewTile != Unknown && viewTile != mapTile}
	}
}

// AreConsistent reports whether a freshly observed view tile is compatible
// with what the map already records there. Violations are programmer
// errors (spec.md §4.2, §7): corruption in the comparison/update pipeline,
// not a recoverable runtime condition.
func AreConsistent(viewTile, mapTile Tile) bool {
	return viewTile == Unknown ||
		mapTile == Unknown ||
		viewTile == mapTile ||
		CanBeDropped(viewTile) ||
		CanBePickedUp(mapTile) ||
		CanMove(viewTile) ||
		CanMove(mapTile) ||
		IsDoor(mapTile) ||
		IsDoor(viewTile)
}
