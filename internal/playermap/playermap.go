// Package playermap implements the per-episode player map: the current
// best model of the dungeon, with doors, boulders, keys, and enemies
// tracked and retired as they are resolved. Grounded in
// original_source/src/PlayerMap.h/.cpp and Map.cpp's boulder classifier.
package playermap

import (
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/mapview"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// EnemyPenalty is both the enemy-sighting countdown seed and the weight
// the builder assigns to a cell adjacent to a sighted enemy.
const EnemyPenalty = 15

// DoorData collects everything known about one door color.
type DoorData struct {
	KeyPosition           *offset.Offset
	PressurePlatePosition *offset.Offset
	DoorPositions         offset.Set
}

func newDoorData() *DoorData {
	return &DoorData{DoorPositions: offset.NewSet()}
}

func (d *DoorData) clone() *DoorData {
	return &DoorData{
		KeyPosition:           d.KeyPosition,
		PressurePlatePosition: d.PressurePlatePosition,
		DoorPositions:         d.DoorPositions.Clone(),
	}
}

// DoorParameters is the navigation policy for one door color.
type DoorParameters struct {
	AvoidDoor bool
}

// NavigationParameters is the weight-map policy the interpreter mutates as
// doors fall and plates activate.
type NavigationParameters struct {
	DoorParameters map[tile.DoorColor]DoorParameters
	AvoidEnemies   bool
}

func defaultNavigationParameters() NavigationParameters {
	np := NavigationParameters{DoorParameters: map[tile.DoorColor]DoorParameters{}, AvoidEnemies: true}
	for _, c := range tile.Colors {
		np.DoorParameters[c] = DoorParameters{AvoidDoor: true}
	}
	return np
}

func (np NavigationParameters) clone() NavigationParameters {
	out := NavigationParameters{DoorParameters: map[tile.DoorColor]DoorParameters{}, AvoidEnemies: np.AvoidEnemies}
	for c, p := range np.DoorParameters {
		out.DoorParameters[c] = p
	}
	return out
}

// Enemies tracks what each player has seen of the things that move.
type Enemies struct {
	Locations map[offset.Offset]int
	InSight   [2]offset.Set
	Killed    int
}

func newEnemies() Enemies {
	return Enemies{
		Locations: map[offset.Offset]int{},
		InSight:   [2]offset.Set{offset.NewSet(), offset.NewSet()},
	}
}

func (e Enemies) clone() Enemies {
	locations := make(map[offset.Offset]int, len(e.Locations))
	for p, c := range e.Locations {
		locations[p] = c
	}
	return Enemies{
		Locations: locations,
		InSight:   [2]offset.Set{e.InSight[0].Clone(), e.InSight[1].Clone()},
		Killed:    e.Killed,
	}
}

// Map is an immutable snapshot of the dynamic dungeon state: the current
// tile of every cell, rewritten when doors, boulders, and pickups change
// after DungeonMap has recorded their first sighting, plus enemy tracking
// and the navigation policy those changes feed into the weight-map
// builder.
type Map struct {
	tiles                grid.Grid[tile.Tile]
	exit                 *offset.Offset
	doorData             map[tile.DoorColor]*DoorData
	uncheckedBoulders    offset.Set
	usedBoulders         offset.Set
	enemies              Enemies
	navigationParameters NavigationParameters
}

// New returns an empty player map of the given size.
func New(size offset.Offset) *Map {
	m := &Map{
		tiles:                grid.New[tile.Tile](size.X, size.Y),
		doorData:             map[tile.DoorColor]*DoorData{},
		uncheckedBoulders:    offset.NewSet(),
		usedBoulders:         offset.NewSet(),
		enemies:              newEnemies(),
		navigationParameters: defaultNavigationParameters(),
	}
	for _, c := range tile.Colors {
		m.doorData[c] = newDoorData()
	}
	return m
}

func (m *Map) Tiles() grid.Grid[tile.Tile]    { return m.tiles }
func (m *Map) Size() offset.Offset            { return m.tiles.Size() }
func (m *Map) IsInRange(o offset.Offset) bool { return m.tiles.IsInRange(o) }
func (m *Map) At(o offset.Offset) tile.Tile   { return m.tiles.At(o) }
func (m *Map) Exit() *offset.Offset           { return m.exit }

func (m *Map) DoorData(c tile.DoorColor) *DoorData                 { return m.doorData[c] }
func (m *Map) UncheckedBoulders() offset.Set                       { return m.uncheckedBoulders }
func (m *Map) UsedBoulders() offset.Set                            { return m.usedBoulders }
func (m *Map) Enemies() Enemies                                    { return m.enemies }
func (m *Map) NavigationParameters() NavigationParameters           { return m.navigationParameters }

// clone deep-copies every collaborator and resizes the tile grid,
// preserving whatever the prefix already held.
func (m *Map) clone(newSize offset.Offset) *Map {
	next := &Map{
		tiles:                grid.Resized[tile.Tile](m.tiles, newSize, tile.Unknown),
		exit:                 m.exit,
		doorData:             map[tile.DoorColor]*DoorData{},
		uncheckedBoulders:    m.uncheckedBoulders.Clone(),
		usedBoulders:         m.usedBoulders.Clone(),
		enemies:              m.enemies.clone(),
		navigationParameters: m.navigationParameters.clone(),
	}
	for c, d := range m.doorData {
		next.doorData[c] = d.clone()
	}
	return next
}

// comparisonResult is the compare-stage output consumed only by Update.
type comparisonResult struct {
	newMapSize         offset.Offset
	needsUpdate        bool
	newBoulders        offset.Set
	newEnemies         offset.Set
	disappearedEnemies offset.Set
}

func (m *Map) compare(playerIndex int, convert mapview.Converter, view grid.Grid[tile.Tile]) comparisonResult {
	result := comparisonResult{
		newMapSize:  m.Size(),
		newBoulders: offset.NewSet(),
		newEnemies:  offset.NewSet(),
	}

	for _, p := range view.Offsets() {
		viewTile := view.At(p)
		destination := convert.ToMap(p)
		inRange := m.tiles.IsInRange(destination)

		mapTile := tile.Unknown
		if inRange {
			mapTile = m.tiles.At(destination)
		}

		cmp := tile.Compare(mapTile, viewTile)
		if cmp.IsEnemy {
			result.newEnemies.Add(destination)
		}
		if cmp.NewBoulder {
			result.newBoulders.Add(destination)
		}

		if inRange {
			if cmp.NeedsUpdate {
				result.needsUpdate = true
			}
		} else if viewTile != tile.Unknown {
			result.newMapSize = offset.Max(result.newMapSize, destination.Add(offset.One))
			result.needsUpdate = true
		}
	}

	result.disappearedEnemies = offset.NewSet()
	for loc := range m.enemies.Locations {
		vp := convert.ToView(loc)
		if !view.IsInRange(vp) {
			continue
		}
		vt := view.At(vp)
		if vt != tile.Unknown && vt != tile.Enemy {
			result.disappearedEnemies.Add(loc)
		}
	}
	if result.disappearedEnemies.Len() > 0 {
		result.needsUpdate = true
	}

	if !result.newEnemies.Equal(m.enemies.InSight[playerIndex]) {
		result.needsUpdate = true
	}
	if len(m.enemies.Locations) > 0 {
		result.needsUpdate = true
	}

	return result
}

// Update absorbs one player's local view. playerIndex selects which of
// the two inSight slots this observation belongs to. Returns m unchanged
// when nothing new was learned.
func (m *Map) Update(playerIndex int, pos offset.Offset, visibility int, view grid.Grid[tile.Tile]) *Map {
	convert := mapview.New(pos, visibility)
	result := m.compare(playerIndex, convert, view)
	if !result.needsUpdate {
		return m
	}

	next := m.clone(result.newMapSize)
	next.apply(playerIndex, convert, view, result)
	return next
}

func (m *Map) apply(playerIndex int, convert mapview.Converter, view grid.Grid[tile.Tile], result comparisonResult) {
	for _, p := range view.Offsets() {
		viewTile := view.At(p)
		destination := convert.ToMap(p)

		switch {
		case viewTile == tile.Exit:
			if m.exit == nil {
				e := destination
				m.exit = &e
			}
		case tile.IsDoor(viewTile):
			m.doorData[tile.DoorColorOf(viewTile)].DoorPositions.Add(destination)
		case tile.IsKey(viewTile):
			dd := m.doorData[tile.DoorColorOf(viewTile)]
			if dd.KeyPosition == nil {
				p := destination
				dd.KeyPosition = &p
			}
		case tile.IsPressurePlate(viewTile):
			dd := m.doorData[tile.DoorColorOf(viewTile)]
			if dd.PressurePlatePosition == nil {
				p := destination
				dd.PressurePlatePosition = &p
			}
		}

		if viewTile == tile.Player {
			if tile.CanBePickedUp(m.tiles.At(destination)) {
				m.tiles.Set(destination, tile.Empty)
			}
			continue
		}
		if viewTile == tile.Unknown || viewTile == tile.Enemy {
			continue
		}
		if m.tiles.At(destination) != viewTile {
			m.tiles.Set(destination, viewTile)
		}
	}

	for loc, countdown := range m.enemies.Locations {
		countdown--
		if countdown <= 0 || result.disappearedEnemies.Contains(loc) {
			delete(m.enemies.Locations, loc)
		} else {
			m.enemies.Locations[loc] = countdown
		}
	}
	for loc := range result.newEnemies {
		m.enemies.Locations[loc] = EnemyPenalty
	}
	m.enemies.InSight[playerIndex] = result.newEnemies

	for p := range result.newBoulders {
		m.uncheckedBoulders.Add(p)
	}
}

// boulderCycle is the eight-neighbor cyclic scan order IsGoodBoulder walks.
var boulderCycle = []offset.Offset{
	offset.NorthEast, offset.East, offset.SouthEast, offset.South,
	offset.SouthWest, offset.West, offset.NorthWest, offset.North,
}

// IsGoodBoulder reports whether dropping a boulder at position leaves
// every adjacent empty cell still connected to the rest of the map.
func (m *Map) IsGoodBoulder(position offset.Offset) bool {
	isEmpty := func(p offset.Offset) bool {
		return m.tiles.IsInRange(p) && tile.IsPotentiallyWalkable(m.tiles.At(p))
	}

	previousEmpty := isEmpty(position.Add(offset.NorthWest))
	currentEmpty := isEmpty(position.Add(offset.North))
	partiallyIsolated := 0
	doublyIsolated := 0

	for _, d := range boulderCycle {
		nextEmpty := isEmpty(position.Add(d))
		switch {
		case currentEmpty && !previousEmpty && !nextEmpty:
			doublyIsolated++
		case currentEmpty && (!previousEmpty || !nextEmpty):
			partiallyIsolated++
		}
		previousEmpty = currentEmpty
		currentEmpty = nextEmpty
	}

	return (doublyIsolated == 0 && partiallyIsolated <= 2) || (doublyIsolated == 1 && partiallyIsolated == 0)
}

// IsBadBoulder reports whether any neighbor of position is still Unknown,
// meaning the cell cannot yet be judged.
func (m *Map) IsBadBoulder(position offset.Offset) bool {
	for _, d := range offset.AllDirections {
		p := position.Add(d)
		t := tile.Unknown
		if m.tiles.IsInRange(p) {
			t = m.tiles.At(p)
		}
		if t == tile.Unknown {
			return true
		}
	}
	return false
}

// WithAvoidDoorCleared returns a clone with the color's avoidDoor policy
// turned off, once that door falls or its plate activates.
func (m *Map) WithAvoidDoorCleared(color tile.DoorColor) *Map {
	next := m.clone(m.Size())
	p := next.navigationParameters.DoorParameters[color]
	p.AvoidDoor = false
	next.navigationParameters.DoorParameters[color] = p
	return next
}

// WithBoulderFetched returns a clone with pos retired from both boulder
// sets, once a player has picked it up.
func (m *Map) WithBoulderFetched(pos offset.Offset) *Map {
	next := m.clone(m.Size())
	next.uncheckedBoulders.Remove(pos)
	next.usedBoulders.Remove(pos)
	return next
}

// WithBoulderUsed returns a clone recording pos as committed to a
// pressure plate.
func (m *Map) WithBoulderUsed(pos offset.Offset) *Map {
	next := m.clone(m.Size())
	next.uncheckedBoulders.Remove(pos)
	next.usedBoulders.Add(pos)
	return next
}

// WithUncheckedBouldersReconsidered returns a clone whose uncheckedBoulders
// keeps only the positions that still fail IsGoodBoulder.
func (m *Map) WithUncheckedBouldersReconsidered() *Map {
	next := m.clone(m.Size())
	remaining := offset.NewSet()
	for p := range next.uncheckedBoulders {
		if !next.IsGoodBoulder(p) {
			remaining.Add(p)
		}
	}
	next.uncheckedBoulders = remaining
	return next
}

// WithEnemyKilled returns a clone with the kill counter incremented.
func (m *Map) WithEnemyKilled() *Map {
	next := m.clone(m.Size())
	next.enemies.Killed++
	return next
}
