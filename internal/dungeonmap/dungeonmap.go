// Package dungeonmap implements the ground-truth, monotonic dungeon map:
// an immutable Grid[Tile] that only ever learns new terrain, never forgets
// or overwrites it. Grounded in original_source/src/DungeonMap.h/.cpp.
package dungeonmap

import (
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/mapview"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/tile"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

// Map is an immutable snapshot of everything ever observed. Update never
// mutates the receiver; it returns either the receiver itself (no change)
// or a freshly built Map.
type Map struct {
	tiles   grid.Grid[tile.Tile]
	version int
}

// New returns an empty dungeon map of the given size.
func New(size offset.Offset) *Map {
	return &Map{tiles: grid.New[tile.Tile](size.X, size.Y)}
}

func (m *Map) Tiles() grid.Grid[tile.Tile] { return m.tiles }
func (m *Map) Version() int                { return m.version }
func (m *Map) Size() offset.Offset         { return m.tiles.Size() }
func (m *Map) IsInRange(o offset.Offset) bool { return m.tiles.IsInRange(o) }
func (m *Map) At(o offset.Offset) tile.Tile   { return m.tiles.At(o) }

// Update absorbs one player's local view, taken at visibility radius
// `visibility`, centered on pos. It returns m unchanged when the view adds
// no new knowledge, or a new Map otherwise.
func (m *Map) Update(pos offset.Offset, visibility int, view grid.Grid[tile.Tile]) *Map {
	convert := mapview.New(pos, visibility)

	needsUpdate, newSize := m.compare(view, convert)
	if !needsUpdate {
		return m
	}

	next := &Map{tiles: grid.Resized[tile.Tile](m.tiles, newSize, tile.Unknown), version: m.version + 1}
	next.apply(view, convert)
	return next
}

func (m *Map) compare(view grid.Grid[tile.Tile], convert mapview.Converter) (needsUpdate bool, newSize offset.Offset) {
	newSize = m.Size()

	for _, p := range view.Offsets() {
		viewTile := view.At(p)
		destination := convert.ToMap(p)

		if m.tiles.IsInRange(destination) {
			mapTile := m.tiles.At(destination)
			assertConsistent(viewTile, mapTile)
			if mapTile == tile.Unknown && viewTile != tile.Unknown {
				needsUpdate = true
			}
		} else if viewTile != tile.Unknown {
			newSize = offset.Max(newSize, destination.Add(offset.One))
			needsUpdate = true
		}
	}

	return needsUpdate, newSize
}

func (m *Map) apply(view grid.Grid[tile.Tile], convert mapview.Converter) {
	for _, p := range view.Offsets() {
		viewTile := view.At(p)
		destination := convert.ToMap(p)
		if !m.tiles.IsInRange(destination) {
			continue
		}

		if viewTile == tile.Unknown || viewTile == tile.Player || viewTile == tile.Enemy {
			continue
		}
		if m.tiles.At(destination) != tile.Unknown {
			continue
		}
		m.tiles.Set(destination, viewTile)
	}
}

func assertConsistent(viewTile, mapTile tile.Tile) {
	if tile.AreConsistent(viewTile, mapTile) {
		return
	}
	logger.Log.WithFields(map[string]interface{}{
		"component": "dungeonmap",
		"view":      viewTile,
		"map":       mapTile,
	}).Error("inconsistent tile observation")
	panic("dungeonmap: inconsistent tile observation")
}
