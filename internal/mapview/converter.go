// Package mapview converts between a player's local view coordinates and
// absolute map coordinates. Grounded in the (playerPosition, visibility,
// viewGrid) convention described in spec.md §4.3/§9 and the ToMap/ToView
// pair implied by original_source/src/Map.cpp and DungeonMap.cpp.
package mapview

import "github.com/kees-jan/swoq-bot/internal/offset"

// Converter maps between view-local coordinates (centered at
// (visibility, visibility)) and absolute map coordinates centered at pos.
type Converter struct {
	pos    offset.Offset
	center offset.Offset
}

// New builds a converter for a view of the given visibility radius
// observed from pos.
func New(pos offset.Offset, visibility int) Converter {
	return Converter{pos: pos, center: offset.New(visibility, visibility)}
}

// ToMap converts a view-local coordinate to an absolute map coordinate.
func (c Converter) ToMap(viewCoord offset.Offset) offset.Offset {
	return c.pos.Add(viewCoord).Sub(c.center)
}

// ToView converts an absolute map coordinate to a view-local coordinate.
func (c Converter) ToView(mapCoord offset.Offset) offset.Offset {
	return mapCoord.Sub(c.pos).Add(c.center)
}
