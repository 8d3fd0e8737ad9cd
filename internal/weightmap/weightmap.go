// Package weightmap turns a player map plus navigation policy into the
// per-cell movement costs the Dijkstra engine consumes. Grounded in
// original_source/src/PlayerMap.h's WeightMap/AvoidEnemies templates.
package weightmap

import (
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/pathfind"
	"github.com/kees-jan/swoq-bot/internal/playermap"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// Build derives the cost grid a player may traverse, honoring the map's
// own navigationParameters.avoidEnemies policy. accept marks the
// destination predicate: any cell accept reports true for is never
// blocked and always costs 1, even if it would otherwise be a blocker.
func Build(playerIndex int, m *playermap.Map, accept func(offset.Offset) bool) grid.Grid[int] {
	return BuildWithPolicy(playerIndex, m, accept, m.NavigationParameters().AvoidEnemies)
}

// BuildWithPolicy is Build with an explicit avoidEnemies override,
// letting a caller (PeekUnderEnemies, Attack) walk through enemy-in-sight
// cells regardless of the map's own policy.
func BuildWithPolicy(playerIndex int, m *playermap.Map, accept func(offset.Offset) bool, avoidEnemies bool) grid.Grid[int] {
	size := m.Size()
	weights := grid.New[int](size.X, size.Y)
	inf := pathfind.Infinity(weights)
	nav := m.NavigationParameters()

	for _, p := range weights.Offsets() {
		cost := 1
		if !accept(p) && isBlocker(m.At(p), nav) {
			cost = inf
		}
		weights.Set(p, cost)
	}

	if avoidEnemies {
		inflateAroundEnemies(m.Enemies().InSight[playerIndex], weights, accept, inf)
	}

	return weights
}

// ForDestination is a convenience wrapper for the common case of pathing
// to one fixed cell.
func ForDestination(playerIndex int, m *playermap.Map, destination offset.Offset) grid.Grid[int] {
	return Build(playerIndex, m, func(p offset.Offset) bool { return p == destination })
}

// Full builds a weight map with no destination carve-out at all.
func Full(playerIndex int, m *playermap.Map) grid.Grid[int] {
	return Build(playerIndex, m, func(offset.Offset) bool { return false })
}

func isBlocker(t tile.Tile, nav playermap.NavigationParameters) bool {
	switch {
	case t == tile.Wall, t == tile.Boulder, t == tile.Enemy:
		return true
	case tile.IsDoor(t):
		return nav.DoorParameters[tile.DoorColorOf(t)].AvoidDoor
	case tile.IsKey(t):
		return true
	default:
		return false
	}
}

// inflateAroundEnemies raises the cost around every enemy this player
// currently sees: the enemy's own cell becomes impassable, and its four
// neighbors are raised to at least EnemyPenalty, leaving higher existing
// costs alone. Cells the destination predicate accepts are never touched.
func inflateAroundEnemies(enemyLocations offset.Set, weights grid.Grid[int], accept func(offset.Offset) bool, inf int) {
	for location := range enemyLocations {
		if !accept(location) {
			weights.Set(location, inf)
		}

		for _, d := range offset.Directions {
			p := location.Add(d)
			if !weights.IsInRange(p) || accept(p) {
				continue
			}
			if weights.At(p) < playermap.EnemyPenalty {
				weights.Set(p, playermap.EnemyPenalty)
			}
		}
	}
}
