package pathfind

import (
	"testing"

	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
)

func uniformWeights(w, h int) grid.Grid[int] {
	return grid.NewFilled[int](w, h, 1)
}

func TestDistanceMapFindsClosest(t *testing.T) {
	weights := uniformWeights(5, 5)
	start := offset.Offset{X: 0, Y: 0}
	target := offset.Offset{X: 2, Y: 0}

	dist, dest := DistanceMap(weights, start, func(p offset.Offset) bool { return p == target })
	if dest == nil || *dest != target {
		t.Fatalf("DistanceMap destination = %v, want %v", dest, target)
	}
	if got := dist.At(target); got != 2 {
		t.Errorf("distance to target = %d, want 2", got)
	}
}

func TestDistanceMapUnreachableAcceptReturnsNil(t *testing.T) {
	weights := uniformWeights(3, 3)
	start := offset.Offset{X: 0, Y: 0}
	_, dest := DistanceMap(weights, start, func(offset.Offset) bool { return false })
	if dest != nil {
		t.Errorf("expected nil destination when accept never matches, got %v", dest)
	}
}

func TestDistanceMapRespectsWalls(t *testing.T) {
	// A 3x3 grid with the middle column walled off except for a gap at y=2,
	// forcing the path to detour around.
	w := grid.New[int](3, 3)
	inf := Infinity(w)
	for _, o := range w.Offsets() {
		w.Set(o, 1)
	}
	w.Set(offset.Offset{X: 1, Y: 0}, inf)
	w.Set(offset.Offset{X: 1, Y: 1}, inf)

	start := offset.Offset{X: 0, Y: 0}
	target := offset.Offset{X: 2, Y: 0}
	dist, dest := DistanceMap(w, start, func(p offset.Offset) bool { return p == target })
	if dest == nil {
		t.Fatal("expected target to be reachable via the detour")
	}
	if got := dist.At(*dest); got <= 2 {
		t.Errorf("distance %d should reflect the detour, want > 2 (direct distance)", got)
	}
}

func TestReversedPathExcludesStartAndEndsAtDestination(t *testing.T) {
	weights := uniformWeights(4, 1)
	start := offset.Offset{X: 0, Y: 0}
	target := offset.Offset{X: 3, Y: 0}

	path := ReversedPath(weights, start, func(p offset.Offset) bool { return p == target })
	if len(path) != 3 {
		t.Fatalf("len(path) = %d, want 3", len(path))
	}
	if path[0] != target {
		t.Errorf("path[0] = %v, want destination %v", path[0], target)
	}
	for _, p := range path {
		if p == start {
			t.Errorf("path should exclude the start cell, found %v", p)
		}
	}
}

func TestReversedPathNilWhenStartMatchesAccept(t *testing.T) {
	weights := uniformWeights(3, 3)
	start := offset.Offset{X: 1, Y: 1}
	path := ReversedPath(weights, start, func(p offset.Offset) bool { return p == start })
	if path != nil {
		t.Errorf("ReversedPath() = %v, want nil when start already matches accept", path)
	}
}

func TestReversedPathNilWhenUnreachable(t *testing.T) {
	w := grid.New[int](3, 1)
	inf := Infinity(w)
	w.Set(offset.Offset{X: 0, Y: 0}, 1)
	w.Set(offset.Offset{X: 1, Y: 0}, inf)
	w.Set(offset.Offset{X: 2, Y: 0}, 1)

	path := ReversedPath(w, offset.Offset{X: 0, Y: 0}, func(p offset.Offset) bool {
		return p == (offset.Offset{X: 2, Y: 0})
	})
	if path != nil {
		t.Errorf("ReversedPath() = %v, want nil across an impassable wall", path)
	}
}
