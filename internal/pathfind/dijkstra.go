// Package pathfind implements the Dijkstra distance-field / reversed-path
// engine used by the command interpreter to turn a weight map into moves.
// Grounded in original_source/src/Dijkstra.h, with the priority queue
// expressed via container/heap the way the teacher's
// internal/engine/turn_queue.go drives its turn order.
package pathfind

import (
	"container/heap"

	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
)

// Infinity is a cost large enough that no sum of real edge weights can
// reach it through overflow, yet small enough to add safely during
// relaxation. Matches 2*W*H*100 from the original implementation.
func Infinity(w grid.Grid[int]) int {
	return 2 * w.Width() * w.Height() * 100
}

type queueEntry struct {
	distance int
	pos      offset.Offset
}

type priorityQueue []queueEntry

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].distance < pq[j].distance }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueEntry)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// DistanceMap runs Dijkstra from start over weights, relaxing the four
// cardinal neighbors. It stops early and returns the popped cell as the
// destination the first time accept(p) is true. Pass an accept that always
// returns false to fill the whole distance field.
func DistanceMap(weights grid.Grid[int], start offset.Offset, accept func(offset.Offset) bool) (grid.Grid[int], *offset.Offset) {
	if !weights.IsInRange(start) {
		panic("pathfind: start out of range")
	}

	inf := Infinity(weights)
	dist := grid.NewFilled[int](weights.Width(), weights.Height(), inf)
	dist.Set(start, 0)

	pq := priorityQueue{{distance: 0, pos: start}}
	heap.Init(&pq)

	var destination *offset.Offset

	for pq.Len() > 0 {
		top := heap.Pop(&pq).(queueEntry)
		if top.distance > dist.At(top.pos) {
			continue
		}

		if accept(top.pos) {
			p := top.pos
			destination = &p
			break
		}

		for _, dir := range offset.Directions {
			np := top.pos.Add(dir)
			if !dist.IsInRange(np) {
				continue
			}
			nd := top.distance + weights.At(np)
			if nd < dist.At(np) {
				dist.Set(np, nd)
				heap.Push(&pq, queueEntry{distance: nd, pos: np})
			}
		}
	}

	return dist, destination
}

// FillDistanceMap fills the whole distance field from start, ignoring any
// destination predicate.
func FillDistanceMap(weights grid.Grid[int], start offset.Offset) grid.Grid[int] {
	dist, _ := DistanceMap(weights, start, func(offset.Offset) bool { return false })
	return dist
}

// mixedDirections alternates the tie-break order used when walking a
// reversed path backwards, so successive hops don't all break ties the
// same way (a purely stylistic anti-zig-zag measure from the original).
var mixedDirections = [2][]offset.Offset{
	{offset.Up, offset.Right, offset.Down, offset.Left},
	{offset.Left, offset.Down, offset.Right, offset.Up},
}

// ReversedPath finds the closest cell matching accept and returns the path
// from it back to (but excluding) start, destination-first. Returns nil if
// no cell matches accept, or if start itself matches (nothing to do).
func ReversedPath(weights grid.Grid[int], start offset.Offset, accept func(offset.Offset) bool) []offset.Offset {
	dist, destination := DistanceMap(weights, start, accept)
	if destination == nil {
		return nil
	}

	inf := Infinity(weights)
	d := *destination
	if dist.At(d) >= inf {
		return nil
	}

	var path []offset.Offset
	toggle := 0
	for d != start {
		path = append(path, d)

		best := offset.Offset{}
		bestDist := -1
		for _, dir := range mixedDirections[toggle] {
			p := d.Add(dir)
			if !dist.IsInRange(p) {
				continue
			}
			if bestDist == -1 || dist.At(p) < bestDist {
				bestDist = dist.At(p)
				best = p
			}
		}
		if bestDist == -1 {
			// Unreachable in practice: start is always in range, so the
			// loop always finds at least one admissible in-range neighbor
			// on the way back down to it.
			break
		}
		d = best
		toggle = 1 - toggle
	}

	return path
}
