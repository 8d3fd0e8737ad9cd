// Package playerstate holds the per-player mutable snapshot the
// interpreter reads and writes each tick, plus its concurrency wrapper.
// Grounded in original_source/src/Player.h's PlayerState and the
// ThreadSafe<T> guard from ThreadSafe.h.
package playerstate

import (
	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/concurrency"
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// State is one player's snapshot as of the most recent tick.
type State struct {
	Active   bool
	PlayerID int
	Position offset.Offset

	Next action.Directed

	// ReversedPath runs destination-first, excluding the current
	// position: ReversedPath[len-1] is the next step to take.
	ReversedPath []offset.Offset
	// PathLength is len(ReversedPath) as of the last path computation;
	// 0 when the destination was unreachable. Cached so the interpreter
	// can cheaply detect "already adjacent to the destination" (==1).
	PathLength int

	HasSword   bool
	Health     int
	Visibility int
	View       grid.Grid[tile.Tile]

	TerminateRequested bool
}

// New returns the empty state for a fresh player.
func New(playerID int) *State {
	return &State{PlayerID: playerID, Next: action.None}
}

// Guarded is the mutex+condvar wrapped holder the rest of the core reads
// and edits a State through.
type Guarded = concurrency.ThreadSafe[*State]

// NewGuarded wraps a fresh State for playerID.
func NewGuarded(playerID int) *Guarded {
	return concurrency.NewThreadSafe[*State](New(playerID))
}
