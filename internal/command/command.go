// Package command implements the tagged-union command variants the
// interpreter consumes, one FIFO queue per player. Grounded in
// original_source/src/Commands.h.
package command

import (
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// Command is the marker interface implemented by every command variant.
type Command interface {
	command()
}

// Explore visits the nearest Unknown cell (or Health, or Sword when the
// player lacks one).
type Explore struct{}

// VisitTiles paths to the nearest cell whose map tile is in Tiles.
type VisitTiles struct {
	Tiles map[tile.Tile]struct{}
}

// NewVisitTiles builds a VisitTiles command over the given tile set.
func NewVisitTiles(tiles ...tile.Tile) *VisitTiles {
	set := make(map[tile.Tile]struct{}, len(tiles))
	for _, t := range tiles {
		set[t] = struct{}{}
	}
	return &VisitTiles{Tiles: set}
}

// Visit paths to one fixed destination cell.
type Visit struct {
	Position offset.Offset
}

// FetchKey paths to a key and picks it up on arrival.
type FetchKey struct {
	Position offset.Offset
}

// OpenDoor paths to a door and uses it open, ignoring the door's own
// blocking weight for that one destination.
type OpenDoor struct {
	Position offset.Offset
	Color    tile.DoorColor
	Done     bool
}

// FetchBoulder paths to a boulder and picks it up on arrival.
type FetchBoulder struct {
	Position offset.Offset
	Done     bool
}

// DropBoulder paths to the nearest good boulder-drop cell and drops the
// carried boulder there.
type DropBoulder struct {
	Done bool
}

// PlaceBoulderOnPressurePlate paths to a plate and drops the carried
// boulder onto it.
type PlaceBoulderOnPressurePlate struct {
	Position offset.Offset
	Color    tile.DoorColor
	Done     bool
}

// ReconsiderUncheckedBoulders re-evaluates every unchecked boulder now
// that more of the map is known, dropping the ones that turn out good.
type ReconsiderUncheckedBoulders struct{}

// Wait idles for one tick, emitting no action.
type Wait struct{}

// LeaveSquare paths away from OriginalSquare (the position recorded the
// first time this command ticks) to any other reachable cell.
type LeaveSquare struct {
	OriginalSquare *offset.Offset
}

// DropDoorOnEnemy waits on a plate until a tracked enemy comes adjacent
// to one of DoorLocations, then steps off to let the door fall.
type DropDoorOnEnemy struct {
	DoorLocations offset.Set
	Waiting       bool
	Leaving       *LeaveSquare
}

// NewDropDoorOnEnemy builds a DropDoorOnEnemy watching the given doors.
func NewDropDoorOnEnemy(doors offset.Set) *DropDoorOnEnemy {
	return &DropDoorOnEnemy{DoorLocations: doors, Waiting: true}
}

// PeekUnderEnemies resolves every Unknown cell in TileLocations, either
// by visiting it directly or by maneuvering the enemy standing on it out
// of the way.
type PeekUnderEnemies struct {
	TileLocations offset.Set
	Leaving       *LeaveSquare
}

// Attack engages every enemy in sight until none remain.
type Attack struct{}

// HuntEnemies walks every remaining suspected enemy location until all
// are confirmed gone.
type HuntEnemies struct {
	RemainingToCheck offset.Set
}

// Terminate requests that the tick loop exit after this tick.
type Terminate struct{}

func (*Explore) command()                     {}
func (*VisitTiles) command()                  {}
func (*Visit) command()                       {}
func (*FetchKey) command()                    {}
func (*OpenDoor) command()                    {}
func (*FetchBoulder) command()                {}
func (*DropBoulder) command()                 {}
func (*PlaceBoulderOnPressurePlate) command()  {}
func (*ReconsiderUncheckedBoulders) command() {}
func (*Wait) command()                        {}
func (*LeaveSquare) command()                 {}
func (*DropDoorOnEnemy) command()             {}
func (*PeekUnderEnemies) command()            {}
func (*Attack) command()                      {}
func (*HuntEnemies) command()                 {}
func (*Terminate) command()                   {}

// Queue is a plain FIFO of commands, held in the QueueState that
// ThreadSafe[QueueState] guards.
type Queue struct {
	items []Command
}

// Push appends a command to the back of the queue.
func (q Queue) Push(c Command) Queue {
	return Queue{items: append(append([]Command{}, q.items...), c)}
}

// Front returns the head command, or nil if the queue is empty.
func (q Queue) Front() Command {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop returns the queue with its head command removed.
func (q Queue) Pop() Queue {
	if len(q.items) == 0 {
		return q
	}
	return Queue{items: q.items[1:]}
}

// Empty reports whether the queue has no commands left.
func (q Queue) Empty() bool { return len(q.items) == 0 }

// Len reports the number of queued commands.
func (q Queue) Len() int { return len(q.items) }

// Set replaces the whole queue with cmds.
func Set(cmds ...Command) Queue { return Queue{items: cmds} }

// FirstDo returns a queue with cmds inserted ahead of q's existing
// commands.
func (q Queue) FirstDo(cmds ...Command) Queue {
	return Queue{items: append(append([]Command{}, cmds...), q.items...)}
}
