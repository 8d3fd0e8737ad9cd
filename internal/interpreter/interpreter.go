// Package interpreter executes one step of a player's head command each
// tick, consuming from that player's command queue and emitting a
// directed action. Grounded in spec behavior inferred from
// original_source/src/Player.h's ComputePathAndThen/MoveAlongPathThenUse
// templates (the .cpp bodies implementing them were not part of the
// retrieved source).
package interpreter

import (
	"fmt"
	"time"

	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/command"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/pathfind"
	"github.com/kees-jan/swoq-bot/internal/playermap"
	"github.com/kees-jan/swoq-bot/internal/playerstate"
	"github.com/kees-jan/swoq-bot/internal/tile"
	"github.com/kees-jan/swoq-bot/internal/weightmap"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

// StarvationDelay bounds the wait for a new command once the queue runs
// dry: the interpreter gives up and emits None at the queue's
// LastCommandTime plus StarvationDelay.
const StarvationDelay = 8 * time.Second

// Finished is invoked each time Tick finds a player's queue empty, before
// the interpreter starts waiting on it; the mission planner uses it to
// plan the next command sequence.
type Finished func(playerIndex int)

// Interpreter drives one player's command queue.
type Interpreter struct {
	playerIndex int
	commands    *command.Commands
	onFinished  Finished
}

// New returns an interpreter for the given player, consuming from
// commands and calling onFinished whenever the queue runs dry.
func New(playerIndex int, commands *command.Commands, onFinished Finished) *Interpreter {
	return &Interpreter{playerIndex: playerIndex, commands: commands, onFinished: onFinished}
}

// Context is the per-tick environment a command executes against. Map
// may be replaced by a command's execution (a fresh PlayerMap clone); the
// caller must take Context.Map back out after Tick returns.
type Context struct {
	PlayerIndex int
	Map         *playermap.Map
	State       *playerstate.State
}

// Tick drains done commands and returns the action for the one that
// consumed this tick, or None if the queue starved.
func (in *Interpreter) Tick(ctx *Context) (*playermap.Map, action.Directed, error) {
	for {
		proxy := in.commands.Lock()
		qs := proxy.Get()
		head := qs.Queue.Front()
		proxy.Unlock()

		if head == nil {
			in.onFinished(in.playerIndex)

			proxy = in.commands.Lock()
			deadline := proxy.Get().LastCommandTime.Add(StarvationDelay)
			proxy.WaitUntil(deadline, func(s command.QueueState) bool { return !s.Queue.Empty() })
			head = proxy.Get().Queue.Front()
			proxy.Unlock()

			if head == nil {
				ctx.State.Next = action.None
				return ctx.Map, action.None, nil
			}
			continue
		}

		done, err := in.execute(ctx, head)
		if err != nil {
			return ctx.Map, action.None, err
		}
		if done {
			proxy = in.commands.Lock()
			qs = proxy.Get()
			qs.Queue = qs.Queue.Pop()
			proxy.Set(qs)
			proxy.Unlock()
			continue
		}

		return ctx.Map, ctx.State.Next, nil
	}
}

func (in *Interpreter) execute(ctx *Context, c command.Command) (bool, error) {
	switch cmd := c.(type) {
	case *command.Explore:
		return in.execExplore(ctx)
	case *command.VisitTiles:
		return in.execVisitTiles(ctx, cmd.Tiles)
	case *command.Visit:
		return in.execVisit(ctx, cmd.Position)
	case *command.FetchKey:
		return in.execVisit(ctx, cmd.Position)
	case *command.OpenDoor:
		return in.execOpenDoor(ctx, cmd)
	case *command.FetchBoulder:
		return in.execFetchBoulder(ctx, cmd)
	case *command.DropBoulder:
		return in.execDropBoulder(ctx, cmd)
	case *command.PlaceBoulderOnPressurePlate:
		return in.execPlaceBoulderOnPressurePlate(ctx, cmd)
	case *command.ReconsiderUncheckedBoulders:
		return in.execReconsiderUncheckedBoulders(ctx)
	case *command.Wait:
		ctx.State.Next = action.None
		return false, nil
	case *command.LeaveSquare:
		return in.execLeaveSquare(ctx, cmd)
	case *command.DropDoorOnEnemy:
		return in.execDropDoorOnEnemy(ctx, cmd)
	case *command.PeekUnderEnemies:
		return in.execPeekUnderEnemies(ctx, cmd)
	case *command.Attack:
		return in.execAttack(ctx)
	case *command.HuntEnemies:
		return in.execHuntEnemies(ctx, cmd)
	case *command.Terminate:
		ctx.State.TerminateRequested = true
		ctx.State.Next = action.None
		return false, nil
	default:
		return false, fmt.Errorf("interpreter: unknown command %T", c)
	}
}

// pathTo recomputes the player's reversed path toward whatever accept
// admits, using the map's own navigation policy.
func (in *Interpreter) pathTo(ctx *Context, accept func(offset.Offset) bool) {
	w := weightmap.Build(ctx.PlayerIndex, ctx.Map, accept)
	ctx.State.ReversedPath = pathfind.ReversedPath(w, ctx.State.Position, accept)
	ctx.State.PathLength = len(ctx.State.ReversedPath)
}

// stepAlongPath emits a Move toward the next hop. It never emits Use;
// commands that want to end a path with Use call stepAlongPathOrUse.
func stepAlongPath(ctx *Context) {
	st := ctx.State
	if len(st.ReversedPath) == 0 {
		st.Next = action.None
		return
	}
	next := st.ReversedPath[len(st.ReversedPath)-1]
	st.Next = action.Move(next.Sub(st.Position))
}

// stepAlongPathOrUse emits Move toward the next hop, or Use in its
// direction when that hop is the last one. Returns whether it used.
func (in *Interpreter) stepAlongPathOrUse(ctx *Context) (bool, error) {
	st := ctx.State
	if len(st.ReversedPath) == 0 {
		return false, fmt.Errorf("interpreter: destination unreachable")
	}
	next := st.ReversedPath[len(st.ReversedPath)-1]
	direction := next.Sub(st.Position)
	if st.PathLength == 1 {
		st.Next = action.Use(direction)
		return true, nil
	}
	st.Next = action.Move(direction)
	return false, nil
}

func (in *Interpreter) execVisitTiles(ctx *Context, tiles map[tile.Tile]struct{}) (bool, error) {
	accept := func(p offset.Offset) bool {
		_, ok := tiles[ctx.Map.At(p)]
		return ok
	}
	in.pathTo(ctx, accept)
	if ctx.State.PathLength == 0 {
		return true, nil
	}
	stepAlongPath(ctx)
	return false, nil
}

func (in *Interpreter) execExplore(ctx *Context) (bool, error) {
	tiles := map[tile.Tile]struct{}{tile.Unknown: {}, tile.Health: {}}
	if !ctx.State.HasSword {
		tiles[tile.Sword] = struct{}{}
	}
	return in.execVisitTiles(ctx, tiles)
}

func (in *Interpreter) execVisit(ctx *Context, destination offset.Offset) (bool, error) {
	if ctx.State.Position == destination {
		return true, nil
	}
	accept := func(p offset.Offset) bool { return p == destination }
	in.pathTo(ctx, accept)
	if ctx.State.PathLength == 0 {
		return false, fmt.Errorf("interpreter: destination %v unreachable", destination)
	}
	stepAlongPath(ctx)
	return false, nil
}

// moveAlongPathThenUse is the common shape of every command that walks to
// a fixed cell and uses it on arrival: OpenDoor, FetchBoulder,
// PlaceBoulderOnPressurePlate. Once done is set, later ticks return
// immediately done without recomputing anything.
func (in *Interpreter) moveAlongPathThenUse(ctx *Context, done *bool, destination offset.Offset, onUse func()) (bool, error) {
	if *done {
		return true, nil
	}
	accept := func(p offset.Offset) bool { return p == destination }
	in.pathTo(ctx, accept)
	used, err := in.stepAlongPathOrUse(ctx)
	if err != nil {
		return false, err
	}
	if used {
		*done = true
		onUse()
	}
	return false, nil
}

func (in *Interpreter) execOpenDoor(ctx *Context, c *command.OpenDoor) (bool, error) {
	return in.moveAlongPathThenUse(ctx, &c.Done, c.Position, func() {
		ctx.Map = ctx.Map.WithAvoidDoorCleared(c.Color)
	})
}

func (in *Interpreter) execFetchBoulder(ctx *Context, c *command.FetchBoulder) (bool, error) {
	return in.moveAlongPathThenUse(ctx, &c.Done, c.Position, func() {
		ctx.Map = ctx.Map.WithBoulderFetched(c.Position)
	})
}

func (in *Interpreter) execPlaceBoulderOnPressurePlate(ctx *Context, c *command.PlaceBoulderOnPressurePlate) (bool, error) {
	return in.moveAlongPathThenUse(ctx, &c.Done, c.Position, func() {
		ctx.Map = ctx.Map.WithBoulderUsed(c.Position).WithAvoidDoorCleared(c.Color)
	})
}

func (in *Interpreter) execDropBoulder(ctx *Context, c *command.DropBoulder) (bool, error) {
	if c.Done {
		return true, nil
	}

	position := ctx.State.Position
	accept := func(p offset.Offset) bool {
		return p != position && ctx.Map.At(p) == tile.Empty && ctx.Map.IsGoodBoulder(p)
	}
	in.pathTo(ctx, accept)
	destination := offset.Offset{}
	if len(ctx.State.ReversedPath) > 0 {
		destination = ctx.State.ReversedPath[0]
	}

	used, err := in.stepAlongPathOrUse(ctx)
	if err != nil {
		return false, fmt.Errorf("interpreter: no reachable boulder drop cell")
	}
	if used {
		c.Done = true
		logger.Log.WithFields(map[string]interface{}{
			"component":   "interpreter",
			"destination": destination,
		}).Info("dropped boulder")
	}
	return false, nil
}

func (in *Interpreter) execReconsiderUncheckedBoulders(ctx *Context) (bool, error) {
	ctx.Map = ctx.Map.WithUncheckedBouldersReconsidered()
	return true, nil
}

func (in *Interpreter) execLeaveSquare(ctx *Context, c *command.LeaveSquare) (bool, error) {
	if c.OriginalSquare == nil {
		p := ctx.State.Position
		c.OriginalSquare = &p
	}
	if ctx.State.Position != *c.OriginalSquare {
		return true, nil
	}

	origin := *c.OriginalSquare
	accept := func(p offset.Offset) bool { return p != origin }
	in.pathTo(ctx, accept)
	if ctx.State.PathLength == 0 {
		return false, fmt.Errorf("interpreter: no cell to leave square %v to", origin)
	}
	stepAlongPath(ctx)
	return false, nil
}

func (in *Interpreter) execDropDoorOnEnemy(ctx *Context, c *command.DropDoorOnEnemy) (bool, error) {
	if c.Leaving != nil {
		return in.execLeaveSquare(ctx, c.Leaving)
	}

	if c.Waiting {
	checkEnemies:
		for loc := range ctx.Map.Enemies().Locations {
			for _, d := range offset.Directions {
				if c.DoorLocations.Contains(loc.Add(d)) {
					c.Waiting = false
					c.Leaving = &command.LeaveSquare{}
					break checkEnemies
				}
			}
		}
	}

	if c.Leaving != nil {
		return in.execLeaveSquare(ctx, c.Leaving)
	}

	ctx.State.Next = action.None
	return false, nil
}

func (in *Interpreter) execPeekUnderEnemies(ctx *Context, c *command.PeekUnderEnemies) (bool, error) {
	if c.Leaving != nil {
		done, err := in.execLeaveSquare(ctx, c.Leaving)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
		c.Leaving = nil
	}

	remaining := offset.NewSet()
	for p := range c.TileLocations {
		if ctx.Map.At(p) == tile.Unknown {
			remaining.Add(p)
		}
	}
	c.TileLocations = remaining
	if remaining.Len() == 0 {
		return true, nil
	}

	accept := func(p offset.Offset) bool { return remaining.Contains(p) }
	w := weightmap.BuildWithPolicy(ctx.PlayerIndex, ctx.Map, accept, false)
	path := pathfind.ReversedPath(w, ctx.State.Position, accept)
	if len(path) == 0 {
		ctx.State.Next = action.None
		return false, nil
	}
	target := path[0]

	if !ctx.Map.Enemies().InSight[ctx.PlayerIndex].Contains(target) {
		return in.execVisit(ctx, target)
	}

	switch distance := len(path); {
	case distance == 1:
		c.Leaving = &command.LeaveSquare{}
		return in.execPeekUnderEnemies(ctx, c)
	case distance >= 3:
		return in.execVisit(ctx, target)
	default:
		ctx.State.Next = action.None
		return false, nil
	}
}

func (in *Interpreter) execAttack(ctx *Context) (bool, error) {
	inSight := ctx.Map.Enemies().InSight[ctx.PlayerIndex]
	if inSight.Len() == 0 {
		ctx.Map = ctx.Map.WithEnemyKilled()
		return true, nil
	}
	if ctx.State.Health <= 1 {
		return true, nil
	}

	accept := func(p offset.Offset) bool { return inSight.Contains(p) }
	w := weightmap.BuildWithPolicy(ctx.PlayerIndex, ctx.Map, accept, false)
	ctx.State.ReversedPath = pathfind.ReversedPath(w, ctx.State.Position, accept)
	ctx.State.PathLength = len(ctx.State.ReversedPath)

	if ctx.State.PathLength == 0 {
		ctx.State.Next = action.None
		return false, nil
	}
	if ctx.State.PathLength == 2 {
		// Holding pattern: the enemy is two steps away. Wait for it to
		// step into adjacency rather than close in on a cell it may no
		// longer occupy by the time we arrive.
		ctx.State.Next = action.None
		return false, nil
	}

	if _, err := in.stepAlongPathOrUse(ctx); err != nil {
		return false, err
	}
	return false, nil
}

func (in *Interpreter) execHuntEnemies(ctx *Context, c *command.HuntEnemies) (bool, error) {
	remaining := offset.NewSet()
	for p := range c.RemainingToCheck {
		t := ctx.Map.At(p)
		if t == tile.Unknown || t == tile.Enemy {
			remaining.Add(p)
		}
	}
	c.RemainingToCheck = remaining

	destinations := offset.NewSet()
	for p := range ctx.Map.Enemies().Locations {
		destinations.Add(p)
	}
	for p := range remaining {
		destinations.Add(p)
	}
	if destinations.Len() == 0 {
		return true, nil
	}
	if destinations.Contains(ctx.State.Position) {
		return true, nil
	}

	accept := func(p offset.Offset) bool { return destinations.Contains(p) }
	in.pathTo(ctx, accept)
	if ctx.State.PathLength == 0 {
		ctx.State.Next = action.None
		return false, nil
	}
	stepAlongPath(ctx)
	return false, nil
}
