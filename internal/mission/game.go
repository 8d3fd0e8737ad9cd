// Package mission implements the mission planner: one state machine
// replica per player, lead/follower roles, enqueuing command sequences
// in response to map updates and completed command queues. Grounded in
// spec behavior inferred from original_source/src/Game.h/.cpp's event
// names (LevelReached, MapUpdated, Finished, CheckPlayerPresence).
package mission

import (
	"github.com/kees-jan/swoq-bot/internal/command"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/pathfind"
	"github.com/kees-jan/swoq-bot/internal/playermap"
	"github.com/kees-jan/swoq-bot/internal/playerstate"
	"github.com/kees-jan/swoq-bot/internal/tile"
	"github.com/kees-jan/swoq-bot/internal/weightmap"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

// PlayerPlanState is where one player's planner currently sits.
type PlayerPlanState int

const (
	Idle PlayerPlanState = iota
	Exploring
	OpeningDoor
	ReconsideringUncheckedBoulders
	MovingBoulder
	MovingToExit
	Terminating
	PeekingBelowEnemy
	AttackingEnemy
	HuntingEnemies
	DroppingDoorOnEnemy
	Inactive
)

var planStateNames = map[PlayerPlanState]string{
	Idle:                           "Idle",
	Exploring:                      "Exploring",
	OpeningDoor:                    "OpeningDoor",
	ReconsideringUncheckedBoulders: "ReconsideringUncheckedBoulders",
	MovingBoulder:                  "MovingBoulder",
	MovingToExit:                   "MovingToExit",
	Terminating:                    "Terminating",
	PeekingBelowEnemy:              "PeekingBelowEnemy",
	AttackingEnemy:                 "AttackingEnemy",
	HuntingEnemies:                 "HuntingEnemies",
	DroppingDoorOnEnemy:            "DroppingDoorOnEnemy",
	Inactive:                       "Inactive",
}

func (s PlayerPlanState) String() string { return planStateNames[s] }

type playerPlan struct {
	state PlayerPlanState
}

// Game is the mission planner shared across both players.
type Game struct {
	numPlayers             int
	level                  int
	leadPlayerID           int
	plans                  [2]playerPlan
	originalEnemyLocations offset.Set
	commands               [2]*command.Commands
}

// New returns a planner driving numPlayers (1 or 2) players, reading and
// writing their command queues directly.
func New(numPlayers int, commands [2]*command.Commands) *Game {
	return &Game{
		numPlayers:             numPlayers,
		commands:               commands,
		originalEnemyLocations: offset.NewSet(),
	}
}

func (g *Game) setState(playerIndex int, s PlayerPlanState) { g.plans[playerIndex].state = s }

// PlanState reports a player's current planner state.
func (g *Game) PlanState(playerIndex int) PlayerPlanState { return g.plans[playerIndex].state }

// LeadPlayerID reports which player currently drives goal selection.
func (g *Game) LeadPlayerID() int { return g.leadPlayerID }

// LevelReached resets planner state for a new level. Map and queue
// resets are the tick loop's responsibility.
func (g *Game) LevelReached(level int) {
	logger.Log.WithField("level", level).Info("level reached")
	g.level = level
	g.leadPlayerID = 0
	g.originalEnemyLocations = offset.NewSet()
	for i := range g.plans {
		g.plans[i] = playerPlan{state: Idle}
	}
}

// MapUpdated runs the priority overrides: an armed, healthy player with
// enemies in sight attacks; a player whose sighted enemies obscure
// Unknown ground peeks under them. Neither interrupts active engagement
// states.
func (g *Game) MapUpdated(m *playermap.Map, states [2]*playerstate.State) {
	for loc := range m.Enemies().Locations {
		g.originalEnemyLocations.Add(loc)
	}

	for i := 0; i < g.numPlayers; i++ {
		if !states[i].Active {
			continue
		}

		state := g.plans[i].state
		if state == PeekingBelowEnemy || state == AttackingEnemy || state == DroppingDoorOnEnemy {
			continue
		}

		inSight := m.Enemies().InSight[i]
		if states[i].HasSword && states[i].Health >= 6 && inSight.Len() > 0 {
			g.setState(i, AttackingEnemy)
			command.SetCommands(g.commands[i], &command.Attack{})
			continue
		}

		obscured := offset.NewSet()
		for loc := range inSight {
			if m.At(loc) == tile.Unknown {
				obscured.Add(loc)
			}
		}
		if obscured.Len() > 0 {
			g.setState(i, PeekingBelowEnemy)
			command.SetCommands(g.commands[i], &command.PeekUnderEnemies{TileLocations: obscured})
		}
	}
}

// Finished handles a player's command queue running empty. The follower
// always falls back to Wait; the lead runs the full subgoal chain.
func (g *Game) Finished(playerIndex int, m *playermap.Map, states [2]*playerstate.State) {
	if playerIndex != g.leadPlayerID {
		g.setState(playerIndex, Idle)
		command.SetCommands(g.commands[playerIndex], &command.Wait{})
		return
	}

	lead := playerIndex
	switch g.plans[lead].state {
	case MovingBoulder:
		g.setState(lead, Idle)
	case ReconsideringUncheckedBoulders:
		if boulder, ok := g.closestUnchecked(m, states[lead].Position); ok {
			g.setState(lead, MovingBoulder)
			command.SetCommands(g.commands[lead], &command.FetchBoulder{Position: boulder}, &command.DropBoulder{})
			return
		}
		g.setState(lead, Idle)
	}

	state := g.plans[lead].state
	if state != MovingBoulder && state != Exploring {
		g.setState(lead, Exploring)
		command.SetCommands(g.commands[lead], &command.Explore{})
		return
	}
	if state != Exploring {
		return
	}

	if m.UncheckedBoulders().Len() > 0 {
		g.setState(lead, ReconsideringUncheckedBoulders)
		command.SetCommands(g.commands[lead], &command.ReconsiderUncheckedBoulders{})
		return
	}

	if color, key, door, ok := g.firstDoorToOpen(m); ok {
		g.setState(lead, OpeningDoor)
		command.SetCommands(g.commands[lead], &command.FetchKey{Position: key}, &command.OpenDoor{Position: door, Color: color})
		return
	}

	if color, plate, ok := g.firstPlateToActivate(m); ok {
		if boulder, ok := g.closestUnusedBoulder(m, plate); ok {
			g.setState(lead, MovingBoulder)
			command.SetCommands(g.commands[lead],
				&command.FetchBoulder{Position: boulder},
				&command.PlaceBoulderOnPressurePlate{Position: plate, Color: color})
		} else {
			g.setState(lead, DroppingDoorOnEnemy)
			command.SetCommands(g.commands[lead],
				&command.Visit{Position: plate},
				command.NewDropDoorOnEnemy(m.DoorData(color).DoorPositions.Clone()))
		}
		return
	}

	if exit := m.Exit(); exit != nil && g.exitReachableByAll(m, states) {
		g.setState(lead, MovingToExit)
		for i := 0; i < g.numPlayers; i++ {
			command.SetCommands(g.commands[i], &command.Visit{Position: *exit})
		}
		return
	}

	if g.originalEnemyLocations.Len()-m.Enemies().Killed > 0 {
		g.setState(lead, HuntingEnemies)
		command.SetCommands(g.commands[lead], &command.HuntEnemies{RemainingToCheck: g.originalEnemyLocations.Clone()})
		return
	}

	g.setState(lead, Terminating)
	command.SetCommands(g.commands[lead], &command.Terminate{})
}

// CheckPlayerPresence syncs each player's planner state with the
// server's per-player active flag, and swaps lead/follower when the lead
// just went inactive while the follower is still in.
func (g *Game) CheckPlayerPresence(active [2]bool) {
	for i := 0; i < g.numPlayers; i++ {
		switch {
		case !active[i] && g.plans[i].state != Inactive:
			g.setState(i, Inactive)
		case active[i] && g.plans[i].state == Inactive:
			g.setState(i, Idle)
		}
	}

	if g.numPlayers < 2 {
		return
	}
	follower := 1 - g.leadPlayerID
	if !active[g.leadPlayerID] && active[follower] {
		g.leadPlayerID = follower
	}
}

func (g *Game) firstDoorToOpen(m *playermap.Map) (color tile.DoorColor, key, door offset.Offset, ok bool) {
	nav := m.NavigationParameters()
	for _, c := range tile.Colors {
		dd := m.DoorData(c)
		if dd.KeyPosition != nil && nav.DoorParameters[c].AvoidDoor && dd.DoorPositions.Len() > 0 {
			return c, *dd.KeyPosition, dd.DoorPositions.Sorted()[0], true
		}
	}
	return 0, offset.Offset{}, offset.Offset{}, false
}

func (g *Game) firstPlateToActivate(m *playermap.Map) (color tile.DoorColor, plate offset.Offset, ok bool) {
	nav := m.NavigationParameters()
	for _, c := range tile.Colors {
		dd := m.DoorData(c)
		if dd.PressurePlatePosition != nil && nav.DoorParameters[c].AvoidDoor {
			return c, *dd.PressurePlatePosition, true
		}
	}
	return 0, offset.Offset{}, false
}

func (g *Game) closestUnchecked(m *playermap.Map, from offset.Offset) (offset.Offset, bool) {
	unchecked := m.UncheckedBoulders()
	if unchecked.Len() == 0 {
		return offset.Offset{}, false
	}
	accept := func(p offset.Offset) bool { return unchecked.Contains(p) }
	w := weightmap.Build(g.leadPlayerID, m, accept)
	_, dest := pathfind.DistanceMap(w, from, accept)
	if dest == nil {
		return offset.Offset{}, false
	}
	return *dest, true
}

func (g *Game) closestUnusedBoulder(m *playermap.Map, plate offset.Offset) (offset.Offset, bool) {
	candidates := offset.NewSet()
	for _, p := range m.Tiles().Offsets() {
		if m.At(p) == tile.Boulder && !m.UsedBoulders().Contains(p) {
			candidates.Add(p)
		}
	}
	if candidates.Len() == 0 {
		return offset.Offset{}, false
	}
	accept := func(p offset.Offset) bool { return candidates.Contains(p) }
	w := weightmap.Build(g.leadPlayerID, m, accept)
	_, dest := pathfind.DistanceMap(w, plate, accept)
	if dest == nil {
		return offset.Offset{}, false
	}
	return *dest, true
}

// exitReachableByAll checks, independently for every active player, that
// a path to exit exists under that player's own navigation policy.
func (g *Game) exitReachableByAll(m *playermap.Map, states [2]*playerstate.State) bool {
	exit := m.Exit()
	if exit == nil {
		return false
	}
	accept := func(p offset.Offset) bool { return p == *exit }
	for i := 0; i < g.numPlayers; i++ {
		if !states[i].Active {
			continue
		}
		w := weightmap.Build(i, m, accept)
		_, dest := pathfind.DistanceMap(w, states[i].Position, accept)
		if dest == nil {
			return false
		}
	}
	return true
}
