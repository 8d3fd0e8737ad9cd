package mission

import (
	"os"
	"testing"

	"github.com/kees-jan/swoq-bot/internal/command"
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/playermap"
	"github.com/kees-jan/swoq-bot/internal/playerstate"
	"github.com/kees-jan/swoq-bot/internal/tile"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// newMap builds a fully-known playermap.Map of size, defaulting every cell
// to Empty except the overrides given in tiles.
func newMap(size offset.Offset, tiles map[offset.Offset]tile.Tile) *playermap.Map {
	m := playermap.New(size)
	for _, p := range offset.InRectangle(size) {
		t := tile.Empty
		if v, ok := tiles[p]; ok {
			t = v
		}
		view := grid.NewFromData[tile.Tile](1, 1, []tile.Tile{t})
		m = m.Update(0, p, 0, view)
	}
	return m
}

func newCommandPair() [2]*command.Commands {
	return [2]*command.Commands{command.NewCommands(), command.NewCommands()}
}

func frontOf(t *testing.T, c *command.Commands) command.Command {
	t.Helper()
	return c.Get().Queue.Front()
}

func TestLevelReachedSetsIdleAndResetsLead(t *testing.T) {
	g := New(2, newCommandPair())
	g.leadPlayerID = 1
	g.plans[0] = playerPlan{state: Terminating}

	g.LevelReached(2)

	if g.PlanState(0) != Idle || g.PlanState(1) != Idle {
		t.Errorf("plan states = %v/%v, want Idle/Idle", g.PlanState(0), g.PlanState(1))
	}
	if g.LeadPlayerID() != 0 {
		t.Errorf("LeadPlayerID() = %d, want 0", g.LeadPlayerID())
	}
}

func TestCheckPlayerPresenceSwapsLeadWhenLeadDrops(t *testing.T) {
	g := New(2, newCommandPair())
	g.LevelReached(1)

	g.CheckPlayerPresence([2]bool{false, true})

	if g.LeadPlayerID() != 1 {
		t.Errorf("LeadPlayerID() = %d, want 1 after lead went inactive", g.LeadPlayerID())
	}
	if g.PlanState(0) != Inactive {
		t.Errorf("PlanState(0) = %v, want Inactive", g.PlanState(0))
	}
}

func TestCheckPlayerPresenceReactivatesToIdle(t *testing.T) {
	g := New(2, newCommandPair())
	g.LevelReached(1)
	g.plans[0] = playerPlan{state: Inactive}

	g.CheckPlayerPresence([2]bool{true, true})

	if g.PlanState(0) != Idle {
		t.Errorf("PlanState(0) = %v, want Idle", g.PlanState(0))
	}
}

func TestFinishedFollowerAlwaysWaits(t *testing.T) {
	commands := newCommandPair()
	g := New(2, commands)
	g.LevelReached(1)

	m := playermap.New(offset.Offset{X: 1, Y: 1})
	states := [2]*playerstate.State{{Active: true}, {Active: true}}

	g.Finished(1, m, states)

	if g.PlanState(1) != Idle {
		t.Errorf("PlanState(1) = %v, want Idle", g.PlanState(1))
	}
	if _, ok := frontOf(t, commands[1]).(*command.Wait); !ok {
		t.Errorf("front command = %T, want *command.Wait", frontOf(t, commands[1]))
	}
}

func TestFinishedLeadStartsExploring(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	m := playermap.New(offset.Offset{X: 1, Y: 1})
	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.Finished(0, m, states)

	if g.PlanState(0) != Exploring {
		t.Errorf("PlanState(0) = %v, want Exploring", g.PlanState(0))
	}
	if _, ok := frontOf(t, commands[0]).(*command.Explore); !ok {
		t.Errorf("front command = %T, want *command.Explore", frontOf(t, commands[0]))
	}
}

func TestFinishedOpensDoorWhenKeyAndDoorKnown(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	size := offset.Offset{X: 3, Y: 1}
	m := newMap(size, map[offset.Offset]tile.Tile{
		{X: 1, Y: 0}: tile.KeyRed,
		{X: 2, Y: 0}: tile.DoorRed,
	})
	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.Finished(0, m, states) // Idle -> Exploring
	g.Finished(0, m, states) // Exploring -> OpeningDoor

	if g.PlanState(0) != OpeningDoor {
		t.Fatalf("PlanState(0) = %v, want OpeningDoor", g.PlanState(0))
	}
	qs := commands[0].Get()
	if qs.Queue.Len() != 2 {
		t.Fatalf("queue length = %d, want 2", qs.Queue.Len())
	}
	key, ok := qs.Queue.Front().(*command.FetchKey)
	if !ok {
		t.Fatalf("front command = %T, want *command.FetchKey", qs.Queue.Front())
	}
	if key.Position != (offset.Offset{X: 1, Y: 0}) {
		t.Errorf("FetchKey.Position = %v, want (1,0)", key.Position)
	}
}

func TestFinishedReconsidersUncheckedBouldersBeforeExploringAgain(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	size := offset.Offset{X: 3, Y: 1}
	boulderPos := offset.Offset{X: 2, Y: 0}
	m := playermap.New(size)
	for _, p := range offset.InRectangle(size) {
		if p == boulderPos {
			continue
		}
		m = m.Update(0, p, 0, grid.NewFromData[tile.Tile](1, 1, []tile.Tile{tile.Empty}))
	}
	// boulderPos is observed straight from Unknown to Boulder so the
	// update classifies it as a freshly seen (unchecked) boulder.
	m = m.Update(0, boulderPos, 0, grid.NewFromData[tile.Tile](1, 1, []tile.Tile{tile.Boulder}))
	if m.UncheckedBoulders().Len() != 1 {
		t.Fatalf("UncheckedBoulders().Len() = %d, want 1", m.UncheckedBoulders().Len())
	}

	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.Finished(0, m, states) // Idle -> Exploring
	g.Finished(0, m, states) // Exploring -> ReconsideringUncheckedBoulders

	if g.PlanState(0) != ReconsideringUncheckedBoulders {
		t.Fatalf("PlanState(0) = %v, want ReconsideringUncheckedBoulders", g.PlanState(0))
	}
	if _, ok := frontOf(t, commands[0]).(*command.ReconsiderUncheckedBoulders); !ok {
		t.Errorf("front command = %T, want *command.ReconsiderUncheckedBoulders", frontOf(t, commands[0]))
	}

	g.Finished(0, m, states) // ReconsideringUncheckedBoulders -> MovingBoulder, boulder still unchecked

	if g.PlanState(0) != MovingBoulder {
		t.Fatalf("PlanState(0) = %v, want MovingBoulder", g.PlanState(0))
	}
	qs := commands[0].Get()
	fetch, ok := qs.Queue.Front().(*command.FetchBoulder)
	if !ok || fetch.Position != boulderPos {
		t.Errorf("front command = %+v, want FetchBoulder at %v", qs.Queue.Front(), boulderPos)
	}
}

func TestFinishedMovesToExitWhenReachableByAllActivePlayers(t *testing.T) {
	commands := newCommandPair()
	g := New(2, commands)
	g.LevelReached(1)

	size := offset.Offset{X: 3, Y: 1}
	m := newMap(size, map[offset.Offset]tile.Tile{
		{X: 2, Y: 0}: tile.Exit,
	})
	states := [2]*playerstate.State{
		{Active: true, Position: offset.Offset{X: 0, Y: 0}},
		{Active: true, Position: offset.Offset{X: 1, Y: 0}},
	}

	g.Finished(0, m, states) // Idle -> Exploring
	g.Finished(0, m, states) // Exploring -> MovingToExit

	if g.PlanState(0) != MovingToExit {
		t.Fatalf("PlanState(0) = %v, want MovingToExit", g.PlanState(0))
	}
	for i := range commands {
		visit, ok := frontOf(t, commands[i]).(*command.Visit)
		if !ok || visit.Position != (offset.Offset{X: 2, Y: 0}) {
			t.Errorf("player %d front command = %+v, want Visit(2,0)", i, frontOf(t, commands[i]))
		}
	}
}

func TestFinishedHuntsRemainingEnemiesBeforeTerminating(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	m := playermap.New(offset.Offset{X: 1, Y: 1})
	g.originalEnemyLocations.Add(offset.Offset{X: 0, Y: 1})

	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.Finished(0, m, states) // Idle -> Exploring
	g.Finished(0, m, states) // Exploring -> HuntingEnemies (no doors/plates/exit known, one enemy unkilled)

	if g.PlanState(0) != HuntingEnemies {
		t.Fatalf("PlanState(0) = %v, want HuntingEnemies", g.PlanState(0))
	}
	hunt, ok := frontOf(t, commands[0]).(*command.HuntEnemies)
	if !ok {
		t.Fatalf("front command = %T, want *command.HuntEnemies", frontOf(t, commands[0]))
	}
	if hunt.RemainingToCheck.Len() != 1 {
		t.Errorf("RemainingToCheck.Len() = %d, want 1", hunt.RemainingToCheck.Len())
	}
}

func TestFinishedTerminatesWhenNothingLeftToDo(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	m := playermap.New(offset.Offset{X: 1, Y: 1})
	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.Finished(0, m, states) // Idle -> Exploring
	g.Finished(0, m, states) // Exploring -> Terminating

	if g.PlanState(0) != Terminating {
		t.Fatalf("PlanState(0) = %v, want Terminating", g.PlanState(0))
	}
	if _, ok := frontOf(t, commands[0]).(*command.Terminate); !ok {
		t.Errorf("front command = %T, want *command.Terminate", frontOf(t, commands[0]))
	}
}

func TestMapUpdatedAttacksWhenArmedHealthyAndEnemyInSight(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)

	m := playermap.New(offset.Offset{X: 3, Y: 3})
	m = m.Update(0, offset.Offset{X: 1, Y: 1}, 1, grid.NewFromData[tile.Tile](3, 3, []tile.Tile{
		tile.Empty, tile.Empty, tile.Empty,
		tile.Empty, tile.Player, tile.Enemy,
		tile.Empty, tile.Empty, tile.Empty,
	}))
	states := [2]*playerstate.State{
		{Active: true, HasSword: true, Health: 6},
		{Active: false},
	}

	g.MapUpdated(m, states)

	if g.PlanState(0) != AttackingEnemy {
		t.Errorf("PlanState(0) = %v, want AttackingEnemy", g.PlanState(0))
	}
	if _, ok := frontOf(t, commands[0]).(*command.Attack); !ok {
		t.Errorf("front command = %T, want *command.Attack", frontOf(t, commands[0]))
	}
}

func TestMapUpdatedDoesNotOverrideActiveEngagement(t *testing.T) {
	commands := newCommandPair()
	g := New(1, commands)
	g.LevelReached(1)
	g.plans[0] = playerPlan{state: AttackingEnemy}

	m := playermap.New(offset.Offset{X: 1, Y: 1})
	states := [2]*playerstate.State{{Active: true}, {Active: false}}

	g.MapUpdated(m, states)

	if g.PlanState(0) != AttackingEnemy {
		t.Errorf("PlanState(0) = %v, want unchanged AttackingEnemy", g.PlanState(0))
	}
}
