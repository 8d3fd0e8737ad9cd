// Package session drives the per-tick loop described in spec.md §4.10:
// ingest the server's reported state, update the dungeon and player maps,
// let the mission planner react, run each active player's command
// interpreter, and send the resulting actions back to the server.
package session

import (
	"context"
	"fmt"

	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/command"
	"github.com/kees-jan/swoq-bot/internal/dungeonmap"
	"github.com/kees-jan/swoq-bot/internal/grid"
	"github.com/kees-jan/swoq-bot/internal/interpreter"
	"github.com/kees-jan/swoq-bot/internal/mission"
	"github.com/kees-jan/swoq-bot/internal/offset"
	"github.com/kees-jan/swoq-bot/internal/playermap"
	"github.com/kees-jan/swoq-bot/internal/playerstate"
	"github.com/kees-jan/swoq-bot/internal/render"
	"github.com/kees-jan/swoq-bot/internal/replay"
	"github.com/kees-jan/swoq-bot/internal/tile"
	"github.com/kees-jan/swoq-bot/internal/wire"
	"github.com/kees-jan/swoq-bot/internal/wstransport"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

// Session owns one game's worth of tick-loop state: the shared
// DungeonMap/PlayerMap, both players' state and command queue, their
// interpreters, and the mission planner driving them.
type Session struct {
	transport  wstransport.Transport
	replayDir  string
	replayW    *replay.Writer
	numPlayers int

	visibility int
	mapSize    offset.Offset
	level      int

	dungeon *dungeonmap.Map
	pmap    *playermap.Map

	states   [2]*playerstate.Guarded
	commands [2]*command.Commands
	interp   [2]*interpreter.Interpreter
	mission  *mission.Game

	ctxs [2]*interpreter.Context
}

// New builds a session for numPlayers (1 or 2) players, talking to the
// server through transport. replayDir may be empty to skip replay
// recording; otherwise a fresh replay file is opened for every level.
func New(transport wstransport.Transport, replayDir string, numPlayers int) *Session {
	s := &Session{
		transport:  transport,
		replayDir:  replayDir,
		numPlayers: numPlayers,
		level:      -1,
	}
	for i := 0; i < 2; i++ {
		s.states[i] = playerstate.NewGuarded(i)
		s.commands[i] = command.NewCommands()
	}
	s.mission = mission.New(numPlayers, s.commands)
	for i := 0; i < 2; i++ {
		s.interp[i] = interpreter.New(i, s.commands[i], s.onFinished)
	}
	return s
}

func (s *Session) onFinished(playerIndex int) {
	s.mission.Finished(playerIndex, s.ctxs[playerIndex].Map, s.statesSnapshot())
}

func (s *Session) statesSnapshot() [2]*playerstate.State {
	var out [2]*playerstate.State
	for i := 0; i < 2; i++ {
		p := s.states[i].Lock()
		out[i] = p.Get()
		p.Unlock()
	}
	return out
}

// Run drives the tick loop to completion, returning nil on
// FINISHED_SUCCESS and a descriptive error on any other terminal status
// or transport/protocol failure.
func (s *Session) Run(ctx context.Context) error {
	startResp, err := s.transport.Start(ctx)
	if err != nil {
		return fmt.Errorf("session: start: %w", err)
	}
	s.visibility = startResp.VisibilityRange
	s.mapSize = offset.Offset{X: startResp.MapWidth, Y: startResp.MapHeight}

	defer s.closeReplay()

	state := startResp.State
	for {
		if state.Status != wire.StatusActive {
			return terminalResult(state.Status)
		}

		active := s.ingest(state)
		s.mission.CheckPlayerPresence(active)

		if state.Level != s.level {
			s.mission.LevelReached(state.Level)
			s.resetForLevel(state.Level)
			s.level = state.Level
			logger.Log.WithField("level", state.Level).Infof("entering level\n%s", render.Tiles(s.dungeon.Tiles()))
		}

		if s.updateMaps(active) {
			s.mission.MapUpdated(s.pmap, s.statesSnapshot())
		}

		action0, action1, terminate, err := s.tickPlayers(active)
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}

		actResp, err := s.transport.Act(ctx, action0, action1)
		if err != nil {
			return fmt.Errorf("session: act: %w", err)
		}

		if s.replayW != nil {
			a1, hasA1 := action.None, action1 != nil
			if hasA1 {
				a1 = action1.ToDirected()
			}
			if err := s.replayW.Write(state.Tick, action0.ToDirected(), a1, hasA1, actResp.State); err != nil {
				logger.Log.WithError(err).Warn("session: replay write failed")
			}
		}

		state = actResp.State
	}
}

func terminalResult(status wire.Status) error {
	if status == wire.StatusFinishedSuccess {
		return nil
	}
	return fmt.Errorf("session: game finished with status %s", status)
}

// ingest copies the server's reported per-player state into each
// player's guarded State, returning which players are active this tick.
func (s *Session) ingest(state wire.State) [2]bool {
	var active [2]bool
	reports := [2]*wire.PlayerState{state.PlayerState, state.Player2State}

	for i := 0; i < 2; i++ {
		p := s.states[i].Lock()
		st := p.Get()
		if reports[i] != nil {
			active[i] = true
			st.Active = true
			st.Position = offset.Offset{X: reports[i].Position.X, Y: reports[i].Position.Y}
			st.Visibility = s.visibility
			st.View = viewFromSurroundings(reports[i].Surroundings, s.visibility)
			if reports[i].HasSword != nil {
				st.HasSword = *reports[i].HasSword
			}
			if reports[i].Health != nil {
				st.Health = *reports[i].Health
			}
		} else {
			st.Active = false
		}
		p.Set(st)
		p.Unlock()
	}

	return active
}

func viewFromSurroundings(tiles []wire.Tile, visibility int) grid.Grid[tile.Tile] {
	dim := 2*visibility + 1
	data := make([]tile.Tile, len(tiles))
	for i, t := range tiles {
		data[i] = t.ToCoreTile()
	}
	return grid.NewFromData[tile.Tile](dim, dim, data)
}

func (s *Session) resetForLevel(level int) {
	s.dungeon = dungeonmap.New(s.mapSize)
	s.pmap = playermap.New(s.mapSize)
	for i := 0; i < s.numPlayers; i++ {
		command.Reset(s.commands[i])
	}

	s.closeReplay()
	if s.replayDir == "" {
		return
	}
	w, err := replay.NewWriter(s.replayDir, level)
	if err != nil {
		logger.Log.WithError(err).Warn("session: failed to open replay writer for level")
		return
	}
	s.replayW = w
}

func (s *Session) closeReplay() {
	if s.replayW == nil {
		return
	}
	if err := s.replayW.Close(); err != nil {
		logger.Log.WithError(err).Warn("session: failed to close replay writer")
	}
	s.replayW = nil
}

// updateMaps folds every active player's latest view into the shared
// DungeonMap and PlayerMap, returning whether either changed.
func (s *Session) updateMaps(active [2]bool) bool {
	changed := false
	for i := 0; i < s.numPlayers; i++ {
		if !active[i] {
			continue
		}
		p := s.states[i].Lock()
		st := p.Get()
		pos, vis, view := st.Position, st.Visibility, st.View
		p.Unlock()

		newDungeon := s.dungeon.Update(pos, vis, view)
		changed = changed || newDungeon != s.dungeon
		s.dungeon = newDungeon

		newPmap := s.pmap.Update(i, pos, vis, view)
		changed = changed || newPmap != s.pmap
		s.pmap = newPmap
	}
	return changed
}

// tickPlayers runs each active player's interpreter in turn, feeding the
// PlayerMap forward from one player to the next exactly as spec.md §4.10
// orders it.
func (s *Session) tickPlayers(active [2]bool) (action0 wire.DirectedAction, action1 *wire.DirectedAction, terminate bool, err error) {
	for i := 0; i < s.numPlayers; i++ {
		if !active[i] {
			continue
		}

		p := s.states[i].Lock()
		st := p.Get()
		p.Unlock()

		playerCtx := &interpreter.Context{PlayerIndex: i, Map: s.pmap, State: st}
		s.ctxs[i] = playerCtx

		newMap, act, tickErr := s.interp[i].Tick(playerCtx)
		if tickErr != nil {
			return wire.ActionNone, nil, false, fmt.Errorf("session: player %d: %w", i, tickErr)
		}
		s.pmap = newMap

		wireAct := wire.FromDirected(act)
		if i == 0 {
			action0 = wireAct
		} else {
			action1 = &wireAct
		}

		if st.TerminateRequested {
			terminate = true
		}
	}

	return action0, action1, terminate, nil
}
