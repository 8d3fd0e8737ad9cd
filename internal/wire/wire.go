// Package wire defines the JSON envelopes exchanged with the game server.
// Shaped after the teacher's pkg/api/protocol.go, with the fields the
// Swoq request/response protocol actually carries.
package wire

import (
	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/tile"
)

// Tile is the wire form of the tile enumeration; Unknown=0 is the
// canonical "no observation" sentinel.
type Tile int

const (
	Unknown Tile = iota
	Empty
	Wall
	Exit
	Player
	Enemy
	Boulder
	Sword
	Health
	DoorRed
	DoorGreen
	DoorBlue
	KeyRed
	KeyGreen
	KeyBlue
	PressurePlateRed
	PressurePlateGreen
	PressurePlateBlue
)

// DirectedAction is the wire form of an action a player can take.
type DirectedAction string

const (
	ActionNone      DirectedAction = "NONE"
	ActionMoveNorth DirectedAction = "MOVE_NORTH"
	ActionMoveEast  DirectedAction = "MOVE_EAST"
	ActionMoveSouth DirectedAction = "MOVE_SOUTH"
	ActionMoveWest  DirectedAction = "MOVE_WEST"
	ActionUseNorth  DirectedAction = "USE_NORTH"
	ActionUseEast   DirectedAction = "USE_EAST"
	ActionUseSouth  DirectedAction = "USE_SOUTH"
	ActionUseWest   DirectedAction = "USE_WEST"
)

// Status is the game-level status reported in every State.
type Status string

const (
	StatusActive          Status = "ACTIVE"
	StatusFinishedSuccess Status = "FINISHED_SUCCESS"
	StatusFinishedError   Status = "FINISHED_ERROR"
	StatusFinishedTimeout Status = "FINISHED_TIMEOUT"
)

// Result is the per-act outcome the server returns alongside State.
type Result string

const (
	ResultOK                Result = "OK"
	ResultInvalidMove       Result = "INVALID_MOVE"
	ResultInvalidUse        Result = "INVALID_USE"
	ResultGameNotFound      Result = "GAME_NOT_FOUND"
	ResultGameAlreadyFinished Result = "GAME_ALREADY_FINISHED"
)

// PlayerState is one player's observation as of the most recent tick.
// Surroundings is a flat (2*visibility+1)^2 row-major array of view-space
// tiles; element (visibility,visibility) is the player's own cell.
type PlayerState struct {
	Position     Position `json:"position"`
	Surroundings []Tile   `json:"surroundings"`
	HasSword     *bool    `json:"hasSword,omitempty"`
	Health       *int     `json:"health,omitempty"`
}

// Position is the wire form of an (x, y) coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// State is the root game-state object carried by both StartResponse and
// ActResponse.
type State struct {
	Status       Status       `json:"status"`
	Tick         int          `json:"tick"`
	Level        int          `json:"level"`
	PlayerState  *PlayerState `json:"playerState,omitempty"`
	Player2State *PlayerState `json:"player2State,omitempty"`
}

// StartRequest begins a new game for one user.
type StartRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Level    *int   `json:"level,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
}

// StartResponse answers a StartRequest with the game's fixed parameters
// and its initial state.
type StartResponse struct {
	GameID          string `json:"gameId"`
	MapWidth        int    `json:"mapWidth"`
	MapHeight       int    `json:"mapHeight"`
	VisibilityRange int    `json:"visibilityRange"`
	Seed            int64  `json:"seed"`
	State           State  `json:"state"`
}

// ActRequest advances the game by one tick, one action per active player.
type ActRequest struct {
	GameID  string          `json:"gameId"`
	Action  DirectedAction  `json:"action"`
	Action2 *DirectedAction `json:"action2,omitempty"`
}

// ActResponse answers an ActRequest with the resulting state.
type ActResponse struct {
	State  State  `json:"state"`
	Result Result `json:"result"`
}

// ToCoreTile converts a wire Tile to the core tile enumeration. The two
// enums are declared in the same order, but the conversion is spelled out
// rather than relied on positionally, since the wire values are a
// protocol contract and the core's are free to be reordered.
func (t Tile) ToCoreTile() tile.Tile {
	if ct, ok := tileToCore[t]; ok {
		return ct
	}
	return tile.Unknown
}

// FromCoreTile converts a core tile to its wire form.
func FromCoreTile(t tile.Tile) Tile {
	if wt, ok := coreToTile[t]; ok {
		return wt
	}
	return Unknown
}

var tileToCore = map[Tile]tile.Tile{
	Unknown:            tile.Unknown,
	Empty:              tile.Empty,
	Wall:               tile.Wall,
	Exit:               tile.Exit,
	Player:             tile.Player,
	Enemy:              tile.Enemy,
	Boulder:            tile.Boulder,
	Sword:              tile.Sword,
	Health:             tile.Health,
	DoorRed:            tile.DoorRed,
	DoorGreen:          tile.DoorGreen,
	DoorBlue:           tile.DoorBlue,
	KeyRed:             tile.KeyRed,
	KeyGreen:           tile.KeyGreen,
	KeyBlue:            tile.KeyBlue,
	PressurePlateRed:   tile.PressurePlateRed,
	PressurePlateGreen: tile.PressurePlateGreen,
	PressurePlateBlue:  tile.PressurePlateBlue,
}

var coreToTile = func() map[tile.Tile]Tile {
	m := make(map[tile.Tile]Tile, len(tileToCore))
	for w, c := range tileToCore {
		m[c] = w
	}
	return m
}()

// ToDirected converts a wire DirectedAction to the core action enumeration.
func (a DirectedAction) ToDirected() action.Directed {
	if d, ok := actionToDirected[a]; ok {
		return d
	}
	return action.None
}

// FromDirected converts a core action to its wire form.
func FromDirected(d action.Directed) DirectedAction {
	if a, ok := directedToAction[d]; ok {
		return a
	}
	return ActionNone
}

var actionToDirected = map[DirectedAction]action.Directed{
	ActionNone:      action.None,
	ActionMoveNorth: action.MoveNorth,
	ActionMoveEast:  action.MoveEast,
	ActionMoveSouth: action.MoveSouth,
	ActionMoveWest:  action.MoveWest,
	ActionUseNorth:  action.UseNorth,
	ActionUseEast:   action.UseEast,
	ActionUseSouth:  action.UseSouth,
	ActionUseWest:   action.UseWest,
}

var directedToAction = func() map[action.Directed]DirectedAction {
	m := make(map[action.Directed]DirectedAction, len(actionToDirected))
	for w, d := range actionToDirected {
		m[d] = w
	}
	return m
}()
