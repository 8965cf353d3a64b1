package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// BoardConfig describes a board variant. Geometry is derived from the player
// count by the pure functions in board.go.
type BoardConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PlayerCount int    `json:"player_count"`
}

// ValidateBoardConfig checks a configuration before an engine is built on it.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.PlayerCount < MinPlayers || config.PlayerCount > MaxPlayers {
		return fmt.Errorf("%w: player count %d outside %d-%d", ErrInvalidConfig,
			config.PlayerCount, MinPlayers, MaxPlayers)
	}
	return nil
}

// Engine owns the single authoritative game state and applies all game-legal
// transitions to it. It is not safe for concurrent use; callers hold it
// behind one exclusive-access boundary (the session).
type Engine struct {
	state  *GameState
	config *BoardConfig
	rng    *rand.Rand
}

// NewEngine creates an engine for the given board and initializes a game.
func NewEngine(config *BoardConfig) (*Engine, error) {
	return NewEngineWithSeed(config, time.Now().UnixNano())
}

// NewEngineWithSeed creates an engine with a deterministic random source,
// used by tests and the simulation CLI.
func NewEngineWithSeed(config *BoardConfig, seed int64) (*Engine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}
	e := &Engine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
	e.Init()
	return e, nil
}

// GetState returns the current game state.
func (e *Engine) GetState() *GameState {
	return e.state
}

// GetConfig returns the board configuration.
func (e *Engine) GetConfig() *BoardConfig {
	return e.config
}

// Init resets all state for a fresh game on the same board: players with
// fixed colors, four BASE tokens each, an initial batch of board power-ups,
// and the first player ready to roll. Safe to call repeatedly to restart.
func (e *Engine) Init() *GameState {
	count := e.config.PlayerCount

	state := &GameState{
		Players:       make([]*Player, 0, count),
		Tokens:        make(map[string]*Token),
		CurrentPlayer: 0,
		Phase:         PhaseRolling,
		PlayerCount:   count,
		TrackLength:   TrackLength(count),
		BoardPowerUps: make(map[int]*PowerUp),
		LockedDice:    make(map[int]int),
		ConfigName:    e.config.Name,
	}

	for i := 0; i < count; i++ {
		state.Players = append(state.Players, &Player{
			ID:       uuid.NewString(),
			Index:    i,
			Name:     playerNames[i],
			Color:    playerColors[i],
			PowerUps: []PowerUp{},
		})
		for j := 0; j < TokensPerPlayer; j++ {
			token := &Token{
				ID:          uuid.NewString(),
				PlayerIndex: i,
				Status:      StatusBase,
				Position:    BasePosition,
			}
			state.Tokens[token.ID] = token
		}
	}

	e.state = state

	for _, pos := range sampleUnoccupiedZones(e.rng, count, state.BoardPowerUps, InitialBoardSpawn) {
		state.BoardPowerUps[pos] = e.newPowerUp()
	}

	state.addEvent("init", fmt.Sprintf("game initialized for %d players", count), 0, "")
	return state
}

// RollResult describes what a roll produced and what it permits.
type RollResult struct {
	Value         int      `json:"value"`
	MovableTokens []string `json:"movable_tokens"`
	Skipped       bool     `json:"skipped"`
	Locked        bool     `json:"locked"` // value came from a DICE_LOCK
}

// Roll produces a die value for the current player and evaluates what it
// permits. Distribution is uniform over 1-6 except when every one of the
// player's tokens is in BASE, where P(6)=0.25 and P(1..5)=0.15 each.
// A pending DICE_LOCK overrides the throw entirely.
func (e *Engine) Roll() (*RollResult, error) {
	if e.state.Phase != PhaseRolling {
		return nil, ErrWrongPhase
	}
	current := e.state.CurrentPlayer
	if value, ok := e.state.LockedDice[current]; ok {
		delete(e.state.LockedDice, current)
		result := e.applyRoll(value)
		result.Locked = true
		return result, nil
	}
	return e.applyRoll(e.throwDice()), nil
}

// RollWithValue is the deterministic variant for testing and tooling. It
// bypasses both the random throw and any dice lock.
func (e *Engine) RollWithValue(value int) (*RollResult, error) {
	if e.state.Phase != PhaseRolling {
		return nil, ErrWrongPhase
	}
	if value < 1 || value > 6 {
		return nil, fmt.Errorf("%w: dice value %d", ErrInvalidTarget, value)
	}
	return e.applyRoll(value), nil
}

// throwDice rolls 1-6, biased toward 6 when the current player is stuck with
// every token in BASE.
func (e *Engine) throwDice() int {
	if e.state.AllInBase(e.state.CurrentPlayer) {
		if e.rng.Float64() < 0.25 {
			return 6
		}
		return 1 + e.rng.Intn(5)
	}
	return 1 + e.rng.Intn(6)
}

// applyRoll records the die value and moves the phase machine forward: MOVING
// when at least one token has a legal move, SKIPPING otherwise. The caller
// owns the skip delay and invokes AdvanceTurn when it elapses.
func (e *Engine) applyRoll(value int) *RollResult {
	state := e.state
	state.DiceValue = value
	state.PowerUpUsed = false

	result := &RollResult{Value: value}
	for _, t := range state.TokensOf(state.CurrentPlayer) {
		if e.hasLegalMove(t, value) {
			result.MovableTokens = append(result.MovableTokens, t.ID)
		}
	}

	if len(result.MovableTokens) == 0 {
		state.Phase = PhaseSkipping
		result.Skipped = true
		state.addEvent("skip", fmt.Sprintf("rolled %d with no legal move", value), state.CurrentPlayer, "")
	} else {
		state.Phase = PhaseMoving
		state.addEvent("roll", fmt.Sprintf("rolled %d", value), state.CurrentPlayer, "")
	}
	return result
}

// hasLegalMove reports whether a token may move for the given die value.
func (e *Engine) hasLegalMove(t *Token, value int) bool {
	if t.FrozenTurns > 0 {
		return false
	}
	switch t.Status {
	case StatusBase:
		return value == 6
	case StatusActive:
		return true
	case StatusHomeStretch:
		return t.Position+value <= LaneFinish
	default:
		return false
	}
}

// AdvanceTurn hands the turn to the next seat, clears the pending die and the
// per-turn power-up flag, and triggers a board respawn pass every fourth
// turn. It is rejected while a discard or target selection is pending.
func (e *Engine) AdvanceTurn() error {
	if e.state.PendingDiscard != nil || e.state.PendingSelection != nil {
		return ErrSelectionPending
	}
	e.advanceTurn()
	return nil
}

func (e *Engine) advanceTurn() {
	state := e.state
	state.CurrentPlayer = NextPlayer(state.PlayerCount, state.CurrentPlayer)
	state.DiceValue = 0
	state.Phase = PhaseRolling
	state.PowerUpUsed = false
	state.TurnCount++
	state.addEvent("turn", fmt.Sprintf("turn passes to %s", state.Players[state.CurrentPlayer].Name),
		state.CurrentPlayer, "")

	if state.TurnCount%RespawnInterval == 0 {
		e.RespawnPowerUps()
	}
}

// SetTokenPosition force-places a token, bypassing all movement rules. It is
// a layout/debug affordance for board-editing tools, not a game command.
func (e *Engine) SetTokenPosition(tokenID string, position int, status TokenStatus) error {
	t, ok := e.state.Tokens[tokenID]
	if !ok {
		return ErrNoSuchToken
	}
	t.Status = status
	switch status {
	case StatusBase:
		t.Position = BasePosition
	case StatusFinished:
		t.Position = LaneFinish
	default:
		t.Position = position
	}
	return nil
}

// newPowerUp mints a power-up with a uniformly random type.
func (e *Engine) newPowerUp() *PowerUp {
	return &PowerUp{
		ID:   uuid.NewString(),
		Type: AllPowerUpTypes[e.rng.Intn(len(AllPowerUpTypes))],
	}
}
