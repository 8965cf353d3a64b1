package engine

import (
	"encoding/json"
	"sort"
	"time"
)

// Phase represents the current stage of the turn state machine
type Phase string

const (
	PhaseSetup            Phase = "setup"
	PhaseRolling          Phase = "rolling"
	PhaseMoving           Phase = "moving"
	PhaseSkipping         Phase = "skipping"
	PhasePowerUpDiscard   Phase = "powerup_discard"
	PhasePowerUpSelection Phase = "powerup_selection"
)

// TokenStatus represents where a token currently lives
type TokenStatus string

const (
	StatusBase        TokenStatus = "base"
	StatusActive      TokenStatus = "active"
	StatusHomeStretch TokenStatus = "home_stretch"
	StatusFinished    TokenStatus = "finished"
)

// PowerUpType identifies one of the twenty power-up variants
type PowerUpType string

const (
	// Movement-altering
	Teleport            PowerUpType = "teleport"
	DoubleMove          PowerUpType = "double_move"
	ExactMove           PowerUpType = "exact_move"
	Warp                PowerUpType = "warp"
	BackwardsDash       PowerUpType = "backwards_dash"
	HomeStretchTeleport PowerUpType = "home_stretch_teleport"

	// Offensive
	SendBack     PowerUpType = "send_back"
	Freeze       PowerUpType = "freeze"
	StealPowerUp PowerUpType = "steal_powerup"
	Magnet       PowerUpType = "magnet"

	// Defensive
	Shield      PowerUpType = "shield"
	Immunity    PowerUpType = "immunity"
	PhaseShift  PowerUpType = "phase"
	SafePassage PowerUpType = "safe_passage"

	// Utility
	Reverse   PowerUpType = "reverse"
	Swap      PowerUpType = "swap"
	ExtraTurn PowerUpType = "extra_turn"
	BonusRoll PowerUpType = "bonus_roll"
	DiceLock  PowerUpType = "dice_lock"
	SwapDice  PowerUpType = "swap_dice"
)

// AllPowerUpTypes lists every variant; board spawns pick uniformly from it.
var AllPowerUpTypes = []PowerUpType{
	Teleport, DoubleMove, ExactMove, Warp, BackwardsDash, HomeStretchTeleport,
	SendBack, Freeze, StealPowerUp, Magnet,
	Shield, Immunity, PhaseShift, SafePassage,
	Reverse, Swap, ExtraTurn, BonusRoll, DiceLock, SwapDice,
}

// Game rule constants
const (
	TokensPerPlayer = 4
	InventoryCap    = 3

	// Home lane indices 0-4 are lane squares, LaneFinish is the terminal slot.
	LaneFinish = 5

	// BasePosition is the sentinel position for tokens in BASE.
	BasePosition = -1

	BoardPowerUpCap   = 8
	RespawnBatch      = 2
	RespawnInterval   = 4
	InitialBoardSpawn = 4

	ShieldDuration      = 2
	FreezeDuration      = 2
	PhaseDuration       = 1
	ImmunityDuration    = 3
	SafePassageDuration = 3

	WarpDistance = 10
	DashDistance = 5
	MagnetPull   = 3

	MinPlayers  = 2
	MaxPlayers  = 6
	MaxEventLog = 256
)

// Player holds identity and the ordered power-up inventory (insertion order =
// acquisition order, capacity InventoryCap).
type Player struct {
	ID       string    `json:"id"`
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	PowerUps []PowerUp `json:"power_ups"`
}

// Token belongs to exactly one player, referenced by index into GameState.Players.
// Position is a shared-track index while ACTIVE, a lane index 0-5 while in the
// home stretch or finished, and BasePosition while in BASE.
//
// Status effects are counters only; the is_* booleans observers see are derived
// at serialization time, so a flag can never disagree with its counter.
type Token struct {
	ID          string      `json:"id"`
	PlayerIndex int         `json:"player_index"`
	Status      TokenStatus `json:"status"`
	Position    int         `json:"position"`

	ShieldTurns      int `json:"shield_turns,omitempty"`
	FrozenTurns      int `json:"frozen_turns,omitempty"`
	PhasedTurns      int `json:"phased_turns,omitempty"`
	ImmuneTurns      int `json:"immune_turns,omitempty"`
	SafePassageTurns int `json:"safe_passage_turns,omitempty"`

	// One-shot flags consumed by this token's next move.
	Reversed   bool `json:"reversed,omitempty"`
	DoubleNext bool `json:"double_next,omitempty"`
	ExactNext  int  `json:"exact_next,omitempty"` // 0 = none, else forced roll 1-6
}

// MarshalJSON adds the derived protection booleans to the wire form.
func (t *Token) MarshalJSON() ([]byte, error) {
	type alias Token
	return json.Marshal(struct {
		*alias
		IsInvulnerable bool `json:"is_invulnerable"`
		IsFrozen       bool `json:"is_frozen"`
		IsPhased       bool `json:"is_phased"`
		IsImmune       bool `json:"is_immune"`
		HasSafePassage bool `json:"has_safe_passage"`
	}{
		alias:          (*alias)(t),
		IsInvulnerable: t.ShieldTurns > 0,
		IsFrozen:       t.FrozenTurns > 0,
		IsPhased:       t.PhasedTurns > 0,
		IsImmune:       t.ImmuneTurns > 0,
		HasSafePassage: t.SafePassageTurns > 0,
	})
}

// Protected reports whether a token blocks capture and targeting outright.
// Invulnerability (shield) and immunity are checked identically everywhere
// they appear; they remain separate effects for future differentiation.
func (t *Token) Protected() bool {
	return t.ShieldTurns > 0 || t.ImmuneTurns > 0
}

// PowerUp is an identity plus a type tag. It lives either on the board
// (keyed by track position) or inside a player's inventory.
type PowerUp struct {
	ID   string      `json:"id"`
	Type PowerUpType `json:"type"`
}

// DiscardRequest is pending while a collection is blocked on a full inventory.
type DiscardRequest struct {
	PlayerIndex int `json:"player_index"`
	Position    int `json:"position"`

	// FromMove and BonusTurn capture the suppressed turn resolution so it can
	// resume once the discard completes.
	FromMove  bool `json:"from_move,omitempty"`
	BonusTurn bool `json:"bonus_turn,omitempty"`
}

// SelectionRequest is pending while an activation waits for its target.
type SelectionRequest struct {
	PlayerIndex  int         `json:"player_index"`
	PowerUpIndex int         `json:"power_up_index"`
	Type         PowerUpType `json:"type"`
	ReturnPhase  Phase       `json:"return_phase"`
}

// GameEvent records what a command did, for observers and debugging.
// The rules never consult the log.
type GameEvent struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	PlayerIndex int       `json:"player_index"`
	TokenID     string    `json:"token_id,omitempty"`
	Turn        int       `json:"turn"`
	Timestamp   time.Time `json:"timestamp"`
}

// GameState is the single authoritative mutable record of a game.
// Invariant: at most one of PendingDiscard/PendingSelection is non-nil, and
// while one is set the phase is pinned to its corresponding value.
type GameState struct {
	Players       []*Player         `json:"players"`
	Tokens        map[string]*Token `json:"tokens"`
	CurrentPlayer int               `json:"current_player"`
	DiceValue     int               `json:"dice_value"` // 0 = no pending roll
	Phase         Phase             `json:"phase"`

	PlayerCount int `json:"player_count"`
	TrackLength int `json:"track_length"`

	BoardPowerUps map[int]*PowerUp `json:"board_power_ups"`

	PowerUpUsed bool `json:"power_up_used_this_turn"`
	TurnCount   int  `json:"turn_count"`

	PendingDiscard   *DiscardRequest   `json:"pending_discard,omitempty"`
	PendingSelection *SelectionRequest `json:"pending_selection,omitempty"`

	// ExtraTurnQueued is set by the EXTRA_TURN power-up and consumed by the
	// next move resolution as a bonus-turn condition.
	ExtraTurnQueued bool `json:"extra_turn_queued,omitempty"`

	// LockedDice pins a player's next roll to a value (DICE_LOCK).
	LockedDice map[int]int `json:"locked_dice,omitempty"`

	ConfigName string      `json:"config_name"`
	EventLog   []GameEvent `json:"event_log"`
}

// tokenOrder returns token ids sorted for deterministic iteration.
func (gs *GameState) tokenOrder() []string {
	ids := make([]string, 0, len(gs.Tokens))
	for id := range gs.Tokens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TokensOf returns the given player's tokens in a stable order.
func (gs *GameState) TokensOf(playerIndex int) []*Token {
	var out []*Token
	for _, id := range gs.tokenOrder() {
		if t := gs.Tokens[id]; t.PlayerIndex == playerIndex {
			out = append(out, t)
		}
	}
	return out
}

// TokenAt returns the first ACTIVE token occupying a shared-track position,
// excluding the given token id ("" excludes nothing).
func (gs *GameState) TokenAt(position int, excludeID string) *Token {
	for _, id := range gs.tokenOrder() {
		t := gs.Tokens[id]
		if t.ID != excludeID && t.Status == StatusActive && t.Position == position {
			return t
		}
	}
	return nil
}

// AllInBase reports whether every token of a player sits in BASE.
func (gs *GameState) AllInBase(playerIndex int) bool {
	for _, t := range gs.Tokens {
		if t.PlayerIndex == playerIndex && t.Status != StatusBase {
			return false
		}
	}
	return true
}

// AllFinished reports whether every token of a player has finished. The engine
// never declares a winner; callers derive it from this observation.
func (gs *GameState) AllFinished(playerIndex int) bool {
	for _, t := range gs.Tokens {
		if t.PlayerIndex == playerIndex && t.Status != StatusFinished {
			return false
		}
	}
	return true
}

// addEvent appends to the bounded event log.
func (gs *GameState) addEvent(eventType, message string, playerIndex int, tokenID string) {
	gs.EventLog = append(gs.EventLog, GameEvent{
		Type:        eventType,
		Message:     message,
		PlayerIndex: playerIndex,
		TokenID:     tokenID,
		Turn:        gs.TurnCount,
		Timestamp:   time.Now(),
	})
	if len(gs.EventLog) > MaxEventLog {
		gs.EventLog = gs.EventLog[len(gs.EventLog)-MaxEventLog:]
	}
}
