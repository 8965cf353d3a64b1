package engine

import "fmt"

// MoveResult describes a resolved MoveToken command.
type MoveResult struct {
	TokenID       string      `json:"token_id"`
	FromStatus    TokenStatus `json:"from_status"`
	FromPosition  int         `json:"from_position"`
	ToStatus      TokenStatus `json:"to_status"`
	ToPosition    int         `json:"to_position"`
	DiceValue     int         `json:"dice_value"`
	EffectiveRoll int         `json:"effective_roll"`

	CapturedTokenID string `json:"captured_token_id,omitempty"`
	CaptureBlocked  bool   `json:"capture_blocked,omitempty"`
	EnteredLane     bool   `json:"entered_lane,omitempty"`
	Finished        bool   `json:"finished,omitempty"`

	CollectedPowerUp *PowerUp `json:"collected_power_up,omitempty"`
	PendingDiscard   bool     `json:"pending_discard,omitempty"`

	BonusTurn    bool `json:"bonus_turn"`
	TurnAdvanced bool `json:"turn_advanced"`
}

// MoveToken moves a token of the current player by the pending die value and
// resolves everything that follows: lane entry, capture, power-up pickup,
// status-counter decay, and turn hand-off.
func (e *Engine) MoveToken(tokenID string) (*MoveResult, error) {
	state := e.state
	if state.Phase != PhaseMoving {
		return nil, ErrWrongPhase
	}
	if state.DiceValue == 0 {
		return nil, ErrNoDiceValue
	}
	t, ok := state.Tokens[tokenID]
	if !ok {
		return nil, ErrNoSuchToken
	}
	if t.PlayerIndex != state.CurrentPlayer {
		return nil, ErrNotOwner
	}
	if t.FrozenTurns > 0 {
		return nil, ErrTokenFrozen
	}

	result := &MoveResult{
		TokenID:      tokenID,
		FromStatus:   t.Status,
		FromPosition: t.Position,
		DiceValue:    state.DiceValue,
	}

	var bonus bool
	var err error
	switch t.Status {
	case StatusBase:
		bonus, err = e.moveFromBase(t, result)
	case StatusActive:
		bonus, err = e.moveOnTrack(t, result)
	case StatusHomeStretch:
		bonus, err = e.moveInLane(t, result)
	default:
		err = ErrIllegalMove
	}
	if err != nil {
		return nil, err
	}

	result.ToStatus = t.Status
	result.ToPosition = t.Position
	result.BonusTurn = bonus

	e.tickStatusCounters(state.CurrentPlayer)

	state.DiceValue = 0
	e.resolveTurn(bonus, result)
	return result, nil
}

// moveFromBase brings a token onto the track at the player's start square.
// Leaving BASE requires a 6 and grants a bonus turn. Start squares are safe
// zones, so no capture check is needed here.
func (e *Engine) moveFromBase(t *Token, result *MoveResult) (bool, error) {
	state := e.state
	if state.DiceValue != 6 {
		return false, ErrIllegalMove
	}
	t.Status = StatusActive
	t.Position = StartIndex(state.PlayerCount, t.PlayerIndex)
	state.addEvent("move", fmt.Sprintf("%s token enters the track",
		state.Players[t.PlayerIndex].Name), t.PlayerIndex, t.ID)
	return true, nil
}

// effectiveRoll applies the token's queued one-shot modifiers to the die
// value: an exact-move override replaces it, then a double-move multiplies.
// Both one-shots clear on use.
func effectiveRoll(t *Token, dice int) int {
	roll := dice
	if t.ExactNext > 0 {
		roll = t.ExactNext
		t.ExactNext = 0
	}
	if t.DoubleNext {
		roll *= 2
		t.DoubleNext = false
	}
	return roll
}

// moveOnTrack advances an ACTIVE token along the shared circuit, entering the
// player's home lane when the path crosses their turning index.
func (e *Engine) moveOnTrack(t *Token, result *MoveResult) (bool, error) {
	state := e.state
	roll := effectiveRoll(t, state.DiceValue)
	result.EffectiveRoll = roll

	direction := 1
	if t.Reversed {
		direction = -1
		t.Reversed = false
	}

	// Lane entry only happens on forward moves.
	if direction > 0 {
		turning := TurningIndex(state.PlayerCount, t.PlayerIndex)
		distance := ForwardDistance(state.TrackLength, t.Position, turning)
		// distance == 0: sitting on the turning square, any roll peels in.
		// 0 < distance < roll: the path passes through the turning square.
		// distance == roll: lands exactly on it and stays on the track.
		if distance < roll {
			remaining := roll - distance
			lane := remaining - 1
			return e.enterLane(t, lane, result), nil
		}
	}

	destination := WrapPosition(state.TrackLength, t.Position+direction*roll)
	blocked := false

	// Phased movers skip the capture check entirely.
	if t.PhasedTurns == 0 {
		if occupant := state.TokenAt(destination, t.ID); occupant != nil && occupant.PlayerIndex != t.PlayerIndex {
			switch {
			case IsSafeZone(state.PlayerCount, destination):
				// safe square, tokens coexist
			case occupant.SafePassageTurns > 0:
				// personal safe zone
			case occupant.Protected():
				blocked = true
				result.CaptureBlocked = true
			default:
				e.capture(occupant)
				result.CapturedTokenID = occupant.ID
			}
		}
	}

	t.Position = destination
	state.addEvent("move", fmt.Sprintf("%s token to square %d",
		state.Players[t.PlayerIndex].Name, destination), t.PlayerIndex, t.ID)

	// Landing on an occupied power-up square attempts collection; a full
	// inventory turns this into a pending discard instead.
	if IsPowerUpZone(state.PlayerCount, destination) {
		if collected, pending := e.collectAt(destination, t.PlayerIndex, true); collected != nil {
			result.CollectedPowerUp = collected
		} else if pending {
			result.PendingDiscard = true
		}
	}

	bonus := result.CapturedTokenID != ""
	if state.DiceValue == 6 && !blocked {
		bonus = true
	}
	return bonus, nil
}

// enterLane places a token in its home lane, finishing it when the remaining
// steps run past the last lane square.
func (e *Engine) enterLane(t *Token, lane int, result *MoveResult) bool {
	state := e.state
	if lane >= LaneFinish {
		t.Status = StatusFinished
		t.Position = LaneFinish
		result.Finished = true
		state.addEvent("finish", fmt.Sprintf("%s token finished",
			state.Players[t.PlayerIndex].Name), t.PlayerIndex, t.ID)
	} else {
		t.Status = StatusHomeStretch
		t.Position = lane
		result.EnteredLane = true
		state.addEvent("move", fmt.Sprintf("%s token enters home stretch at %d",
			state.Players[t.PlayerIndex].Name, lane), t.PlayerIndex, t.ID)
	}
	return state.DiceValue == 6
}

// moveInLane advances a HOME_STRETCH token toward the finish slot.
func (e *Engine) moveInLane(t *Token, result *MoveResult) (bool, error) {
	state := e.state
	roll := effectiveRoll(t, state.DiceValue)
	result.EffectiveRoll = roll

	lane := t.Position + roll
	if lane >= LaneFinish {
		t.Status = StatusFinished
		t.Position = LaneFinish
		result.Finished = true
		state.addEvent("finish", fmt.Sprintf("%s token finished",
			state.Players[t.PlayerIndex].Name), t.PlayerIndex, t.ID)
	} else {
		t.Position = lane
		state.addEvent("move", fmt.Sprintf("%s token to lane square %d",
			state.Players[t.PlayerIndex].Name, lane), t.PlayerIndex, t.ID)
	}
	return state.DiceValue == 6, nil
}

// capture sends an opposing token back to BASE, dropping all of its
// temporary effects with it.
func (e *Engine) capture(t *Token) {
	t.Status = StatusBase
	t.Position = BasePosition
	t.ShieldTurns = 0
	t.FrozenTurns = 0
	t.PhasedTurns = 0
	t.ImmuneTurns = 0
	t.SafePassageTurns = 0
	t.Reversed = false
	t.DoubleNext = false
	t.ExactNext = 0
	e.state.addEvent("capture", fmt.Sprintf("%s token captured",
		e.state.Players[t.PlayerIndex].Name), t.PlayerIndex, t.ID)
}

// tickStatusCounters decrements the active countdown counters on all of a
// player's tokens. Runs once after each of that player's moves.
func (e *Engine) tickStatusCounters(playerIndex int) {
	for _, t := range e.state.Tokens {
		if t.PlayerIndex != playerIndex {
			continue
		}
		if t.ShieldTurns > 0 {
			t.ShieldTurns--
		}
		if t.FrozenTurns > 0 {
			t.FrozenTurns--
		}
		if t.PhasedTurns > 0 {
			t.PhasedTurns--
		}
		if t.ImmuneTurns > 0 {
			t.ImmuneTurns--
		}
		if t.SafePassageTurns > 0 {
			t.SafePassageTurns--
		}
	}
}

// resolveTurn finishes a move: a pending discard suspends turn advancement
// until resolved; a bonus-turn condition (or a queued EXTRA_TURN) returns the
// same player to ROLLING; otherwise the turn advances.
func (e *Engine) resolveTurn(bonus bool, result *MoveResult) {
	state := e.state
	if state.PendingDiscard != nil {
		state.PendingDiscard.FromMove = true
		state.PendingDiscard.BonusTurn = bonus || state.ExtraTurnQueued
		state.ExtraTurnQueued = false
		return
	}
	if bonus || state.ExtraTurnQueued {
		state.ExtraTurnQueued = false
		state.Phase = PhaseRolling
		return
	}
	e.advanceTurn()
	result.TurnAdvanced = true
}
