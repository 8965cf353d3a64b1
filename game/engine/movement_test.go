package engine

import (
	"errors"
	"testing"
)

// placeActive force-places a token on the shared track.
func placeActive(t *testing.T, e *Engine, tok *Token, pos int) {
	t.Helper()
	if err := e.SetTokenPosition(tok.ID, pos, StatusActive); err != nil {
		t.Fatalf("SetTokenPosition failed: %v", err)
	}
}

// rollAndMove rolls a fixed value and moves one token.
func rollAndMove(t *testing.T, e *Engine, value int, tokenID string) *MoveResult {
	t.Helper()
	if _, err := e.RollWithValue(value); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	result, err := e.MoveToken(tokenID)
	if err != nil {
		t.Fatalf("MoveToken failed: %v", err)
	}
	return result
}

func TestMoveFromBaseOnSix(t *testing.T) {
	// Scenario A: player 0 rolls a 6 and brings a token out of base.
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]

	result := rollAndMove(t, e, 6, tok.ID)

	if tok.Status != StatusActive {
		t.Errorf("Expected token active, got %s", tok.Status)
	}
	if tok.Position != StartIndex(4, 0) {
		t.Errorf("Expected token at start index %d, got %d", StartIndex(4, 0), tok.Position)
	}
	if !result.BonusTurn {
		t.Error("Leaving base must grant a bonus turn")
	}
	state := e.GetState()
	if state.Phase != PhaseRolling || state.CurrentPlayer != 0 {
		t.Errorf("Expected same player back in ROLLING, got phase=%s player=%d",
			state.Phase, state.CurrentPlayer)
	}
	if state.DiceValue != 0 {
		t.Errorf("Expected dice value cleared after move, got %d", state.DiceValue)
	}
}

func TestMoveFromBaseRequiresSix(t *testing.T) {
	e := newTestEngine(t)
	active := e.GetState().TokensOf(0)[0]
	based := e.GetState().TokensOf(0)[1]
	placeActive(t, e, active, 20)

	if _, err := e.RollWithValue(3); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if _, err := e.MoveToken(based.ID); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for base token without a 6, got %v", err)
	}
}

func TestMoveValidation(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	placeActive(t, e, tok, 20)

	if _, err := e.MoveToken(tok.ID); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Expected ErrWrongPhase before rolling, got %v", err)
	}

	if _, err := e.RollWithValue(3); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if _, err := e.MoveToken("missing"); !errors.Is(err, ErrNoSuchToken) {
		t.Errorf("Expected ErrNoSuchToken, got %v", err)
	}
	other := e.GetState().TokensOf(1)[0]
	if _, err := e.MoveToken(other.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	tok.FrozenTurns = 2
	if _, err := e.MoveToken(tok.ID); !errors.Is(err, ErrTokenFrozen) {
		t.Errorf("Expected ErrTokenFrozen, got %v", err)
	}
}

func TestTrackMovementWrapsAround(t *testing.T) {
	e := newTestEngine(t)
	// Player 1's turning index is 11, so position 50 is plain track for it.
	tok := e.GetState().TokensOf(1)[0]
	placeActive(t, e, tok, 50)
	e.GetState().CurrentPlayer = 1

	rollAndMove(t, e, 4, tok.ID)

	if tok.Status != StatusActive || tok.Position != 2 {
		t.Errorf("Expected active token at 2 after wraparound, got %s at %d", tok.Status, tok.Position)
	}
}

func TestHomeStretchEntry(t *testing.T) {
	tests := []struct {
		name         string
		startPos     int
		roll         int
		wantStatus   TokenStatus
		wantPosition int
	}{
		// Player 0's turning index is 50.
		{"on turning index, roll 1", 50, 1, StatusHomeStretch, 0},
		{"on turning index, roll 5", 50, 5, StatusHomeStretch, 4},
		{"on turning index, roll 6 finishes", 50, 6, StatusFinished, LaneFinish},
		// Scenario B: one step before the turning index, roll 3.
		{"one before turning, roll 3", 49, 3, StatusHomeStretch, 1},
		{"passes through turning", 47, 5, StatusHomeStretch, 1},
		{"lands exactly on turning stays on track", 46, 4, StatusActive, 50},
		{"one before turning, roll 6", 49, 6, StatusHomeStretch, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			tok := e.GetState().TokensOf(0)[0]
			placeActive(t, e, tok, tt.startPos)

			rollAndMove(t, e, tt.roll, tok.ID)

			if tok.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, tok.Status)
			}
			if tok.Position != tt.wantPosition {
				t.Errorf("Expected position %d, got %d", tt.wantPosition, tok.Position)
			}
		})
	}
}

func TestCaptureSendsTokenToBase(t *testing.T) {
	// Scenario C: an unprotected opposing token on the destination square.
	e := newTestEngine(t)
	mover := e.GetState().TokensOf(0)[0]
	victim := e.GetState().TokensOf(1)[0]
	placeActive(t, e, mover, 10)
	placeActive(t, e, victim, 14)

	result := rollAndMove(t, e, 4, mover.ID)

	if result.CapturedTokenID != victim.ID {
		t.Errorf("Expected capture of %s, got %q", victim.ID, result.CapturedTokenID)
	}
	if victim.Status != StatusBase || victim.Position != BasePosition {
		t.Errorf("Expected victim in base, got %s at %d", victim.Status, victim.Position)
	}
	if !result.BonusTurn {
		t.Error("Capture must grant a bonus turn")
	}
	state := e.GetState()
	if state.CurrentPlayer != 0 || state.Phase != PhaseRolling {
		t.Errorf("Expected player 0 to keep the turn, got phase=%s player=%d",
			state.Phase, state.CurrentPlayer)
	}
}

func TestNoCaptureOnSafeZone(t *testing.T) {
	e := newTestEngine(t)
	mover := e.GetState().TokensOf(0)[0]
	victim := e.GetState().TokensOf(1)[0]
	placeActive(t, e, mover, 9)
	placeActive(t, e, victim, 13) // player 1's start square, safe

	result := rollAndMove(t, e, 4, mover.ID)

	if result.CapturedTokenID != "" {
		t.Error("Safe zone must prevent capture")
	}
	if victim.Status != StatusActive || victim.Position != 13 {
		t.Errorf("Expected victim untouched, got %s at %d", victim.Status, victim.Position)
	}
	if result.BonusTurn {
		t.Error("No bonus for a blocked capture on a plain roll")
	}
	if !result.TurnAdvanced {
		t.Error("Expected turn to advance after an ordinary move")
	}
}

func TestProtectedTokenBlocksCaptureAndBonus(t *testing.T) {
	for _, effect := range []string{"shield", "immunity"} {
		t.Run(effect, func(t *testing.T) {
			e := newTestEngine(t)
			mover := e.GetState().TokensOf(0)[0]
			victim := e.GetState().TokensOf(1)[0]
			placeActive(t, e, mover, 8)
			placeActive(t, e, victim, 14)
			if effect == "shield" {
				victim.ShieldTurns = ShieldDuration
			} else {
				victim.ImmuneTurns = ImmunityDuration
			}

			// Rolling 6 would normally grant a bonus, but the blocked
			// capture suppresses it and the turn ends normally.
			result := rollAndMove(t, e, 6, mover.ID)

			if result.CapturedTokenID != "" {
				t.Error("Protected token must not be captured")
			}
			if !result.CaptureBlocked {
				t.Error("Expected capture to be reported blocked")
			}
			if victim.Status != StatusActive {
				t.Errorf("Expected victim still active, got %s", victim.Status)
			}
			if result.BonusTurn {
				t.Error("Blocked capture must suppress the roll-6 bonus")
			}
			if !result.TurnAdvanced {
				t.Error("Expected turn to advance")
			}
		})
	}
}

func TestSafePassagePreventsCapture(t *testing.T) {
	e := newTestEngine(t)
	mover := e.GetState().TokensOf(0)[0]
	victim := e.GetState().TokensOf(1)[0]
	placeActive(t, e, mover, 10)
	placeActive(t, e, victim, 14)
	victim.SafePassageTurns = SafePassageDuration

	result := rollAndMove(t, e, 4, mover.ID)

	if result.CapturedTokenID != "" {
		t.Error("Safe passage must prevent capture")
	}
	if victim.Status != StatusActive {
		t.Errorf("Expected victim still active, got %s", victim.Status)
	}
}

func TestPhasedMoverSkipsCaptureCheck(t *testing.T) {
	e := newTestEngine(t)
	mover := e.GetState().TokensOf(0)[0]
	victim := e.GetState().TokensOf(1)[0]
	placeActive(t, e, mover, 10)
	placeActive(t, e, victim, 14)
	mover.PhasedTurns = PhaseDuration

	result := rollAndMove(t, e, 4, mover.ID)

	if result.CapturedTokenID != "" {
		t.Error("Phased mover must not capture")
	}
	if mover.Position != 14 || victim.Position != 14 {
		t.Errorf("Expected both tokens on 14, got mover=%d victim=%d", mover.Position, victim.Position)
	}
}

func TestReversedMoveGoesBackwardsAndSkipsLane(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	placeActive(t, e, tok, 1)
	tok.Reversed = true

	rollAndMove(t, e, 3, tok.ID)

	// 1 - 3 wraps to 50, player 0's own turning index, but a backward move
	// never peels into the lane.
	if tok.Status != StatusActive || tok.Position != 50 {
		t.Errorf("Expected active token at 50, got %s at %d", tok.Status, tok.Position)
	}
	if tok.Reversed {
		t.Error("Reversed flag must clear after one move")
	}
}

func TestDoubleMoveDoublesEffectiveRoll(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	placeActive(t, e, tok, 10)
	tok.DoubleNext = true

	result := rollAndMove(t, e, 2, tok.ID)

	if result.EffectiveRoll != 4 {
		t.Errorf("Expected effective roll 4, got %d", result.EffectiveRoll)
	}
	if tok.Position != 14 {
		t.Errorf("Expected position 14, got %d", tok.Position)
	}
	if tok.DoubleNext {
		t.Error("Double-move flag must clear after one move")
	}
}

func TestExactMoveOverridesDie(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	placeActive(t, e, tok, 10)
	tok.ExactNext = 5

	result := rollAndMove(t, e, 1, tok.ID)

	if result.EffectiveRoll != 5 {
		t.Errorf("Expected effective roll 5, got %d", result.EffectiveRoll)
	}
	if tok.Position != 15 {
		t.Errorf("Expected position 15, got %d", tok.Position)
	}
	if tok.ExactNext != 0 {
		t.Error("Exact-move value must clear after one move")
	}
}

func TestHomeStretchMovement(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	if err := e.SetTokenPosition(tok.ID, 1, StatusHomeStretch); err != nil {
		t.Fatalf("SetTokenPosition failed: %v", err)
	}

	rollAndMove(t, e, 3, tok.ID)
	if tok.Status != StatusHomeStretch || tok.Position != 4 {
		t.Errorf("Expected lane position 4, got %s at %d", tok.Status, tok.Position)
	}

	e.GetState().CurrentPlayer = 0
	e.GetState().Phase = PhaseRolling
	rollAndMove(t, e, 1, tok.ID)
	if tok.Status != StatusFinished || tok.Position != LaneFinish {
		t.Errorf("Expected finished token, got %s at %d", tok.Status, tok.Position)
	}
}

func TestHomeStretchOvershootIsNotMovable(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	if err := e.SetTokenPosition(tok.ID, 3, StatusHomeStretch); err != nil {
		t.Fatalf("SetTokenPosition failed: %v", err)
	}

	// Lane position 3 + roll 4 overshoots past the finish slot, and every
	// other token is in base: the roll is skipped.
	roll, err := e.RollWithValue(4)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if !roll.Skipped {
		t.Error("Expected skip when the lane token cannot move")
	}
}

func TestStatusCountersDecayAfterOwnMove(t *testing.T) {
	e := newTestEngine(t)
	mover := e.GetState().TokensOf(0)[0]
	shielded := e.GetState().TokensOf(0)[1]
	placeActive(t, e, mover, 20)
	placeActive(t, e, shielded, 30)
	shielded.ShieldTurns = ShieldDuration

	rollAndMove(t, e, 2, mover.ID)
	if shielded.ShieldTurns != ShieldDuration-1 {
		t.Errorf("Expected shield counter %d, got %d", ShieldDuration-1, shielded.ShieldTurns)
	}

	// Opponent moves must not decay player 0's counters.
	opp := e.GetState().TokensOf(1)[0]
	placeActive(t, e, opp, 40)
	e.GetState().CurrentPlayer = 1
	e.GetState().Phase = PhaseRolling
	rollAndMove(t, e, 2, opp.ID)
	if shielded.ShieldTurns != ShieldDuration-1 {
		t.Errorf("Opponent move decayed shield counter to %d", shielded.ShieldTurns)
	}

	e.GetState().CurrentPlayer = 0
	e.GetState().Phase = PhaseRolling
	rollAndMove(t, e, 2, mover.ID)
	if shielded.ShieldTurns != 0 {
		t.Errorf("Expected shield expired, got %d", shielded.ShieldTurns)
	}
}

func TestLandingOnPowerUpCollects(t *testing.T) {
	e := newTestEngine(t)
	tok := e.GetState().TokensOf(0)[0]
	placeActive(t, e, tok, 3)
	e.GetState().BoardPowerUps[5] = &PowerUp{ID: "pu-1", Type: Shield}

	result := rollAndMove(t, e, 2, tok.ID)

	if result.CollectedPowerUp == nil || result.CollectedPowerUp.ID != "pu-1" {
		t.Fatalf("Expected to collect pu-1, got %+v", result.CollectedPowerUp)
	}
	player := e.GetState().Players[0]
	if len(player.PowerUps) != 1 || player.PowerUps[0].Type != Shield {
		t.Errorf("Expected shield in inventory, got %+v", player.PowerUps)
	}
	if _, still := e.GetState().BoardPowerUps[5]; still {
		t.Error("Collected power-up must leave the board")
	}
}

func TestFullInventoryForcesDiscardPhase(t *testing.T) {
	// Scenario D: landing on a power-up square with three held power-ups.
	e := newTestEngine(t)
	state := e.GetState()
	tok := state.TokensOf(0)[0]
	placeActive(t, e, tok, 3)
	state.BoardPowerUps[5] = &PowerUp{ID: "pu-blocked", Type: Teleport}
	state.Players[0].PowerUps = []PowerUp{
		{ID: "a", Type: Shield}, {ID: "b", Type: Freeze}, {ID: "c", Type: Warp},
	}

	result := rollAndMove(t, e, 2, tok.ID)

	if !result.PendingDiscard {
		t.Fatal("Expected pending discard")
	}
	if state.Phase != PhasePowerUpDiscard {
		t.Errorf("Expected phase %s, got %s", PhasePowerUpDiscard, state.Phase)
	}
	req := state.PendingDiscard
	if req == nil || req.PlayerIndex != 0 || req.Position != 5 {
		t.Fatalf("Unexpected pending request: %+v", req)
	}

	// Ordinary commands are rejected until the discard resolves.
	if _, err := e.RollWithValue(4); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Expected ErrWrongPhase while discard pending, got %v", err)
	}

	discard, err := e.DiscardPowerUp(0, 1)
	if err != nil {
		t.Fatalf("DiscardPowerUp failed: %v", err)
	}
	if discard.Removed.ID != "b" {
		t.Errorf("Expected to discard b, got %s", discard.Removed.ID)
	}
	if discard.Collected == nil || discard.Collected.ID != "pu-blocked" {
		t.Fatalf("Expected blocked collection to complete, got %+v", discard.Collected)
	}
	if state.PendingDiscard != nil {
		t.Error("Pending request must clear")
	}
	if state.Phase != PhaseRolling {
		t.Errorf("Expected phase %s after discard, got %s", PhaseRolling, state.Phase)
	}
	inv := state.Players[0].PowerUps
	if len(inv) != InventoryCap {
		t.Fatalf("Expected full inventory of %d, got %d", InventoryCap, len(inv))
	}
	// Order-preserving removal, new pickup appended last.
	if inv[0].ID != "a" || inv[1].ID != "c" || inv[2].ID != "pu-blocked" {
		t.Errorf("Unexpected inventory order: %+v", inv)
	}
}
