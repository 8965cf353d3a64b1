package engine

import "fmt"

// ActivateTarget carries the optional targeting parameters of an activation.
// Which fields are required depends on the power-up type; when a required one
// is absent the engine answers with a pending selection instead of an error.
type ActivateTarget struct {
	TokenID     string `json:"token_id,omitempty"`
	Position    *int   `json:"position,omitempty"`
	PlayerIndex *int   `json:"player_index,omitempty"`
	DiceValue   int    `json:"dice_value,omitempty"` // 0 = absent
}

// ActivationResult describes the outcome of ActivatePowerUp.
type ActivationResult struct {
	PowerUp        PowerUp  `json:"power_up"`
	NeedsSelection bool     `json:"needs_selection,omitempty"`
	StolenPowerUp  *PowerUp `json:"stolen_power_up,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// CollectResult describes the outcome of CollectPowerUp.
type CollectResult struct {
	PowerUp        *PowerUp `json:"power_up,omitempty"`
	PendingDiscard bool     `json:"pending_discard,omitempty"`
}

// DiscardResult describes the outcome of DiscardPowerUp.
type DiscardResult struct {
	Removed   PowerUp  `json:"removed"`
	Collected *PowerUp `json:"collected,omitempty"`
}

// SpawnPowerUpOnBoard places a randomly-typed power-up at an eligible,
// unoccupied track position.
func (e *Engine) SpawnPowerUpOnBoard(position int) (*PowerUp, error) {
	state := e.state
	if !IsPowerUpZone(state.PlayerCount, position) {
		return nil, fmt.Errorf("%w: position %d is not power-up eligible", ErrInvalidTarget, position)
	}
	if _, taken := state.BoardPowerUps[position]; taken {
		return nil, fmt.Errorf("%w: position %d already holds a power-up", ErrInvalidTarget, position)
	}
	pu := e.newPowerUp()
	state.BoardPowerUps[position] = pu
	return pu, nil
}

// RespawnPowerUps tops the board back up: while it holds fewer than the cap,
// up to RespawnBatch power-ups appear at random unoccupied eligible squares,
// chosen without repetition. Returns how many were added.
func (e *Engine) RespawnPowerUps() int {
	state := e.state
	if len(state.BoardPowerUps) >= BoardPowerUpCap {
		return 0
	}
	budget := RespawnBatch
	if room := BoardPowerUpCap - len(state.BoardPowerUps); room < budget {
		budget = room
	}
	added := 0
	for _, pos := range sampleUnoccupiedZones(e.rng, state.PlayerCount, state.BoardPowerUps, budget) {
		state.BoardPowerUps[pos] = e.newPowerUp()
		added++
	}
	if added > 0 {
		state.addEvent("respawn", fmt.Sprintf("%d power-ups appeared on the board", added),
			state.CurrentPlayer, "")
	}
	return added
}

// CollectPowerUp moves a board power-up into a player's inventory. With the
// inventory at capacity it does not collect: a pending discard request is
// recorded and the phase pins to POWERUP_DISCARD until resolved. Normally
// invoked by move resolution, exposed for direct and test use.
func (e *Engine) CollectPowerUp(position, playerIndex int) (*CollectResult, error) {
	state := e.state
	if playerIndex < 0 || playerIndex >= len(state.Players) {
		return nil, ErrNoSuchPlayer
	}
	if _, ok := state.BoardPowerUps[position]; !ok {
		return nil, fmt.Errorf("%w: no power-up at position %d", ErrInvalidTarget, position)
	}
	collected, pending := e.collectAt(position, playerIndex, false)
	return &CollectResult{PowerUp: collected, PendingDiscard: pending}, nil
}

// collectAt implements collection, shared by the move path and the command.
func (e *Engine) collectAt(position, playerIndex int, fromMove bool) (*PowerUp, bool) {
	state := e.state
	pu, ok := state.BoardPowerUps[position]
	if !ok {
		return nil, false
	}
	player := state.Players[playerIndex]
	if len(player.PowerUps) >= InventoryCap {
		state.PendingDiscard = &DiscardRequest{
			PlayerIndex: playerIndex,
			Position:    position,
			FromMove:    fromMove,
		}
		state.Phase = PhasePowerUpDiscard
		state.addEvent("discard_required", fmt.Sprintf("%s must discard before collecting %s",
			player.Name, pu.Type), playerIndex, "")
		return nil, true
	}
	player.PowerUps = append(player.PowerUps, *pu)
	delete(state.BoardPowerUps, position)
	state.addEvent("collect", fmt.Sprintf("%s collected %s", player.Name, pu.Type), playerIndex, "")
	return pu, false
}

// DiscardPowerUp removes an inventory entry, order-preserving. Resolving a
// pending discard request also re-attempts the blocked collection and resumes
// the turn resolution that was suppressed by it.
func (e *Engine) DiscardPowerUp(playerIndex, index int) (*DiscardResult, error) {
	state := e.state
	if playerIndex < 0 || playerIndex >= len(state.Players) {
		return nil, ErrNoSuchPlayer
	}
	player := state.Players[playerIndex]
	if index < 0 || index >= len(player.PowerUps) {
		return nil, fmt.Errorf("%w: no power-up at index %d", ErrInvalidTarget, index)
	}

	result := &DiscardResult{Removed: player.PowerUps[index]}
	player.PowerUps = append(player.PowerUps[:index], player.PowerUps[index+1:]...)
	state.addEvent("discard", fmt.Sprintf("%s discarded %s", player.Name, result.Removed.Type),
		playerIndex, "")

	if req := state.PendingDiscard; req != nil && req.PlayerIndex == playerIndex {
		state.PendingDiscard = nil
		// The freed slot makes the blocked collection succeed now.
		result.Collected, _ = e.collectAt(req.Position, playerIndex, req.FromMove)
		if req.FromMove && !req.BonusTurn {
			e.advanceTurn()
		} else {
			state.Phase = PhaseRolling
		}
	}
	return result, nil
}

// CancelPowerUpSelection abandons a pending target selection and restores the
// pre-selection phase, so a dismissed dialog can never wedge the game.
func (e *Engine) CancelPowerUpSelection() error {
	sel := e.state.PendingSelection
	if sel == nil {
		return ErrWrongPhase
	}
	e.state.Phase = sel.ReturnPhase
	e.state.PendingSelection = nil
	return nil
}

// ActivatePowerUp consumes an inventory power-up and applies its effect.
// One activation succeeds per turn. When the type needs targets the caller
// did not supply, the engine records a pending selection and pins the phase
// to POWERUP_SELECTION; the caller re-invokes with targets filled in.
func (e *Engine) ActivatePowerUp(playerIndex, powerUpIndex int, target ActivateTarget) (*ActivationResult, error) {
	state := e.state
	if playerIndex < 0 || playerIndex >= len(state.Players) {
		return nil, ErrNoSuchPlayer
	}
	if playerIndex != state.CurrentPlayer {
		return nil, ErrNotOwner
	}
	if state.PowerUpUsed {
		return nil, ErrPowerUpAlreadyUsed
	}

	switch state.Phase {
	case PhaseRolling, PhaseMoving:
	case PhasePowerUpSelection:
		sel := state.PendingSelection
		if sel == nil || sel.PlayerIndex != playerIndex || sel.PowerUpIndex != powerUpIndex {
			return nil, ErrSelectionPending
		}
	default:
		return nil, ErrWrongPhase
	}

	player := state.Players[playerIndex]
	if powerUpIndex < 0 || powerUpIndex >= len(player.PowerUps) {
		return nil, fmt.Errorf("%w: no power-up at index %d", ErrInvalidTarget, powerUpIndex)
	}
	pu := player.PowerUps[powerUpIndex]

	if missingTarget(pu.Type, target) {
		returnPhase := state.Phase
		if sel := state.PendingSelection; sel != nil {
			returnPhase = sel.ReturnPhase
		}
		state.PendingSelection = &SelectionRequest{
			PlayerIndex:  playerIndex,
			PowerUpIndex: powerUpIndex,
			Type:         pu.Type,
			ReturnPhase:  returnPhase,
		}
		state.Phase = PhasePowerUpSelection
		return &ActivationResult{PowerUp: pu, NeedsSelection: true}, nil
	}

	// Validation and mutation are split so a rejected target leaves the
	// state (including any pending selection) untouched.
	if err := e.checkTarget(pu.Type, playerIndex, target); err != nil {
		return nil, err
	}

	if sel := state.PendingSelection; sel != nil {
		state.Phase = sel.ReturnPhase
		state.PendingSelection = nil
	}

	result := &ActivationResult{PowerUp: pu}
	e.applyEffect(pu.Type, playerIndex, target, result)

	player.PowerUps = append(player.PowerUps[:powerUpIndex], player.PowerUps[powerUpIndex+1:]...)
	state.PowerUpUsed = true
	state.addEvent("activate", fmt.Sprintf("%s activated %s", player.Name, pu.Type), playerIndex, target.TokenID)
	return result, nil
}

// missingTarget reports whether a required targeting parameter is absent,
// which triggers the two-phase selection protocol.
func missingTarget(puType PowerUpType, target ActivateTarget) bool {
	switch puType {
	case Shield, Reverse, DoubleMove, Immunity, PhaseShift, SafePassage,
		Warp, BackwardsDash, HomeStretchTeleport, SendBack, Freeze, Magnet, Swap:
		return target.TokenID == ""
	case Teleport:
		return target.TokenID == "" || target.Position == nil
	case ExactMove:
		return target.TokenID == "" || target.DiceValue == 0
	case StealPowerUp:
		return target.PlayerIndex == nil
	case DiceLock:
		return target.PlayerIndex == nil || target.DiceValue == 0
	case SwapDice:
		return target.DiceValue == 0
	default: // ExtraTurn, BonusRoll
		return false
	}
}

// checkTarget enforces each type's target ownership and state preconditions.
func (e *Engine) checkTarget(puType PowerUpType, playerIndex int, target ActivateTarget) error {
	state := e.state

	ownToken := func() (*Token, error) {
		t, ok := state.Tokens[target.TokenID]
		if !ok {
			return nil, ErrNoSuchToken
		}
		if t.PlayerIndex != playerIndex {
			return nil, fmt.Errorf("%w: token belongs to another player", ErrInvalidTarget)
		}
		return t, nil
	}
	opposingToken := func() (*Token, error) {
		t, ok := state.Tokens[target.TokenID]
		if !ok {
			return nil, ErrNoSuchToken
		}
		if t.PlayerIndex == playerIndex {
			return nil, fmt.Errorf("%w: cannot target own token", ErrInvalidTarget)
		}
		return t, nil
	}
	diceInRange := func() error {
		if target.DiceValue < 1 || target.DiceValue > 6 {
			return fmt.Errorf("%w: dice value %d", ErrInvalidTarget, target.DiceValue)
		}
		return nil
	}

	switch puType {
	case Shield, Reverse, DoubleMove, Immunity, PhaseShift, SafePassage:
		_, err := ownToken()
		return err

	case ExactMove:
		if _, err := ownToken(); err != nil {
			return err
		}
		return diceInRange()

	case Teleport:
		t, err := ownToken()
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return fmt.Errorf("%w: token is not on the track", ErrInvalidTarget)
		}
		if *target.Position < 0 || *target.Position >= state.TrackLength {
			return fmt.Errorf("%w: position %d outside track", ErrInvalidTarget, *target.Position)
		}
		return nil

	case Warp, BackwardsDash, HomeStretchTeleport:
		t, err := ownToken()
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return fmt.Errorf("%w: token is not on the track", ErrInvalidTarget)
		}
		return nil

	case SendBack:
		t, err := opposingToken()
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return fmt.Errorf("%w: token is not on the track", ErrInvalidTarget)
		}
		if t.Protected() {
			return fmt.Errorf("%w: token is protected", ErrInvalidTarget)
		}
		return nil

	case Freeze:
		t, err := opposingToken()
		if err != nil {
			return err
		}
		if t.Status == StatusBase {
			return fmt.Errorf("%w: token is in base", ErrInvalidTarget)
		}
		if t.Protected() {
			return fmt.Errorf("%w: token is protected", ErrInvalidTarget)
		}
		return nil

	case Magnet:
		t, err := opposingToken()
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return fmt.Errorf("%w: token is not on the track", ErrInvalidTarget)
		}
		if t.Protected() {
			return fmt.Errorf("%w: token is protected", ErrInvalidTarget)
		}
		if e.firstActiveToken(playerIndex) == nil {
			return fmt.Errorf("%w: no active token to anchor the magnet", ErrInvalidTarget)
		}
		return nil

	case Swap:
		t, err := opposingToken()
		if err != nil {
			return err
		}
		if t.Status != StatusActive {
			return fmt.Errorf("%w: token is not on the track", ErrInvalidTarget)
		}
		if t.Protected() {
			return fmt.Errorf("%w: token is protected", ErrInvalidTarget)
		}
		if e.firstActiveToken(playerIndex) == nil {
			return fmt.Errorf("%w: no active token to swap", ErrInvalidTarget)
		}
		return nil

	case StealPowerUp:
		idx := *target.PlayerIndex
		if idx < 0 || idx >= len(state.Players) {
			return ErrNoSuchPlayer
		}
		if idx == playerIndex {
			return fmt.Errorf("%w: cannot steal from yourself", ErrInvalidTarget)
		}
		if len(state.Players[idx].PowerUps) == 0 {
			return fmt.Errorf("%w: player holds no power-ups", ErrInvalidTarget)
		}
		if len(state.Players[playerIndex].PowerUps) >= InventoryCap {
			return ErrInventoryFull
		}
		return nil

	case DiceLock:
		idx := *target.PlayerIndex
		if idx < 0 || idx >= len(state.Players) {
			return ErrNoSuchPlayer
		}
		if idx == playerIndex {
			return fmt.Errorf("%w: cannot lock own dice", ErrInvalidTarget)
		}
		return diceInRange()

	case SwapDice:
		if state.DiceValue == 0 {
			return ErrNoDiceValue
		}
		return diceInRange()

	case ExtraTurn, BonusRoll:
		return nil

	default:
		return fmt.Errorf("%w: unknown power-up type %q", ErrInvalidTarget, puType)
	}
}

// applyEffect mutates the state for a validated activation.
func (e *Engine) applyEffect(puType PowerUpType, playerIndex int, target ActivateTarget, result *ActivationResult) {
	state := e.state
	token := state.Tokens[target.TokenID]

	switch puType {
	case Shield:
		token.ShieldTurns = ShieldDuration
	case Immunity:
		token.ImmuneTurns = ImmunityDuration
	case PhaseShift:
		token.PhasedTurns = PhaseDuration
	case SafePassage:
		token.SafePassageTurns = SafePassageDuration
	case Reverse:
		token.Reversed = true
	case DoubleMove:
		token.DoubleNext = true
	case ExactMove:
		token.ExactNext = target.DiceValue

	case Teleport:
		token.Position = *target.Position
	case Warp:
		token.Position = WrapPosition(state.TrackLength, token.Position+WarpDistance)
	case BackwardsDash:
		token.Position = WrapPosition(state.TrackLength, token.Position-DashDistance)
	case HomeStretchTeleport:
		token.Position = TurningIndex(state.PlayerCount, playerIndex)

	case SendBack:
		e.capture(token)
	case Freeze:
		token.FrozenTurns = FreezeDuration
	case Magnet:
		token.Position = WrapPosition(state.TrackLength, token.Position-MagnetPull)

	case Swap:
		own := e.firstActiveToken(playerIndex)
		own.Position, token.Position = token.Position, own.Position

	case StealPowerUp:
		victim := state.Players[*target.PlayerIndex]
		i := e.rng.Intn(len(victim.PowerUps))
		stolen := victim.PowerUps[i]
		victim.PowerUps = append(victim.PowerUps[:i], victim.PowerUps[i+1:]...)
		state.Players[playerIndex].PowerUps = append(state.Players[playerIndex].PowerUps, stolen)
		result.StolenPowerUp = &stolen

	case ExtraTurn:
		state.ExtraTurnQueued = true
	case BonusRoll:
		state.DiceValue = 0
		state.Phase = PhaseRolling
	case DiceLock:
		state.LockedDice[*target.PlayerIndex] = target.DiceValue
	case SwapDice:
		state.DiceValue = target.DiceValue
		// The replacement value may leave the player without a legal move.
		movable := false
		for _, t := range state.TokensOf(state.CurrentPlayer) {
			if e.hasLegalMove(t, state.DiceValue) {
				movable = true
				break
			}
		}
		if !movable {
			state.Phase = PhaseSkipping
		}
	}
}

// firstActiveToken returns a player's first ACTIVE token in stable order.
func (e *Engine) firstActiveToken(playerIndex int) *Token {
	for _, t := range e.state.TokensOf(playerIndex) {
		if t.Status == StatusActive {
			return t
		}
	}
	return nil
}
