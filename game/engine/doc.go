// Package engine implements the rules of a four-token-per-player race board
// game extended with a board-based power-up economy.
//
// The engine owns the single authoritative GameState and exposes commands
// that each atomically transform it:
//   - Init / Roll / RollWithValue / MoveToken / AdvanceTurn
//   - ActivatePowerUp / DiscardPowerUp / CollectPowerUp
//   - SpawnPowerUpOnBoard / RespawnPowerUps
//   - SetTokenPosition (layout/debug only)
//
// Tokens travel a shared circular track and peel into a private home lane at
// their player's turning index; landing on an opposing token captures it
// unless a safe zone or a protection effect intervenes. Up to twenty power-up
// variants modify movement, block capture, or manipulate opponents, acquired
// from board squares into a three-slot inventory.
//
// Phase machine:
//
//	ROLLING → MOVING (a legal move exists) or SKIPPING (none; caller advances)
//	MOVING  → ROLLING (bonus turn) or next player's ROLLING
//	POWERUP_DISCARD pins the phase while an over-capacity pickup waits
//	POWERUP_SELECTION pins the phase while an activation waits for a target
//
// The engine is a pure synchronous state machine with no timers and no
// internal concurrency; callers serialize access (see game/session).
//
// Usage:
//
//	eng, err := engine.NewEngine(&engine.BoardConfig{Name: "standard", PlayerCount: 4})
//	if err != nil {
//		log.Fatal(err)
//	}
//	roll, _ := eng.Roll()
//	if !roll.Skipped {
//		eng.MoveToken(roll.MovableTokens[0])
//	}
package engine
