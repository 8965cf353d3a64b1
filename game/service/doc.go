// Package service provides the business logic layer above the game engine.
//
// The service package implements:
//   - Multi-session game management
//   - Command orchestration (roll, move, power-ups, turn hand-off)
//   - Skip auto-advance timing
//   - Event log pagination
//   - Configuration management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages board configuration loading.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing session isolation and command
// serialization. Each session maintains its own engine instance with
// independent state; the service's lock keeps concurrent commands against
// any session from interleaving inside the engine.
//
// Skip Handling:
//
// When a roll leaves the current player without a legal move, the engine
// pins the phase to SKIPPING and the service arms a timer that advances the
// turn after the skip delay. The timer re-checks phase, turn, and player
// before acting, so a client command that raced it always wins. Transports
// can observe timer-driven changes through WithStateListener.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "standard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameService.Roll(ctx, info.ID)
//	if err == nil && !outcome.Roll.Skipped {
//		gameService.Move(ctx, info.ID, outcome.Roll.MovableTokens[0])
//	}
package service
