// Package mcp provides the Model Context Protocol surface of the game server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every game command
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// The client is deliberately thin: every tool call is proxied to the REST
// API, so the MCP surface and the HTTP surface can never disagree about
// rules or state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - game_state: Get the current game state, formatted for reading
//   - roll_dice: Roll for the current player
//   - move_token: Move one of the movable tokens
//   - advance_turn: Pass a skipped turn immediately
//   - activate_powerup: Use a power-up, with optional inline target
//   - discard_powerup: Resolve a pending full-inventory pickup
//   - cancel_selection: Abort a pending target selection
//   - restart_game: Reset a session to its starting state
//   - event_log: Paginated session event log
//   - list_configs: List available board configurations
//   - game_instructions: Comprehensive rules reference
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
