// Package api provides the HTTP REST surface of the game server.
//
// The api package implements:
//   - RESTful endpoints for game commands
//   - Session management endpoints
//   - Configuration listing, loading, and saving
//   - WebSocket upgrade handling with per-session fan-out
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id)
//   - GET /api/sessions - List sessions (sort, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/roll - Roll the dice
//   - POST /api/sessions/{id}/move - Move a token ({"token_id": "..."})
//   - POST /api/sessions/{id}/advance - Advance a skipped turn
//   - POST /api/sessions/{id}/restart - Restart the game
//   - GET /api/sessions/{id}/events - Paginated event log
//
// Power-Ups:
//   - POST /api/sessions/{id}/powerups/activate
//   - POST /api/sessions/{id}/powerups/discard
//   - POST /api/sessions/{id}/powerups/selection/cancel
//
// Configuration:
//   - GET /api/configs - List available board configurations
//   - POST /api/configs - Save a board configuration
//   - GET /api/configs/{name} - Load one configuration
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the domain
// error: unknown sessions, players, and tokens are 404; rule violations that
// depend on game state (wrong phase, frozen token, power-up already used)
// are 409; malformed targets and configs are 400.
//
//	{
//	  "error": "wrong phase for this command"
//	}
//
// After every successful mutating command the server pushes the fresh game
// state to the session's WebSocket clients (GET /ws?session={id}).
package api
