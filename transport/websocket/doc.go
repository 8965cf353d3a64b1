// Package websocket provides the real-time spectator transport for the game
// server.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State fan-out to every client watching a session
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// A single Hub tracks clients grouped by session ID behind a read-write
// mutex. Each connection runs two goroutines: a read pump that services
// pongs and detects closure, and a write pump that drains the client's
// buffered send channel. Clients that stop draining are dropped rather than
// allowed to stall a broadcast.
//
// Message Protocol:
//
// Clients do not issue commands over the socket; all mutations go through
// the REST API. After every successful command the server pushes a JSON
// envelope:
//
//	{
//	  "session_id": "abc1",
//	  "event": "move",
//	  "game_state": { ... }
//	}
//
// Event names the command that produced the update (roll, move, turn,
// power_up, discard, restart) or state_update for unsolicited refreshes,
// such as a skipped turn advancing on its own timer.
//
// Session Integration:
//
// Clients specify their session via query parameter (?session=abc1) when
// establishing the connection. Updates are broadcast only to clients
// attached to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
