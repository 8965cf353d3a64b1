// Package session provides game session management.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps its own engine instance plus metadata like creation
// time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated with
// cryptographic randomness and matched case-insensitively.
//
// Concurrency:
//
// The session manager is thread-safe. Multiple goroutines can safely create,
// retrieve, and delete sessions simultaneously. Serializing commands against
// a single session's engine is the service layer's job.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for over an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
