package service

import (
	"time"

	"github.com/rfgarcia/powerup-ludo/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// RollOutcome contains the result of a roll operation
type RollOutcome struct {
	Roll      *engine.RollResult `json:"roll"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message,omitempty"`
	// AutoAdvanceIn reports the delay, in milliseconds, before a skipped
	// turn advances on its own. Zero when nothing is scheduled.
	AutoAdvanceIn int64 `json:"auto_advance_in,omitempty"`
}

// MoveOutcome contains the result of a move operation
type MoveOutcome struct {
	Move      *engine.MoveResult `json:"move"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message,omitempty"`
	// Winner is set when this move finished the player's last token.
	Winner *int `json:"winner,omitempty"`
}

// ActivateOutcome contains the result of a power-up activation
type ActivateOutcome struct {
	Activation *engine.ActivationResult `json:"activation"`
	GameState  *engine.GameState        `json:"game_state"`
	Message    string                   `json:"message,omitempty"`
}

// DiscardOutcome contains the result of a power-up discard
type DiscardOutcome struct {
	Discard   *engine.DiscardResult `json:"discard"`
	GameState *engine.GameState     `json:"game_state"`
}

// EventOptions configures event log retrieval
type EventOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// EventResponse contains a paginated slice of the session event log
type EventResponse struct {
	Events      []engine.GameEvent `json:"events"`
	TotalEvents int                `json:"total_events"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename,omitempty"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	PlayerCount int    `json:"player_count"`
	BuiltIn     bool   `json:"built_in,omitempty"`
}
