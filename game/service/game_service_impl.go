package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rfgarcia/powerup-ludo/game/engine"
)

// DefaultSkipDelay is how long a skipped turn lingers before the service
// advances it on its own, giving clients time to show the dead roll.
const DefaultSkipDelay = 1500 * time.Millisecond

// StateListener receives the fresh state after a service-initiated change,
// such as a skip auto-advance. Transports use it to push updates.
type StateListener func(sessionID string, state *engine.GameState)

// Option configures the game service.
type Option func(*gameServiceImpl)

// WithSkipDelay overrides the skip auto-advance delay. Zero disables the
// timer; callers must then advance skipped turns themselves.
func WithSkipDelay(d time.Duration) Option {
	return func(s *gameServiceImpl) { s.skipDelay = d }
}

// WithStateListener registers a listener for service-initiated state changes.
func WithStateListener(l StateListener) Option {
	return func(s *gameServiceImpl) { s.listener = l }
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	skipDelay time.Duration
	listener  StateListener
	mu        sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		skipDelay: DefaultSkipDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for
// consistent API responses.
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "standard"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config %q (available configs: %v): %w", configName, configIDs, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// Roll throws the dice for the current player. When no legal move exists the
// phase pins to SKIPPING and, unless disabled, a timer advances the turn
// after the skip delay.
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*RollOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	roll, err := sess.Engine.Roll()
	if err != nil {
		return nil, err
	}

	outcome := &RollOutcome{
		Roll:      roll,
		GameState: sess.Engine.GetState(),
	}
	if roll.Skipped {
		outcome.Message = fmt.Sprintf("rolled %d, no legal move", roll.Value)
		if s.skipDelay > 0 {
			state := sess.Engine.GetState()
			s.scheduleSkipAdvance(sessionID, state.TurnCount, state.CurrentPlayer)
			outcome.AutoAdvanceIn = s.skipDelay.Milliseconds()
		}
	} else {
		outcome.Message = fmt.Sprintf("rolled %d", roll.Value)
	}
	return outcome, nil
}

// RollWithValue applies a chosen die value, for debugging and scripted play.
// It never schedules a skip timer; deterministic callers drive the turn
// themselves.
func (s *gameServiceImpl) RollWithValue(ctx context.Context, sessionID string, value int) (*RollOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	roll, err := sess.Engine.RollWithValue(value)
	if err != nil {
		return nil, err
	}

	outcome := &RollOutcome{
		Roll:      roll,
		GameState: sess.Engine.GetState(),
		Message:   fmt.Sprintf("rolled %d", roll.Value),
	}
	if roll.Skipped {
		outcome.Message = fmt.Sprintf("rolled %d, no legal move", roll.Value)
	}
	return outcome, nil
}

// scheduleSkipAdvance arms a timer that advances a skipped turn. The callback
// re-checks phase, turn, and player so a command that raced it wins.
func (s *gameServiceImpl) scheduleSkipAdvance(sessionID string, turnCount, player int) {
	time.AfterFunc(s.skipDelay, func() {
		s.mu.Lock()
		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			s.mu.Unlock()
			return
		}
		state := sess.Engine.GetState()
		if state.Phase != engine.PhaseSkipping || state.TurnCount != turnCount || state.CurrentPlayer != player {
			s.mu.Unlock()
			return
		}
		if err := sess.Engine.AdvanceTurn(); err != nil {
			s.mu.Unlock()
			return
		}
		fresh := sess.Engine.GetState()
		listener := s.listener
		s.mu.Unlock()

		if listener != nil {
			listener(sessionID, fresh)
		}
	})
}

// Move moves a token of the current player by the pending die value.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, tokenID string) (*MoveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	move, err := sess.Engine.MoveToken(tokenID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	outcome := &MoveOutcome{
		Move:      move,
		GameState: state,
	}

	switch {
	case move.CapturedTokenID != "":
		outcome.Message = "capture, roll again"
	case move.Finished:
		outcome.Message = "token finished"
	case move.BonusTurn:
		outcome.Message = "bonus turn, roll again"
	case move.PendingDiscard:
		outcome.Message = "inventory full, discard a power-up first"
	}

	if move.Finished {
		if tok, ok := state.Tokens[tokenID]; ok && state.AllFinished(tok.PlayerIndex) {
			winner := tok.PlayerIndex
			outcome.Winner = &winner
			outcome.Message = fmt.Sprintf("%s wins", state.Players[winner].Name)
		}
	}
	return outcome, nil
}

// AdvanceTurn hands the turn to the next player, used by clients that manage
// the skip delay themselves.
func (s *gameServiceImpl) AdvanceTurn(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Engine.AdvanceTurn(); err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// Restart resets a session's game to its initial state
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Init(), nil
}

// ActivatePowerUp consumes an inventory power-up and applies its effect
func (s *gameServiceImpl) ActivatePowerUp(ctx context.Context, sessionID string, playerIndex, powerUpIndex int, target engine.ActivateTarget) (*ActivateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	activation, err := sess.Engine.ActivatePowerUp(playerIndex, powerUpIndex, target)
	if err != nil {
		return nil, err
	}

	outcome := &ActivateOutcome{
		Activation: activation,
		GameState:  sess.Engine.GetState(),
	}
	if activation.NeedsSelection {
		outcome.Message = fmt.Sprintf("%s needs a target", activation.PowerUp.Type)
	} else {
		outcome.Message = fmt.Sprintf("%s activated", activation.PowerUp.Type)
	}
	return outcome, nil
}

// DiscardPowerUp removes an inventory power-up, resolving a pending discard
func (s *gameServiceImpl) DiscardPowerUp(ctx context.Context, sessionID string, playerIndex, powerUpIndex int) (*DiscardOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	discard, err := sess.Engine.DiscardPowerUp(playerIndex, powerUpIndex)
	if err != nil {
		return nil, err
	}
	return &DiscardOutcome{
		Discard:   discard,
		GameState: sess.Engine.GetState(),
	}, nil
}

// CancelSelection abandons a pending power-up target selection
func (s *gameServiceImpl) CancelSelection(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Engine.CancelPowerUpSelection(); err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetEvents returns a paginated slice of the session event log
func (s *gameServiceImpl) GetEvents(ctx context.Context, sessionID string, opts EventOptions) (*EventResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	log := sess.Engine.GetState().EventLog
	total := len(log)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var events []engine.GameEvent
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, log[i])
		}
	} else if start < total {
		events = log[start:end]
	}
	if events == nil {
		events = []engine.GameEvent{}
	}

	return &EventResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		BoardConfig:    sess.Config,
	}
}
