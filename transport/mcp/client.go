package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rfgarcia/powerup-ludo/game/engine"
	"github.com/rfgarcia/powerup-ludo/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Power-Up Ludo",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Power-Up Ludo - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Race all four of your tokens around the shared track, up your home stretch,
and into the finish before the other players do.

AVAILABLE TOOLS:
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- game_state: Get current game state
- roll_dice: Roll the dice for the current player
- move_token: Move one of the movable tokens - requires intent explanation
- advance_turn: Pass a skipped turn to the next player
- activate_powerup: Use a power-up from an inventory - requires intent explanation
- discard_powerup: Resolve a pending discard (inventory full)
- cancel_selection: Abort a pending power-up target selection
- restart_game: Reset the session to its starting state
- event_log: View the session event log
- list_configs: List available board configurations
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on move_token/activate_powerup serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the board config to use (optional, defaults to standard)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the dice for the current player",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_token",
		Description: "Move one of the current player's movable tokens using the pending dice value",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"token_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the token to move (must be in the roll's movable set)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "token_id"},
		},
	}, c.handleMoveToken)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_turn",
		Description: "Pass a skipped turn to the next player immediately",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvanceTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "activate_powerup",
		Description: "Activate a power-up from a player's inventory. Targeted power-ups take token_id, position, target_player, or dice_value depending on the type; omit targets to enter the selection phase.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_index": map[string]interface{}{
					"type":        "integer",
					"description": "Seat of the activating player",
				},
				"power_up_index": map[string]interface{}{
					"type":        "integer",
					"description": "Index into the player's inventory",
				},
				"token_id": map[string]interface{}{
					"type":        "string",
					"description": "Target token ID (optional)",
				},
				"position": map[string]interface{}{
					"type":        "integer",
					"description": "Target track position (optional)",
				},
				"target_player": map[string]interface{}{
					"type":        "integer",
					"description": "Target player seat (optional)",
				},
				"dice_value": map[string]interface{}{
					"type":        "integer",
					"description": "Dice value 1-6 for EXACT_MOVE, DICE_LOCK, SWAP_DICE (optional)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this activation (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "player_index", "power_up_index"},
		},
	}, c.handleActivatePowerUp)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "discard_powerup",
		Description: "Discard an inventory slot to resolve a pending full-inventory pickup",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"player_index": map[string]interface{}{
					"type":        "integer",
					"description": "Seat of the discarding player",
				},
				"power_up_index": map[string]interface{}{
					"type":        "integer",
					"description": "Inventory index to discard",
				},
			},
			Required: []string{"session_id", "player_index", "power_up_index"},
		},
	}, c.handleDiscardPowerUp)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_selection",
		Description: "Abort a pending power-up target selection without consuming the power-up",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCancelSelection)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_log",
		Description: "Get the paginated event log for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventLog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var outcome service.RollOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/roll", sessionID), nil, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatRollOutcome(&outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleMoveToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	tokenID, _ := args["token_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]string{"token_id": tokenID}

	var outcome service.MoveOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveOutcome(&outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleAdvanceTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/advance", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Turn passed.\n\n%s", formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActivatePowerUp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	playerIndex := intArg(args, "player_index")
	powerUpIndex := intArg(args, "power_up_index")
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	target := map[string]interface{}{}
	if tokenID, ok := args["token_id"].(string); ok && tokenID != "" {
		target["token_id"] = tokenID
	}
	if position, ok := args["position"].(float64); ok {
		target["position"] = int(position)
	}
	if targetPlayer, ok := args["target_player"].(float64); ok {
		target["player_index"] = int(targetPlayer)
	}
	if diceValue, ok := args["dice_value"].(float64); ok {
		target["dice_value"] = int(diceValue)
	}

	body := map[string]interface{}{
		"player_index":   playerIndex,
		"power_up_index": powerUpIndex,
		"target":         target,
	}

	var outcome service.ActivateOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/powerups/activate", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActivateOutcome(&outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleDiscardPowerUp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{
		"player_index":   intArg(args, "player_index"),
		"power_up_index": intArg(args, "power_up_index"),
	}

	var outcome service.DiscardOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/powerups/discard", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Discarded %s.", outcome.Discard.Removed.Type)
	if outcome.Discard.Collected != nil {
		result += fmt.Sprintf(" Collected %s from the board.", outcome.Discard.Collected.Type)
	}
	result += "\n\n" + formatGameState(outcome.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCancelSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/powerups/selection/cancel", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Selection cancelled.\n\n%s", formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEventLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params += fmt.Sprintf("order=%s&", order)
	}

	var events service.EventResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/events%s", sessionID, params), nil, &events)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatEvents(&events)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Players: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.PlayerCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Power-Up Ludo - Complete Instructions

GAME OBJECTIVE:
Be the first player to bring all four of your tokens from BASE, around the
shared track, through your home stretch, and into the FINISH.

TURN FLOW:
• roll_dice: produces a value 1-6 and lists the tokens that may legally move
• move_token: applies the pending value to one movable token
• Rolling a 6 or capturing an opponent grants a bonus turn (roll again)
• If the roll permits no legal move the turn enters SKIPPING and auto-passes;
  advance_turn passes it immediately

MOVEMENT RULES:
• Tokens leave BASE only on a roll of 6, landing on your start square
• After 50 forward steps a token turns into its 6-square home stretch
• Home stretch movement requires exact counts; overshooting is not a legal move
• Landing on an opponent's token captures it (sent back to BASE) unless it is
  protected or standing on a safe square

BOARD GEOMETRY (standard 4-player board):
• 52 shared squares, 13 per player; starts at 0, 13, 26, 39
• Safe squares: every start square and the star square 8 past each start
• Power-up squares: offsets 2, 5, 8, 11 within each 13-square segment

POWER-UPS (20 types, inventory holds 3):
Movement: teleport, double_move, exact_move, warp, backwards_dash,
          home_stretch_teleport
Offense:  send_back, freeze, steal_powerup, magnet
Defense:  shield, immunity, phase, safe_passage
Utility:  reverse, swap, extra_turn, bonus_roll, dice_lock, swap_dice

POWER-UP MECHANICS:
• One activation per turn; the limit resets when the turn passes
• Targeted types need a target; omit it and the game enters a SELECTION phase
  (finish with a second activate_powerup call, or cancel_selection)
• Shielded/immune tokens cannot be captured or targeted; a blocked offensive
  activation does NOT consume the power-up
• Landing on a power-up square collects it; with a full inventory the game
  enters a DISCARD phase (resolve with discard_powerup)
• The board re-seeds up to 2 power-ups every 4 turns, capped at 8 on board

STATUS EFFECTS (turn counters, decay after the owner's own moves):
• shield (2 turns): cannot be captured or targeted
• freeze (2 turns): token cannot move
• phase (1 turn): token passes through opponents without capturing
• immunity (3 turns): same protection as shield
• safe_passage (3 turns): cannot be captured by landing opponents

SESSION MANAGEMENT:
• Multiple game sessions can run simultaneously
• Each session has a unique 4-character ID
• Sessions maintain independent state and configuration

Use game_state liberally between commands to keep your model of the board
accurate, and explain your plan in the intent parameter before acting.`

	return mcp.NewToolResultText(instructions), nil
}

func intArg(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	current := "?"
	if state.CurrentPlayer >= 0 && state.CurrentPlayer < len(state.Players) {
		current = state.Players[state.CurrentPlayer].Name
	}
	dice := "-"
	if state.DiceValue != 0 {
		dice = fmt.Sprintf("%d", state.DiceValue)
	}
	result.WriteString(fmt.Sprintf("Turn %d | To act: %s (seat %d) | Phase: %s | Dice: %s\n",
		state.TurnCount, current, state.CurrentPlayer, state.Phase, dice))

	if state.PowerUpUsed {
		result.WriteString("Power-up already used this turn\n")
	}
	if state.PendingDiscard != nil {
		result.WriteString(fmt.Sprintf("PENDING DISCARD: seat %d must discard before collecting at square %d\n",
			state.PendingDiscard.PlayerIndex, state.PendingDiscard.Position))
	}
	if state.PendingSelection != nil {
		result.WriteString(fmt.Sprintf("PENDING SELECTION: seat %d choosing a target for %s\n",
			state.PendingSelection.PlayerIndex, state.PendingSelection.Type))
	}
	result.WriteString("\n")

	for _, p := range state.Players {
		result.WriteString(fmt.Sprintf("%s (seat %d, %s):\n", p.Name, p.Index, p.Color))
		for _, tok := range state.TokensOf(p.Index) {
			result.WriteString("  " + formatToken(tok) + "\n")
		}
		if len(p.PowerUps) == 0 {
			result.WriteString("  inventory: empty\n")
		} else {
			names := make([]string, len(p.PowerUps))
			for i, pu := range p.PowerUps {
				names[i] = fmt.Sprintf("[%d] %s", i, pu.Type)
			}
			result.WriteString("  inventory: " + strings.Join(names, ", ") + "\n")
		}
	}

	if len(state.BoardPowerUps) > 0 {
		positions := make([]int, 0, len(state.BoardPowerUps))
		for pos := range state.BoardPowerUps {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		result.WriteString("\nBoard power-ups:\n")
		for _, pos := range positions {
			result.WriteString(fmt.Sprintf("  square %d: %s\n", pos, state.BoardPowerUps[pos].Type))
		}
	}

	return result.String()
}

func formatToken(tok *engine.Token) string {
	var where string
	switch tok.Status {
	case engine.StatusBase:
		where = "BASE"
	case engine.StatusActive:
		where = fmt.Sprintf("square %d", tok.Position)
	case engine.StatusHomeStretch:
		where = fmt.Sprintf("home stretch %d", tok.Position)
	case engine.StatusFinished:
		where = "FINISHED"
	}

	var effects []string
	if tok.ShieldTurns > 0 {
		effects = append(effects, fmt.Sprintf("shield(%d)", tok.ShieldTurns))
	}
	if tok.FrozenTurns > 0 {
		effects = append(effects, fmt.Sprintf("frozen(%d)", tok.FrozenTurns))
	}
	if tok.PhasedTurns > 0 {
		effects = append(effects, fmt.Sprintf("phased(%d)", tok.PhasedTurns))
	}
	if tok.ImmuneTurns > 0 {
		effects = append(effects, fmt.Sprintf("immune(%d)", tok.ImmuneTurns))
	}
	if tok.SafePassageTurns > 0 {
		effects = append(effects, fmt.Sprintf("safe(%d)", tok.SafePassageTurns))
	}
	if tok.Reversed {
		effects = append(effects, "reversed")
	}
	if tok.DoubleNext {
		effects = append(effects, "double")
	}
	if tok.ExactNext != 0 {
		effects = append(effects, fmt.Sprintf("exact=%d", tok.ExactNext))
	}

	line := fmt.Sprintf("%s: %s", tok.ID, where)
	if len(effects) > 0 {
		line += " (" + strings.Join(effects, ", ") + ")"
	}
	return line
}

func formatRollOutcome(outcome *service.RollOutcome) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Rolled: %d", outcome.Roll.Value))
	if outcome.Roll.Locked {
		b.WriteString(" (dice lock)")
	}
	b.WriteString("\n")

	if outcome.Roll.Skipped {
		b.WriteString("No legal move - turn will be skipped")
		if outcome.AutoAdvanceIn > 0 {
			b.WriteString(fmt.Sprintf(" (auto-advance in %dms)", outcome.AutoAdvanceIn))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Movable tokens: " + strings.Join(outcome.Roll.MovableTokens, ", ") + "\n")
	}

	if outcome.Message != "" {
		b.WriteString(outcome.Message + "\n")
	}

	b.WriteString("\n" + formatGameState(outcome.GameState))
	return b.String()
}

func formatMoveOutcome(outcome *service.MoveOutcome) string {
	var b strings.Builder
	m := outcome.Move

	b.WriteString(fmt.Sprintf("Moved %s: %s %d → %s %d (roll %d, effective %d)\n",
		m.TokenID, m.FromStatus, m.FromPosition, m.ToStatus, m.ToPosition,
		m.DiceValue, m.EffectiveRoll))

	if m.CapturedTokenID != "" {
		b.WriteString(fmt.Sprintf("Captured %s\n", m.CapturedTokenID))
	}
	if m.CaptureBlocked {
		b.WriteString("Capture blocked by protection\n")
	}
	if m.CollectedPowerUp != nil {
		b.WriteString(fmt.Sprintf("Collected power-up: %s\n", m.CollectedPowerUp.Type))
	}
	if m.PendingDiscard {
		b.WriteString("Inventory full - discard required before the pickup completes\n")
	}
	if m.BonusTurn {
		b.WriteString("Bonus turn - roll again\n")
	}
	if outcome.Winner != nil {
		b.WriteString(fmt.Sprintf("🏆 Player %d wins!\n", *outcome.Winner))
	}
	if outcome.Message != "" {
		b.WriteString(outcome.Message + "\n")
	}

	b.WriteString("\n" + formatGameState(outcome.GameState))
	return b.String()
}

func formatActivateOutcome(outcome *service.ActivateOutcome) string {
	var b strings.Builder
	a := outcome.Activation

	if a.NeedsSelection {
		b.WriteString(fmt.Sprintf("%s needs a target - call activate_powerup again with the target, or cancel_selection\n", a.PowerUp.Type))
	} else {
		b.WriteString(fmt.Sprintf("Activated %s\n", a.PowerUp.Type))
	}
	if a.StolenPowerUp != nil {
		b.WriteString(fmt.Sprintf("Stole %s\n", a.StolenPowerUp.Type))
	}
	if a.Message != "" {
		b.WriteString(a.Message + "\n")
	}
	if outcome.Message != "" {
		b.WriteString(outcome.Message + "\n")
	}

	b.WriteString("\n" + formatGameState(outcome.GameState))
	return b.String()
}

func formatEvents(events *service.EventResponse) string {
	result := fmt.Sprintf("Event Log (Page %d/%d) - Total: %d\n\n",
		events.Page, events.TotalPages, events.TotalEvents)

	for _, e := range events.Events {
		result += fmt.Sprintf("[turn %d] %s: %s\n", e.Turn, e.Type, e.Message)
	}

	if events.HasNext {
		result += "\n(more pages available)"
	}

	return result
}
