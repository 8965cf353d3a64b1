package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rfgarcia/powerup-ludo/game/engine"
	"github.com/rfgarcia/powerup-ludo/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":     "test-session",
		"phase":  "rolling",
		"status": "ok",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_DomainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "wrong phase for this command"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("POST", "/api/sessions/abcd/roll", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 409 response")
	}

	if err.Error() != "wrong phase for this command" {
		t.Errorf("Expected the server's error message passed through, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID:         "ab12",
			ConfigName: "standard",
			GameState:  sampleState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(ctx, request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", resultStr.Text)
	}
}

func TestClient_rollDice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/roll" {
			t.Errorf("Expected POST /api/sessions/ab12/roll, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.RollOutcome{
			Roll: &engine.RollResult{
				Value:         6,
				MovableTokens: []string{"p0t0", "p0t1"},
			},
			GameState: sampleState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "roll_dice",
			Arguments: map[string]interface{}{"session_id": "ab12"},
		},
	}

	result, err := client.handleRollDice(context.Background(), request)
	if err != nil {
		t.Fatalf("handleRollDice failed: %v", err)
	}

	text := result.Content[0].(mcp.TextContent).Text
	if !strings.Contains(text, "Rolled: 6") {
		t.Errorf("Expected roll value in result, got: %s", text)
	}
	if !strings.Contains(text, "p0t0, p0t1") {
		t.Errorf("Expected movable tokens in result, got: %s", text)
	}
}

func TestClient_activatePowerUpTargetPassthrough(t *testing.T) {
	var received map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		resp := service.ActivateOutcome{
			Activation: &engine.ActivationResult{
				PowerUp: engine.PowerUp{ID: "p1", Type: engine.Shield},
			},
			GameState: sampleState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "activate_powerup",
			Arguments: map[string]interface{}{
				"session_id":     "ab12",
				"player_index":   float64(0),
				"power_up_index": float64(1),
				"token_id":       "p0t2",
				"dice_value":     float64(4),
			},
		},
	}

	result, err := client.handleActivatePowerUp(context.Background(), request)
	if err != nil {
		t.Fatalf("handleActivatePowerUp failed: %v", err)
	}

	text := result.Content[0].(mcp.TextContent).Text
	if !strings.Contains(text, "Activated shield") {
		t.Errorf("Expected activation confirmation, got: %s", text)
	}

	target, ok := received["target"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected target object in request body, got: %v", received)
	}
	if target["token_id"] != "p0t2" {
		t.Errorf("Expected token_id forwarded, got: %v", target["token_id"])
	}
	if target["dice_value"] != float64(4) {
		t.Errorf("Expected dice_value forwarded, got: %v", target["dice_value"])
	}
}

func TestFormatGameState(t *testing.T) {
	state := sampleState()

	result := formatGameState(state)

	expectedFields := []string{
		"Turn 3",
		"To act: Blue (seat 1)",
		"Phase: rolling",
		"Red (seat 0, red)",
		"p0t0: square 14 (shield(2))",
		"p0t1: BASE",
		"inventory: [0] teleport",
		"square 5: freeze",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_PendingSelection(t *testing.T) {
	state := sampleState()
	state.Phase = engine.PhasePowerUpSelection
	state.PendingSelection = &engine.SelectionRequest{
		PlayerIndex:  1,
		PowerUpIndex: 0,
		Type:         engine.Freeze,
		ReturnPhase:  engine.PhaseRolling,
	}

	result := formatGameState(state)

	if !strings.Contains(result, "PENDING SELECTION: seat 1 choosing a target for freeze") {
		t.Errorf("Expected pending selection notice, got: %s", result)
	}
}

func TestFormatMoveOutcome(t *testing.T) {
	winner := 0
	outcome := &service.MoveOutcome{
		Move: &engine.MoveResult{
			TokenID:         "p0t0",
			FromStatus:      engine.StatusActive,
			FromPosition:    10,
			ToStatus:        engine.StatusActive,
			ToPosition:      14,
			DiceValue:       4,
			EffectiveRoll:   4,
			CapturedTokenID: "p1t0",
			BonusTurn:       true,
		},
		GameState: sampleState(),
		Winner:    &winner,
	}

	result := formatMoveOutcome(outcome)

	expectedFields := []string{
		"Moved p0t0: active 10 → active 14",
		"Captured p1t0",
		"Bonus turn",
		"Player 0 wins",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "game_instructions",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleGameInstructions(ctx, request)
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedContent := []string{
		"Power-Up Ludo - Complete Instructions",
		"GAME OBJECTIVE:",
		"TURN FLOW:",
		"MOVEMENT RULES:",
		"BOARD GEOMETRY",
		"POWER-UPS (20 types, inventory holds 3):",
		"STATUS EFFECTS",
		"SESSION MANAGEMENT:",
	}

	for _, content := range expectedContent {
		if !strings.Contains(resultStr.Text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, resultStr.Text)
		}
	}
}

// sampleState builds a small fixed state for formatter tests.
func sampleState() *engine.GameState {
	return &engine.GameState{
		Players: []*engine.Player{
			{ID: "player-0", Index: 0, Name: "Red", Color: "red",
				PowerUps: []engine.PowerUp{{ID: "a", Type: engine.Teleport}}},
			{ID: "player-1", Index: 1, Name: "Blue", Color: "blue"},
		},
		Tokens: map[string]*engine.Token{
			"p0t0": {ID: "p0t0", PlayerIndex: 0, Status: engine.StatusActive, Position: 14, ShieldTurns: 2},
			"p0t1": {ID: "p0t1", PlayerIndex: 0, Status: engine.StatusBase, Position: engine.BasePosition},
			"p1t0": {ID: "p1t0", PlayerIndex: 1, Status: engine.StatusHomeStretch, Position: 2},
		},
		CurrentPlayer: 1,
		Phase:         engine.PhaseRolling,
		PlayerCount:   2,
		TrackLength:   26,
		TurnCount:     3,
		BoardPowerUps: map[int]*engine.PowerUp{
			5: {ID: "b", Type: engine.Freeze},
		},
	}
}
