package engine

import "testing"

func TestTrackLength(t *testing.T) {
	if got := TrackLength(4); got != 52 {
		t.Errorf("Expected standard track length 52, got %d", got)
	}
	if got := TrackLength(2); got != 26 {
		t.Errorf("Expected 2-player track length 26, got %d", got)
	}
	if got := TrackLength(6); got != 78 {
		t.Errorf("Expected 6-player track length 78, got %d", got)
	}
}

func TestStartTurningSkippedIndices(t *testing.T) {
	tests := []struct {
		player   int
		start    int
		turning  int
		skipped  int
	}{
		{0, 0, 50, 51},
		{1, 13, 11, 12},
		{2, 26, 24, 25},
		{3, 39, 37, 38},
	}

	for _, tt := range tests {
		if got := StartIndex(4, tt.player); got != tt.start {
			t.Errorf("StartIndex(4, %d) = %d, want %d", tt.player, got, tt.start)
		}
		if got := TurningIndex(4, tt.player); got != tt.turning {
			t.Errorf("TurningIndex(4, %d) = %d, want %d", tt.player, got, tt.turning)
		}
		if got := SkippedIndex(4, tt.player); got != tt.skipped {
			t.Errorf("SkippedIndex(4, %d) = %d, want %d", tt.player, got, tt.skipped)
		}
	}
}

func TestIsSafeZone(t *testing.T) {
	safe := []int{0, 8, 13, 21, 26, 34, 39, 47}
	for _, pos := range safe {
		if !IsSafeZone(4, pos) {
			t.Errorf("Expected position %d to be a safe zone", pos)
		}
	}
	for _, pos := range []int{1, 7, 9, 14, 50, 51} {
		if IsSafeZone(4, pos) {
			t.Errorf("Expected position %d not to be a safe zone", pos)
		}
	}
}

func TestPowerUpZones(t *testing.T) {
	zones := PowerUpZones(4)
	if len(zones) != 16 {
		t.Fatalf("Expected 16 power-up zones on the standard board, got %d", len(zones))
	}
	for _, pos := range zones {
		if !IsPowerUpZone(4, pos) {
			t.Errorf("PowerUpZones returned %d but IsPowerUpZone rejects it", pos)
		}
	}
	if IsPowerUpZone(4, 0) {
		t.Error("Start squares must not be power-up eligible")
	}
	if !IsPowerUpZone(4, 8) {
		t.Error("Star squares must be power-up eligible")
	}
}

func TestForwardDistance(t *testing.T) {
	if got := ForwardDistance(52, 10, 15); got != 5 {
		t.Errorf("ForwardDistance(52, 10, 15) = %d, want 5", got)
	}
	if got := ForwardDistance(52, 50, 2); got != 4 {
		t.Errorf("ForwardDistance(52, 50, 2) = %d, want 4", got)
	}
	if got := ForwardDistance(52, 7, 7); got != 0 {
		t.Errorf("ForwardDistance(52, 7, 7) = %d, want 0", got)
	}
}

func TestWrapPosition(t *testing.T) {
	if got := WrapPosition(52, 54); got != 2 {
		t.Errorf("WrapPosition(52, 54) = %d, want 2", got)
	}
	if got := WrapPosition(52, -3); got != 49 {
		t.Errorf("WrapPosition(52, -3) = %d, want 49", got)
	}
}

func TestNextPlayerStandardPermutation(t *testing.T) {
	// Fixed clockwise seat order for four players: 0 -> 1 -> 3 -> 2 -> 0.
	order := map[int]int{0: 1, 1: 3, 3: 2, 2: 0}
	for from, want := range order {
		if got := NextPlayer(4, from); got != want {
			t.Errorf("NextPlayer(4, %d) = %d, want %d", from, got, want)
		}
	}
}

func TestNextPlayerSequentialForOtherCounts(t *testing.T) {
	if got := NextPlayer(3, 2); got != 0 {
		t.Errorf("NextPlayer(3, 2) = %d, want 0", got)
	}
	if got := NextPlayer(2, 0); got != 1 {
		t.Errorf("NextPlayer(2, 0) = %d, want 1", got)
	}
	if got := NextPlayer(6, 5); got != 0 {
		t.Errorf("NextPlayer(6, 5) = %d, want 0", got)
	}
}
