package engine

import "math/rand"

// Board geometry. Everything here is a pure function of player count and
// player index; the shared track is built from one 13-square segment per
// player (52 squares on the standard 4-player board).
//
// Segment layout, repeated per player:
//
//	offset 0   start square (safe)
//	offset 8   star square (safe, power-up eligible)
//	offsets 2, 5, 8, 11  power-up eligible
//
// A player's turning index is the last shared square before their lane
// (start − 2 mod length); the square after it (start − 1) is skipped by that
// player's tokens on lane entry but used normally by everyone else.

const segmentLength = 13

// playerColors assigns fixed colors by seat index.
var playerColors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

var playerNames = []string{"Red", "Blue", "Green", "Yellow", "Purple", "Orange"}

// powerUpOffsets are the power-up-eligible offsets within each segment.
var powerUpOffsets = []int{2, 5, 8, 11}

// TrackLength returns the number of shared-track squares for a player count.
func TrackLength(playerCount int) int {
	return segmentLength * playerCount
}

// StartIndex returns the track square where a player's tokens enter from BASE.
func StartIndex(playerCount, player int) int {
	return segmentLength * player
}

// TurningIndex returns the last shared-track square before a player's lane.
func TurningIndex(playerCount, player int) int {
	length := TrackLength(playerCount)
	return (StartIndex(playerCount, player) + length - 2) % length
}

// SkippedIndex returns the shared-track square a player's tokens bypass when
// peeling into their lane.
func SkippedIndex(playerCount, player int) int {
	length := TrackLength(playerCount)
	return (TurningIndex(playerCount, player) + 1) % length
}

// IsSafeZone reports whether tokens on a track square cannot be captured.
// Safe squares are every player's start square and the star square in the
// middle of each segment.
func IsSafeZone(playerCount, position int) bool {
	offset := position % segmentLength
	return offset == 0 || offset == 8
}

// IsPowerUpZone reports whether a track square may hold a board power-up.
func IsPowerUpZone(playerCount, position int) bool {
	offset := position % segmentLength
	for _, o := range powerUpOffsets {
		if offset == o {
			return true
		}
	}
	return false
}

// PowerUpZones returns all power-up-eligible squares in ascending order.
func PowerUpZones(playerCount int) []int {
	var zones []int
	for seg := 0; seg < playerCount; seg++ {
		for _, o := range powerUpOffsets {
			zones = append(zones, seg*segmentLength+o)
		}
	}
	return zones
}

// ForwardDistance returns the number of forward steps from one track square
// to another, with wraparound.
func ForwardDistance(trackLength, from, to int) int {
	return ((to - from) % trackLength + trackLength) % trackLength
}

// WrapPosition normalizes a track index into [0, trackLength).
func WrapPosition(trackLength, position int) int {
	return ((position % trackLength) + trackLength) % trackLength
}

// NextPlayer returns the seat that acts after the given one. The standard
// 4-player board uses a fixed clockwise permutation over seats (0→1→3→2→0);
// other counts advance sequentially.
func NextPlayer(playerCount, current int) int {
	if playerCount != 4 {
		return (current + 1) % playerCount
	}
	switch current {
	case 0:
		return 1
	case 1:
		return 3
	case 3:
		return 2
	default:
		return 0
	}
}

// sampleUnoccupiedZones picks up to n distinct power-up-eligible squares that
// currently hold no power-up, uniformly without replacement.
func sampleUnoccupiedZones(rng *rand.Rand, playerCount int, occupied map[int]*PowerUp, n int) []int {
	var free []int
	for _, pos := range PowerUpZones(playerCount) {
		if _, taken := occupied[pos]; !taken {
			free = append(free, pos)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	if n > len(free) {
		n = len(free)
	}
	return free[:n]
}
