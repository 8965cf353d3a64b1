// Package config provides board configuration management.
//
// The config package handles:
//   - Built-in board presets compiled into the binary
//   - Loading additional presets from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//
// Configuration Format:
//
// Board presets are stored as JSON files in the configs directory. Each
// preset names the board and fixes the player count, which determines the
// track length, safe zones, and power-up squares.
//
// Built-in Presets:
//
//   - standard: four-player board, 52-square track
//   - duel: two-player board, 26-square track
//   - grand: six-player board, 78-square track
//
// A file-backed preset with the same name shadows a built-in one.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	boardConfig, err := manager.LoadConfig("duel")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
