package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rfgarcia/powerup-ludo/game/engine"
	"github.com/rfgarcia/powerup-ludo/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNoConfigDir    = errors.New("no configuration directory")
)

// builtins are the board presets compiled into the binary. They are always
// available, with or without a configuration directory.
var builtins = map[string]*engine.BoardConfig{
	"standard": {
		Name:        "standard",
		Description: "Standard four-player board",
		PlayerCount: 4,
	},
	"duel": {
		Name:        "duel",
		Description: "Head-to-head two-player board",
		PlayerCount: 2,
	},
	"grand": {
		Name:        "grand",
		Description: "Extended six-player board",
		PlayerCount: 6,
	},
}

// Manager handles board configuration loading and caching. File-backed
// presets from the configuration directory layer over the built-in ones.
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a configuration manager. An empty configDir serves the
// built-in presets only; a non-empty one must exist.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return m, nil
}

// LoadConfig loads a configuration by name. A file-backed preset of the same
// name shadows a built-in.
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.loadFromFile(name)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		builtin, ok := builtins[name]
		if !ok {
			return nil, ErrConfigNotFound
		}
		config = builtin
	}

	m.configs[name] = config
	return config, nil
}

// loadFromFile reads and validates a preset file. Callers hold the lock.
func (m *Manager) loadFromFile(name string) (*engine.BoardConfig, error) {
	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	configPath := filepath.Join(m.configDir, filename)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateBoardConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations,
// built-ins first, then valid presets from the configuration directory.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, name := range []string{"standard", "duel", "grand"} {
		builtin := builtins[name]
		configs = append(configs, &service.ConfigInfo{
			ConfigID:    name,
			Name:        builtin.Name,
			Description: builtin.Description,
			PlayerCount: builtin.PlayerCount,
			BuiltIn:     true,
		})
		seen[name] = true
	}

	if m.configDir == "" {
		return configs, nil
	}

	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		if seen[name] {
			continue
		}

		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}
		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			PlayerCount: config.PlayerCount,
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration.
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name.
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached file-backed configurations.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs = make(map[string]*engine.BoardConfig)
	return m.loadDefaultConfigLocked()
}

func (m *Manager) loadDefaultConfig() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadDefaultConfigLocked()
}

// loadDefaultConfigLocked prefers a file-backed "standard" preset over the
// built-in one. Callers hold the lock.
func (m *Manager) loadDefaultConfigLocked() error {
	config, err := m.loadFromFile("standard")
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return err
		}
		config = builtins["standard"]
	}
	m.configs["standard"] = config
	m.defaultConfig = config
	return nil
}

// SaveConfig validates and writes a configuration to the directory.
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	if m.configDir == "" {
		return ErrNoConfigDir
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	configPath := filepath.Join(m.configDir, filename)

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()
	return nil
}
