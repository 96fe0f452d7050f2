package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
}

// NewManager creates a new Manager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update replaces the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.config = config

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"auth_token_changed", oldConfig.SoundCloud.AuthToken != config.SoundCloud.AuthToken,
			"explore_songs_changed", oldConfig.SoundCloud.ExploreSongs != config.SoundCloud.ExploreSongs,
			"stream_pref_changed", oldConfig.SoundCloud.StreamPref != config.SoundCloud.StreamPref,
			"telegram_enabled_changed", oldConfig.Telegram.Enabled != config.Telegram.Enabled,
			"logger_enabled_changed", oldConfig.Logger.Enabled != config.Logger.Enabled,
		)
	}
}

// ExploreSongs returns the configured result-set bound for listings.
func (m *Manager) ExploreSongs() int {
	return m.Get().SoundCloud.ExploreSongs
}

// StreamPref returns the configured stream transport preference.
func (m *Manager) StreamPref() string {
	return m.Get().SoundCloud.StreamPref
}

// CacheTTL returns the default cache entry lifetime.
func (m *Manager) CacheTTL() time.Duration {
	return time.Duration(m.Get().Cache.TTLSeconds) * time.Second
}

// Save writes the current configuration to the specified file path.
func (m *Manager) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create config file", "path", path, "error", err)
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.config); err != nil {
		slog.Error("failed to encode config", "path", path, "error", err)
		return err
	}

	slog.Info("Configuration saved successfully", "path", path)
	return nil
}

// EnsureDirectories creates the downloads directory if it doesn't exist.
func (m *Manager) EnsureDirectories() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if err := os.MkdirAll(cfg.Downloads.Path, 0755); err != nil {
		return fmt.Errorf("failed to create downloads directory %s: %w", cfg.Downloads.Path, err)
	}
	return nil
}

// redactedCfg gets a redacted copy of the Config.
func (m *Manager) redactedCfg() Config {
	var cfgCpy = *m.Get()
	if cfgCpy.SoundCloud.AuthToken != "" {
		cfgCpy.SoundCloud.AuthToken = "<redacted>"
	}
	if cfgCpy.Telegram.Token != "" {
		cfgCpy.Telegram.Token = "<redacted>"
	}
	if cfgCpy.Cache.Redis.Password != "" {
		cfgCpy.Cache.Redis.Password = "<redacted>"
	}
	return cfgCpy
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

// GetYAML returns the current configuration as a YAML string.
func (m *Manager) GetYAML() string {
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
