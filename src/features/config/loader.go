package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnvOverrides(defaultCfg)
		manager := NewManager(defaultCfg)
		if err := manager.EnsureDirectories(); err != nil {
			return nil, err
		}
		return manager, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	manager := NewManager(&cfg)
	if err := manager.EnsureDirectories(); err != nil {
		return nil, err
	}
	return manager, nil
}

// applyDefaults fills fields yaml left at zero values.
func applyDefaults(cfg *Config) {
	if cfg.SoundCloud.ExploreSongs == 0 {
		cfg.SoundCloud.ExploreSongs = 25
	}
	if cfg.SoundCloud.StreamPref == "" {
		cfg.SoundCloud.StreamPref = "progressive"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3636
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./tracks.db"
	}
	if cfg.Downloads.Path == "" {
		cfg.Downloads.Path = "./downloads"
	}
}

func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("SOUNDCLOUD_AUTH_TOKEN"); token != "" {
		cfg.SoundCloud.AuthToken = token
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.Redis.Addr = addr
	}
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		SoundCloud: SoundCloud{
			AuthToken:    "", // Obtained from https://soundcloud.com/you/apps
			ExploreSongs: 25,
			StreamPref:   "progressive",
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3636,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Cache: Cache{
			Backend:    "memory",
			TTLSeconds: 3600,
			Redis: Redis{
				Addr: "localhost:6379",
			},
		},
		Database: Database{
			Path: "./tracks.db",
		},
		Downloads: Downloads{
			Path: "./downloads",
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "", // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{},
		},
	}
}

// saveDefaultConfig saves the default configuration to the specified file path.
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}
