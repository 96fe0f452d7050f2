package config

// Config holds the application configuration.
type Config struct {
	SoundCloud SoundCloud `yaml:"soundcloud"`
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	Cache      Cache      `yaml:"cache"`
	Database   Database   `yaml:"database"`
	Downloads  Downloads  `yaml:"downloads"`
	Telegram   Telegram   `yaml:"telegram"`
}

// SoundCloud holds the credentials and tuning knobs for the SoundCloud API.
type SoundCloud struct {
	AuthToken    string `yaml:"auth_token"`
	ExploreSongs int    `yaml:"explore_songs" validate:"gte=0"`
	StreamPref   string `yaml:"stream_pref" validate:"oneof=progressive hls"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string `yaml:"backend" validate:"oneof=memory redis"`
	Redis   Redis  `yaml:"redis"`
	// TTLSeconds is the default entry lifetime for long-lived entries.
	TTLSeconds int `yaml:"ttl" validate:"gte=0"`
}

// Redis holds the connection settings for the redis cache backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Database holds the configuration for the sqlite track store.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Downloads holds the configuration for saved tracks.
type Downloads struct {
	Path string `yaml:"path" validate:"required"`
}

// Telegram holds the configuration for the optional Telegram bot.
type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
}
