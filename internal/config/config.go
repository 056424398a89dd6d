// Package config loads server configuration from a YAML file with
// environment variable overrides (prefix TYCOON_, dots become underscores).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig covers the network surface and session policy.
type ServerConfig struct {
	WebSocket   WebSocketConfig `mapstructure:"websocket"`
	LeasePeriod time.Duration   `mapstructure:"lease_period"`
	MaxSessions int             `mapstructure:"max_sessions"`
}

// WebSocketConfig configures the websocket gateway listener.
type WebSocketConfig struct {
	Address         string        `mapstructure:"address"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	AllowAllOrigins bool          `mapstructure:"allow_all_origins"`
}

// DatabaseConfig configures the postgres pool. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// LoggingConfig selects the zap preset.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig carries rule overrides applied on top of the engine defaults.
// Zero values keep the default.
type GameConfig struct {
	StartingCash int     `mapstructure:"starting_cash"`
	Salary       int     `mapstructure:"salary"`
	MaxRounds    int     `mapstructure:"max_rounds"`
	MinPlayers   int     `mapstructure:"min_players"`
	MaxPlayers   int     `mapstructure:"max_players"`
	TaxRate      float64 `mapstructure:"tax_rate"`
	BoardFile    string  `mapstructure:"board_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.read_limit", 1<<16)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)
	v.SetDefault("server.websocket.allow_all_origins", false)
	v.SetDefault("server.lease_period", 90*time.Second)
	v.SetDefault("server.max_sessions", 1000)

	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.max_conn_lifetime", 30*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TYCOON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.WebSocket.Address == "" {
		return fmt.Errorf("server.websocket.address must not be empty")
	}
	if c.Server.LeasePeriod <= 0 {
		return fmt.Errorf("server.lease_period must be positive")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Game.TaxRate < 0 || c.Game.TaxRate > 1 {
		return fmt.Errorf("game.tax_rate must be within [0, 1]")
	}
	if c.Game.MinPlayers < 0 || c.Game.MaxPlayers < 0 {
		return fmt.Errorf("player counts must not be negative")
	}
	if c.Game.MaxPlayers > 0 && c.Game.MinPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("game.min_players exceeds game.max_players")
	}
	return nil
}
