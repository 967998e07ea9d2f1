// Package config loads server configuration from an optional YAML file,
// ARENA_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"territory-arena/internal/game"
)

// Config is the server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// GameConfig holds the arena options applied to every new session.
type GameConfig struct {
	Rows                        int   `mapstructure:"rows"`
	Cols                        int   `mapstructure:"cols"`
	Seed                        int64 `mapstructure:"seed"` // base seed; 0 seeds from the clock
	RequireAdjacent             bool  `mapstructure:"require_adjacent"`
	DefaultTerritoriesPerPlayer int   `mapstructure:"default_territories"`
}

var errInvalid = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":30000")
	v.SetDefault("database.path", "data/arena.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("game.rows", game.DefaultRows)
	v.SetDefault("game.cols", game.DefaultCols)
	v.SetDefault("game.seed", 1)
	v.SetDefault("game.require_adjacent", false)
	v.SetDefault("game.default_territories", 5)
}

// Load reads path (skipped when empty) and applies environment overrides.
// PORT and DB_PATH take precedence over everything else.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Hosting platforms set these.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty: %w", errInvalid)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is empty: %w", errInvalid)
	}
	if c.Game.Rows <= 0 || c.Game.Cols <= 0 {
		return fmt.Errorf("arena %dx%d: %w", c.Game.Rows, c.Game.Cols, errInvalid)
	}
	if c.Game.DefaultTerritoriesPerPlayer <= 0 {
		return fmt.Errorf("game.default_territories must be positive: %w", errInvalid)
	}
	return nil
}

// ControllerOptions converts the game section into controller options.
// Seed is not among them: the session registry derives one per session.
func (g GameConfig) ControllerOptions() []game.Option {
	opts := []game.Option{
		game.WithSize(g.Rows, g.Cols),
	}
	if g.RequireAdjacent {
		opts = append(opts, game.WithAdjacentMovesOnly())
	}
	return opts
}
