// Package config loads connection settings from defaults, an optional
// config file, .env files and LITEQUERY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bawdo/litequery/connection"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/visitors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LITEQUERY"

// Config holds the settings of one connection.
type Config struct {
	Filename                   string `mapstructure:"filename"`
	ForeignConstraints         bool   `mapstructure:"foreign_constraints"`
	EmulateBigIntAutoIncrement bool   `mapstructure:"emulate_bigint_autoincrement"`
	LogLevel                   string `mapstructure:"log_level"`
	// DefaultOrder is the direction of the rowid order used when a query
	// names none: "asc" or "desc".
	DefaultOrder string `mapstructure:"default_order"`
}

// Load resolves the configuration with precedence env > config file >
// defaults. path names a YAML, TOML or JSON file and may be empty. The env
// files (".env" when none are given) are loaded into the process
// environment first; missing ones are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("filename", connection.MemoryFilename)
	v.SetDefault("foreign_constraints", true)
	v.SetDefault("emulate_bigint_autoincrement", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("default_order", "asc")
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.OrderDirection(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// OrderDirection parses DefaultOrder.
func (c *Config) OrderDirection() (nodes.Direction, error) {
	switch strings.ToLower(c.DefaultOrder) {
	case "", "asc":
		return nodes.Asc, nil
	case "desc":
		return nodes.Desc, nil
	}
	return nodes.Asc, fmt.Errorf("default_order: unknown direction %q", c.DefaultOrder)
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ConnectionOptions converts the settings to connection options. A nil
// logger leaves the connection's default in place.
func (c *Config) ConnectionOptions(logger *slog.Logger) []connection.Option {
	dir, _ := c.OrderDirection()
	opts := []connection.Option{
		connection.WithFilename(c.Filename),
		connection.WithForeignConstraints(c.ForeignConstraints),
		connection.WithEmulatedBigIntAutoIncrement(c.EmulateBigIntAutoIncrement),
		connection.WithGeneratorOptions(visitors.WithDefaultOrderDirection(dir)),
	}
	if logger != nil {
		opts = append(opts, connection.WithLogger(logger))
	}
	return opts
}
