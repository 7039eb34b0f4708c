// Package config loads simulator settings. KADI_* environment variables win
// over a .env file, which wins over the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nikokadi/kadi/engine"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure from Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved configuration.
type Config struct {
	Games      int               `mapstructure:"games"`
	Players    int               `mapstructure:"players"`
	Workers    int               `mapstructure:"workers"`
	Seed       uint64            `mapstructure:"seed"` // 0 seeds from the clock
	MaxTurns   int               `mapstructure:"max_turns"`
	LogLevel   string            `mapstructure:"log_level"`
	PlayStyle  engine.PlayStyle  `mapstructure:"play_style"`
	Difficulty engine.Difficulty `mapstructure:"difficulty"`
}

var defaults = map[string]any{
	"games":      100,
	"players":    4,
	"workers":    4,
	"seed":       0,
	"max_turns":  2000,
	"log_level":  "info",
	"play_style": string(engine.StyleBalanced),
	"difficulty": string(engine.DifficultyMedium),
}

// Load reads envFile (if it exists) into the process environment, then
// resolves every key from KADI_* variables or the defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("KADI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Games < 1:
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	case c.Players < 2 || c.Players > 6:
		return fmt.Errorf("%w: players must be 2-6, got %d", ErrInvalidConfig, c.Players)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.MaxTurns < 1:
		return fmt.Errorf("%w: max_turns must be positive, got %d", ErrInvalidConfig, c.MaxTurns)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.PlayStyle {
	case engine.StyleAggressive, engine.StyleDefensive, engine.StyleBalanced:
	default:
		return fmt.Errorf("%w: unknown play style %q", ErrInvalidConfig, c.PlayStyle)
	}
	switch c.Difficulty {
	case engine.DifficultyEasy, engine.DifficultyMedium, engine.DifficultyHard, engine.DifficultyExpert:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, c.Difficulty)
	}
	return nil
}

// Level returns the parsed log level. Validate has already accepted it.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
