// Package config loads simulator configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Data    DataConfig    `mapstructure:"data"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Sim     SimConfig     `mapstructure:"sim"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DataConfig points at the card and deck master-data files.
type DataConfig struct {
	CardFile string `mapstructure:"card_file"`
	DeckFile string `mapstructure:"deck_file"`
}

// BattleConfig overrides engine rule defaults. Zero values keep the
// built-in defaults.
type BattleConfig struct {
	DeckSize       int `mapstructure:"deck_size"`
	MaxPrizePoints int `mapstructure:"max_prize_points"`
	MaxTurns       int `mapstructure:"max_turns"`
	WeaknessBonus  int `mapstructure:"weakness_bonus"`
}

// SimConfig bounds the batch runner.
type SimConfig struct {
	Battles                int    `mapstructure:"battles"`
	Workers                int    `mapstructure:"workers"`
	Seed                   int64  `mapstructure:"seed"`
	MaxTurns               int    `mapstructure:"max_turns"`
	MaxActionsPerTurn      int    `mapstructure:"max_actions_per_turn"`
	MaxConsecutiveFailures int    `mapstructure:"max_consecutive_failures"`
	PersonalityA           string `mapstructure:"personality_a"`
	PersonalityB           string `mapstructure:"personality_b"`
}

// DemoConfig configures the websocket demo server.
type DemoConfig struct {
	Address       string `mapstructure:"address"`
	ActionDelayMS int    `mapstructure:"action_delay_ms"`
}

// Load reads configuration from the given path. A missing file is not
// an error; defaults and PVPSIM_* environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PVPSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("data.card_file", "data/cards.yaml")
	v.SetDefault("data.deck_file", "data/decks.yaml")

	v.SetDefault("battle.deck_size", 0) // 0 keeps engine defaults
	v.SetDefault("battle.max_prize_points", 0)
	v.SetDefault("battle.max_turns", 0)
	v.SetDefault("battle.weakness_bonus", 0)

	v.SetDefault("sim.battles", 1)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.max_turns", 1000)
	v.SetDefault("sim.max_actions_per_turn", 10)
	v.SetDefault("sim.max_consecutive_failures", 3)
	v.SetDefault("sim.personality_a", "balanced")
	v.SetDefault("sim.personality_b", "balanced")

	v.SetDefault("demo.address", ":8091")
	v.SetDefault("demo.action_delay_ms", 400)
}

func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", cfg.Logging.Level)
	}
	if cfg.Sim.Battles < 1 {
		return fmt.Errorf("sim.battles must be at least 1, got %d", cfg.Sim.Battles)
	}
	if cfg.Sim.MaxActionsPerTurn < 1 {
		return fmt.Errorf("sim.max_actions_per_turn must be at least 1, got %d", cfg.Sim.MaxActionsPerTurn)
	}
	return nil
}
