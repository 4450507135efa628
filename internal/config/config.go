// Package config provides Viper-based configuration loading for the simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds optional directories of YAML content definitions.
// Empty fields fall back to the compiled-in catalogs.
type ContentConfig struct {
	WeaponsDir string `mapstructure:"weapons_dir"`
	ArmorsDir  string `mapstructure:"armors_dir"`
	ShieldsDir string `mapstructure:"shields_dir"`
	FeatsDir   string `mapstructure:"feats_dir"`
	SpellsDir  string `mapstructure:"spells_dir"`
}

// SimulationConfig holds combat simulation settings.
type SimulationConfig struct {
	// Seed seeds the dice source; 0 selects a crypto-random source.
	Seed int64 `mapstructure:"seed"`
	// Combats is the number of combats to run in a batch.
	Combats int `mapstructure:"combats"`
	// MaxRounds caps a single combat; exceeding it ends in a draw.
	MaxRounds int `mapstructure:"max_rounds"`
	// BlockPolicy selects block resolution: "always_negates" or "ap_bypasses".
	BlockPolicy string `mapstructure:"block_policy"`
	// GridWidth and GridHeight size the battle map in blocks.
	GridWidth  int `mapstructure:"grid_width"`
	GridHeight int `mapstructure:"grid_height"`
	// OvercastScript is an optional Lua script path for overcast consequences.
	OvercastScript string `mapstructure:"overcast_script"`
	// ScriptInstructionLimit caps Lua opcodes per script call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Combats < 1 {
		errs = append(errs, fmt.Sprintf("simulation.combats must be >= 1, got %d", s.Combats))
	}
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_rounds must be >= 1, got %d", s.MaxRounds))
	}
	validPolicies := map[string]bool{"always_negates": true, "ap_bypasses": true}
	if !validPolicies[s.BlockPolicy] {
		errs = append(errs, fmt.Sprintf("simulation.block_policy must be one of [always_negates, ap_bypasses], got %q", s.BlockPolicy))
	}
	if s.GridWidth < 2 {
		errs = append(errs, fmt.Sprintf("simulation.grid_width must be >= 2, got %d", s.GridWidth))
	}
	if s.GridHeight < 1 {
		errs = append(errs, fmt.Sprintf("simulation.grid_height must be >= 1, got %d", s.GridHeight))
	}
	if s.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("simulation.script_instruction_limit must be >= 0, got %d", s.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with AVASIM_ prefix
	v.SetEnvPrefix("AVASIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults cannot fail; the values are compiled in.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.combats", 1)
	v.SetDefault("simulation.max_rounds", 20)
	v.SetDefault("simulation.block_policy", "always_negates")
	v.SetDefault("simulation.grid_width", 40)
	v.SetDefault("simulation.grid_height", 40)
	v.SetDefault("simulation.overcast_script", "")
	v.SetDefault("simulation.script_instruction_limit", 0)
}
