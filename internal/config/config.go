// Package config provides Viper-based configuration loading for the
// scrapforce battle engine and its tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the pacing parameters of the real-time battle loop.
type BattleConfig struct {
	// TickInterval is the scheduler tick period (20-60 Hz territory).
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// BaseChargeRate is the gauge fill per speed point per second.
	BaseChargeRate float64 `mapstructure:"base_charge_rate"`
	// LockUnit is the executing-lock duration for one unit of dramatic
	// weight; a knockout locks for several units, a miss for one.
	LockUnit time.Duration `mapstructure:"lock_unit"`
}

// HitConfig bounds the hit-chance computation.
type HitConfig struct {
	BaseChance     float64 `mapstructure:"base_chance"`
	MinChance      float64 `mapstructure:"min_chance"`
	MaxChance      float64 `mapstructure:"max_chance"`
	MedaforceFloor float64 `mapstructure:"medaforce_floor"`
}

// CritConfig bounds the critical-hit computation.
type CritConfig struct {
	BaseChance float64 `mapstructure:"base_chance"`
	MaxChance  float64 `mapstructure:"max_chance"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// DamageConfig holds the damage-scaling constants.
type DamageConfig struct {
	// AdvantageMultiplier scales damage when the attack kind beats the
	// target frame; DisadvantageMultiplier when it loses to it.
	AdvantageMultiplier    float64 `mapstructure:"advantage_multiplier"`
	DisadvantageMultiplier float64 `mapstructure:"disadvantage_multiplier"`
	// DefendReduction scales damage applied to a defending target.
	DefendReduction float64 `mapstructure:"defend_reduction"`
	// ForcePerDamage is the medaforce gauge gained per point of damage
	// dealt; the receiving side charges at double this rate.
	ForcePerDamage float64 `mapstructure:"force_per_damage"`
}

// BalanceConfig groups the tunable combat-resolution constants.
type BalanceConfig struct {
	Hit    HitConfig    `mapstructure:"hit"`
	Crit   CritConfig   `mapstructure:"crit"`
	Damage DamageConfig `mapstructure:"damage"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Balance BalanceConfig `mapstructure:"balance"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBalance(c.Balance); err != nil {
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

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("battle.tick_interval must be > 0, got %s", b.TickInterval))
	}
	if b.BaseChargeRate <= 0 {
		errs = append(errs, fmt.Sprintf("battle.base_charge_rate must be > 0, got %g", b.BaseChargeRate))
	}
	if b.LockUnit < 0 {
		errs = append(errs, fmt.Sprintf("battle.lock_unit must be >= 0, got %s", b.LockUnit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBalance(b BalanceConfig) error {
	var errs []string
	if b.Hit.MinChance < 0 || b.Hit.MinChance > b.Hit.MaxChance {
		errs = append(errs, "balance.hit.min_chance must be in [0, max_chance]")
	}
	if b.Hit.MaxChance > 100 {
		errs = append(errs, fmt.Sprintf("balance.hit.max_chance must be <= 100, got %g", b.Hit.MaxChance))
	}
	if b.Hit.MedaforceFloor < 0 || b.Hit.MedaforceFloor > 100 {
		errs = append(errs, fmt.Sprintf("balance.hit.medaforce_floor must be in [0, 100], got %g", b.Hit.MedaforceFloor))
	}
	if b.Crit.BaseChance < 0 || b.Crit.BaseChance > b.Crit.MaxChance {
		errs = append(errs, "balance.crit.base_chance must be in [0, max_chance]")
	}
	if b.Crit.Multiplier < 1 {
		errs = append(errs, fmt.Sprintf("balance.crit.multiplier must be >= 1, got %g", b.Crit.Multiplier))
	}
	if b.Damage.AdvantageMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("balance.damage.advantage_multiplier must be >= 1, got %g", b.Damage.AdvantageMultiplier))
	}
	if b.Damage.DisadvantageMultiplier <= 0 || b.Damage.DisadvantageMultiplier > 1 {
		errs = append(errs, fmt.Sprintf("balance.damage.disadvantage_multiplier must be in (0, 1], got %g", b.Damage.DisadvantageMultiplier))
	}
	if b.Damage.DefendReduction <= 0 || b.Damage.DefendReduction > 1 {
		errs = append(errs, fmt.Sprintf("balance.damage.defend_reduction must be in (0, 1], got %g", b.Damage.DefendReduction))
	}
	if b.Damage.ForcePerDamage < 0 {
		errs = append(errs, fmt.Sprintf("balance.damage.force_per_damage must be >= 0, got %g", b.Damage.ForcePerDamage))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.tick_interval", "33ms")
	v.SetDefault("battle.base_charge_rate", 0.8)
	v.SetDefault("battle.lock_unit", "300ms")

	v.SetDefault("balance.hit.base_chance", 70.0)
	v.SetDefault("balance.hit.min_chance", 10.0)
	v.SetDefault("balance.hit.max_chance", 95.0)
	v.SetDefault("balance.hit.medaforce_floor", 80.0)

	v.SetDefault("balance.crit.base_chance", 8.0)
	v.SetDefault("balance.crit.max_chance", 40.0)
	v.SetDefault("balance.crit.multiplier", 1.5)

	v.SetDefault("balance.damage.advantage_multiplier", 1.5)
	v.SetDefault("balance.damage.disadvantage_multiplier", 0.75)
	v.SetDefault("balance.damage.defend_reduction", 0.5)
	v.SetDefault("balance.damage.force_per_damage", 0.6)
}

// Default returns the built-in configuration without reading any file.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of defaults cannot fail; the panic guards template drift.
	if err := v.Unmarshal(&cfg); err != nil {
		panic("config: unmarshaling defaults: " + err.Error())
	}
	return cfg
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SCRAPFORCE_ prefix
	v.SetEnvPrefix("SCRAPFORCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
