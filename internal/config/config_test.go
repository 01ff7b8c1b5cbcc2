package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avery-kellough/scrapforce/internal/config"
)

// TestDefault_IsValid guards the built-in defaults against drift.
func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 33*time.Millisecond, cfg.Battle.TickInterval)
	assert.InDelta(t, 0.8, cfg.Battle.BaseChargeRate, 1e-9)
	assert.InDelta(t, 70.0, cfg.Balance.Hit.BaseChance, 1e-9)
	assert.InDelta(t, 1.5, cfg.Balance.Crit.Multiplier, 1e-9)
}

// TestLoad reads a YAML file with partial overrides on top of defaults.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battle.yaml")
	yaml := `
logging:
  level: debug
  format: json
battle:
  tick_interval: 50ms
balance:
  hit:
    base_chance: 65
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Battle.TickInterval)
	assert.InDelta(t, 65.0, cfg.Balance.Hit.BaseChance, 1e-9)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 95.0, cfg.Balance.Hit.MaxChance, 1e-9)
}

// TestLoad_MissingFile surfaces the read error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestValidate_ReportsAllViolations verifies violations are aggregated.
func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"
	cfg.Battle.BaseChargeRate = 0
	cfg.Balance.Crit.Multiplier = 0.5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "base_charge_rate")
	assert.Contains(t, err.Error(), "crit.multiplier")
}

// TestValidate_BalanceBounds covers individual balance constraints.
func TestValidate_BalanceBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"hit max above 100", func(c *config.Config) { c.Balance.Hit.MaxChance = 120 }},
		{"min above max", func(c *config.Config) { c.Balance.Hit.MinChance = 99 }},
		{"medaforce floor", func(c *config.Config) { c.Balance.Hit.MedaforceFloor = 101 }},
		{"advantage below 1", func(c *config.Config) { c.Balance.Damage.AdvantageMultiplier = 0.9 }},
		{"zero defend reduction", func(c *config.Config) { c.Balance.Damage.DefendReduction = 0 }},
		{"negative force rate", func(c *config.Config) { c.Balance.Damage.ForcePerDamage = -1 }},
		{"negative lock unit", func(c *config.Config) { c.Battle.LockUnit = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
