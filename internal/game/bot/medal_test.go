package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
)

// TestMedal_Levels pins the experience thresholds.
func TestMedal_Levels(t *testing.T) {
	m := &bot.Medal{Name: "Kabuto"}
	assert.Equal(t, 1, m.Level())

	m.GainExperience(99)
	assert.Equal(t, 1, m.Level())
	m.GainExperience(1)
	assert.Equal(t, 2, m.Level())
	m.GainExperience(400)
	assert.Equal(t, 4, m.Level())

	m.GainExperience(-50)
	assert.Equal(t, 500, m.Experience, "negative experience is ignored")
}

// TestMedal_Force verifies gauge clamping and spending.
func TestMedal_Force(t *testing.T) {
	m := &bot.Medal{Name: "Kuwagata"}
	assert.False(t, m.ForceReady())

	m.ChargeForce(60)
	m.ChargeForce(60)
	assert.InDelta(t, 100, m.Force, 1e-9, "force clamps at 100")
	assert.True(t, m.ForceReady())

	m.SpendForce()
	assert.Zero(t, m.Force)
	assert.False(t, m.ForceReady())

	m.ChargeForce(-10)
	assert.Zero(t, m.Force, "negative charge is ignored")
}

// TestMedal_UnlockedAttacks verifies level gating and the strongest pick.
func TestMedal_UnlockedAttacks(t *testing.T) {
	m := &bot.Medal{Name: "Kabuto"}
	unlocked := m.UnlockedAttacks()
	require.Len(t, unlocked, 1, "a fresh medal knows exactly one technique")
	assert.Equal(t, "Force Bolt", m.StrongestAttack().Name)

	m.GainExperience(250) // level 3
	assert.Len(t, m.UnlockedAttacks(), 2)
	assert.Equal(t, "Force Wave", m.StrongestAttack().Name)

	m.GainExperience(650) // level 5
	assert.Len(t, m.UnlockedAttacks(), 3)
	assert.Equal(t, "Force Storm", m.StrongestAttack().Name)
	assert.Greater(t, m.StrongestAttack().Power, 80)
}
