package parts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

func newTestPart() *parts.Part {
	return &parts.Part{
		ID:            "revolver",
		Name:          "Revolver",
		Slot:          parts.SlotRightArm,
		Kind:          parts.KindRanged,
		Power:         30,
		Accuracy:      60,
		MaxDurability: 50,
		Durability:    50,
	}
}

// TestPart_ApplyDamage_DestroysAtZero verifies the destruction threshold.
func TestPart_ApplyDamage_DestroysAtZero(t *testing.T) {
	p := newTestPart()

	destroyed := p.ApplyDamage(20)
	assert.False(t, destroyed)
	assert.Equal(t, 30, p.Durability)

	destroyed = p.ApplyDamage(30)
	assert.True(t, destroyed, "reaching exactly 0 must destroy the part")
	assert.True(t, p.Destroyed())
	assert.Equal(t, 0, p.Durability)
}

// TestPart_ApplyDamage_DestroyedIsNoOp verifies that damaging an already
// destroyed part reports false a second time and never goes negative.
func TestPart_ApplyDamage_DestroyedIsNoOp(t *testing.T) {
	p := newTestPart()
	require.True(t, p.ApplyDamage(999))

	assert.False(t, p.ApplyDamage(10), "second destruction must report false")
	assert.Equal(t, 0, p.Durability)
}

// TestPart_ApplyDamage_NeverNegative is the durability clamp property.
func TestPart_ApplyDamage_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := newTestPart()
		p.MaxDurability = rapid.IntRange(1, 200).Draw(rt, "max")
		p.Durability = p.MaxDurability
		hits := rapid.SliceOfN(rapid.IntRange(0, 100), 1, 20).Draw(rt, "hits")

		destructions := 0
		for _, h := range hits {
			if p.ApplyDamage(h) {
				destructions++
			}
		}
		assert.GreaterOrEqual(rt, p.Durability, 0, "durability must never be negative")
		assert.LessOrEqual(rt, destructions, 1, "a part is destroyed at most once")
	})
}

// TestPart_Heal_ClampsAndSkipsDestroyed verifies heal semantics.
func TestPart_Heal_ClampsAndSkipsDestroyed(t *testing.T) {
	p := newTestPart()
	p.ApplyDamage(30)

	restored := p.Heal(100)
	assert.Equal(t, 30, restored)
	assert.Equal(t, p.MaxDurability, p.Durability)

	p.ApplyDamage(999)
	assert.Equal(t, 0, p.Heal(50), "a destroyed part cannot be healed")
	assert.True(t, p.Destroyed())
}

// TestPart_Usable covers the destroyed / no-kind / spent-uses cases.
func TestPart_Usable(t *testing.T) {
	p := newTestPart()
	assert.True(t, p.Usable())

	p.Kind = parts.KindNone
	assert.False(t, p.Usable(), "a part without an action kind is not usable")

	p = newTestPart()
	p.UsesMax = 2
	p.UsesLeft = 2
	p.ConsumeUse()
	p.ConsumeUse()
	assert.Equal(t, 0, p.UsesLeft)
	assert.False(t, p.Usable(), "a spent limited-use part is not usable")
	p.ConsumeUse() // no-op below zero
	assert.Equal(t, 0, p.UsesLeft)

	p = newTestPart()
	p.ApplyDamage(999)
	assert.False(t, p.Usable(), "a destroyed part is not usable")
}

// TestSlot_Strings pins the slot labels used in narration.
func TestSlot_Strings(t *testing.T) {
	assert.Equal(t, "head", parts.SlotHead.String())
	assert.Equal(t, "right arm", parts.SlotRightArm.String())
	assert.Equal(t, "left arm", parts.SlotLeftArm.String())
	assert.Equal(t, "legs", parts.SlotLegs.String())
	assert.True(t, parts.SlotLegs.Valid())
	assert.False(t, parts.Slot(9).Valid())
}

// TestKind_Offensive pins which kinds of action deal damage.
func TestKind_Offensive(t *testing.T) {
	assert.True(t, parts.KindRanged.Offensive())
	assert.True(t, parts.KindMelee.Offensive())
	assert.False(t, parts.KindSupport.Offensive())
	assert.False(t, parts.KindNone.Offensive())
}
