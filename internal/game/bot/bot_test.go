package bot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

func testPart(slot parts.Slot, kind parts.Kind, durability int) *parts.Part {
	return &parts.Part{
		ID:            slot.String(),
		Name:          slot.String(),
		Slot:          slot,
		Kind:          kind,
		Power:         30,
		Accuracy:      60,
		Speed:         5,
		Evasion:       3,
		MaxDurability: durability,
		Durability:    durability,
	}
}

func testBot(name string, owner bot.Owner) *bot.Bot {
	legs := testPart(parts.SlotLegs, parts.KindNone, 60)
	legs.Frame = parts.FrameAerial
	legs.Speed = 10
	return bot.New(name, owner, &bot.Medal{Name: "Kabuto"}, []*parts.Part{
		testPart(parts.SlotHead, parts.KindSupport, 40),
		testPart(parts.SlotRightArm, parts.KindRanged, 50),
		testPart(parts.SlotLeftArm, parts.KindMelee, 50),
		legs,
	})
}

// TestBot_EffectiveStats verifies stat sums over non-destroyed parts.
func TestBot_EffectiveStats(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	assert.Equal(t, 25, b.EffectiveSpeed(), "3 parts at 5 plus legs at 10")
	assert.Equal(t, 12, b.EffectiveEvasion())

	// Destroying the legs removes their contribution and the frame.
	require.True(t, b.ApplyDamage(parts.SlotLegs, 999))
	assert.Equal(t, 15, b.EffectiveSpeed())
	assert.Equal(t, parts.FrameStriker, b.Frame(), "destroyed legs fall back to striker")
}

// TestBot_SpeedFloor verifies the scheduler-safe floor of 1.
func TestBot_SpeedFloor(t *testing.T) {
	b := testBot("Wreck", bot.OwnerRival)
	for _, slot := range parts.AllSlots {
		b.ApplyDamage(slot, 999)
	}
	assert.Equal(t, 1, b.EffectiveSpeed(), "a bot with no surviving parts still has speed 1")
	assert.Equal(t, 0, b.EffectiveEvasion())
}

// TestBot_KnockedOut_AllPartsDestroyed verifies the all-parts knockout rule.
func TestBot_KnockedOut_AllPartsDestroyed(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	assert.False(t, b.KnockedOut())

	for _, slot := range parts.AllSlots {
		b.ApplyDamage(slot, 999)
	}
	assert.True(t, b.KnockedOut())
}

// TestBot_KnockedOut_VitalHead verifies the vital-head knockout rule.
func TestBot_KnockedOut_VitalHead(t *testing.T) {
	b := testBot("Rokusho", bot.OwnerRival)
	b.Part(parts.SlotHead).Vital = true

	require.True(t, b.ApplyDamage(parts.SlotHead, 999))
	assert.True(t, b.KnockedOut(), "vital head destruction alone knocks out")

	// Without the vital flag the same damage does not knock out.
	b2 := testBot("Sumilidon", bot.OwnerRival)
	b2.ApplyDamage(parts.SlotHead, 999)
	assert.False(t, b2.KnockedOut())
}

// TestBot_ApplyDamage_EmptyAndDestroyedSlots verifies the silent no-op contract.
func TestBot_ApplyDamage_EmptyAndDestroyedSlots(t *testing.T) {
	b := bot.New("Bare", bot.OwnerRival, nil, []*parts.Part{
		testPart(parts.SlotHead, parts.KindRanged, 40),
	})
	assert.False(t, b.ApplyDamage(parts.SlotLegs, 50), "empty slot reports false")
	assert.False(t, b.ApplyDamage(parts.Slot(17), 50), "invalid slot reports false")

	require.True(t, b.ApplyDamage(parts.SlotHead, 999))
	assert.False(t, b.ApplyDamage(parts.SlotHead, 50), "destroyed slot reports false a second time")
}

// TestBot_Charge verifies clamping and dispatch-only reset.
func TestBot_Charge(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	b.AddCharge(64)
	assert.InDelta(t, 64, b.Charge, 1e-9)
	assert.False(t, b.Ready())

	b.AddCharge(1000)
	assert.InDelta(t, 100, b.Charge, 1e-9, "charge clamps at 100")
	assert.True(t, b.Ready())

	b.ResetCharge()
	assert.Zero(t, b.Charge)
}

// TestBot_Restore heals surviving parts only.
func TestBot_Restore(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	b.ApplyDamage(parts.SlotRightArm, 30)
	b.ApplyDamage(parts.SlotLeftArm, 999)

	b.Restore(0.5)
	assert.Equal(t, 45, b.Part(parts.SlotRightArm).Durability, "healed by half of max 50")
	assert.True(t, b.Part(parts.SlotLeftArm).Destroyed(), "destroyed parts stay destroyed")
}

// TestBot_UsableOffensiveParts excludes support, destroyed, and spent parts.
func TestBot_UsableOffensiveParts(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	assert.Equal(t, []parts.Slot{parts.SlotRightArm, parts.SlotLeftArm}, b.UsableOffensiveParts())

	b.ApplyDamage(parts.SlotRightArm, 999)
	assert.Equal(t, []parts.Slot{parts.SlotLeftArm}, b.UsableOffensiveParts())

	b.ApplyDamage(parts.SlotLeftArm, 999)
	assert.Empty(t, b.UsableOffensiveParts())

	// The support head is still usable as a non-offensive acting part.
	assert.Equal(t, []parts.Slot{parts.SlotHead}, b.UsableParts())
}

// TestBot_MostDamagedPart picks the largest durability deficit.
func TestBot_MostDamagedPart(t *testing.T) {
	b := testBot("Metabee", bot.OwnerPlayer)
	_, ok := b.MostDamagedPart()
	assert.False(t, ok, "an untouched bot has no damaged part")

	b.ApplyDamage(parts.SlotRightArm, 10)
	b.ApplyDamage(parts.SlotLegs, 25)
	slot, ok := b.MostDamagedPart()
	require.True(t, ok)
	assert.Equal(t, parts.SlotLegs, slot)
}

// TestBot_AggregateDurability_Property: aggregate equals the sum over
// surviving parts and never increases under damage.
func TestBot_AggregateDurability_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := testBot("Prop", bot.OwnerRival)
		before := b.AggregateDurability()
		hits := rapid.SliceOfN(rapid.IntRange(0, 80), 1, 12).Draw(rt, "hits")
		slotIdx := rapid.SliceOfN(rapid.IntRange(0, 3), len(hits), len(hits)).Draw(rt, "slots")
		for i, h := range hits {
			b.ApplyDamage(parts.AllSlots[slotIdx[i]], h)
		}
		after := b.AggregateDurability()
		assert.LessOrEqual(rt, after, before)
		assert.GreaterOrEqual(rt, after, 0)
	})
}
