package battle

import (
	"fmt"
	"math"

	"github.com/avery-kellough/scrapforce/internal/config"
	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// TypeMultiplier returns the type-advantage factor for an attack kind
// against a target frame. Ranged attacks beat aerial frames, melee attacks
// beat armored frames; the reverse pairings are disadvantaged. Medaforce and
// support are always neutral.
func TypeMultiplier(kind parts.Kind, frame parts.Frame, dmg config.DamageConfig) float64 {
	switch {
	case kind == parts.KindRanged && frame == parts.FrameAerial:
		return dmg.AdvantageMultiplier
	case kind == parts.KindMelee && frame == parts.FrameArmored:
		return dmg.AdvantageMultiplier
	case kind == parts.KindRanged && frame == parts.FrameArmored:
		return dmg.DisadvantageMultiplier
	case kind == parts.KindMelee && frame == parts.FrameAerial:
		return dmg.DisadvantageMultiplier
	default:
		return 1.0
	}
}

// Resolve consumes a declared action and produces its outcome, mutating the
// session's bots through the combatant model only: durability, medal force,
// limited-use counters, and the attacker's or target's defending flag.
//
// The resolver trusts the caller's contract (the machine validates
// selections): a knocked-out target or destroyed attacking part is not
// re-validated here, except that a destroyed attacking part resolves as an
// automatic miss rather than panicking.
//
// Precondition: a.Attacker and (unless a.Defend) a.Target are valid arena
// indexes; src must be non-nil.
// Postcondition: a ResolvedAction with a deterministic narration; on a miss
// Damage == 0, PartDestroyed == false, TargetKnockedOut == false.
func Resolve(sess *Session, a DeclaredAction, src dice.Source, bal config.BalanceConfig) ResolvedAction {
	attacker := sess.Bot(a.Attacker)

	r := ResolvedAction{
		Attacker:     a.Attacker,
		Target:       a.Target,
		AttackerName: attacker.Name,
		Defend:       a.Defend,
		Medaforce:    a.Medaforce,
		Priority:     a.Priority,
	}

	// Defend short-circuit: no targeting, no damage.
	if a.Defend {
		attacker.SetDefending(true)
		r.Target = a.Attacker
		r.TargetName = attacker.Name
		r.Narration = fmt.Sprintf("%s braces for impact.", attacker.Name)
		return r
	}

	target := sess.Bot(a.Target)
	r.TargetName = target.Name

	var (
		power      int
		accuracy   int
		kind       parts.Kind
		attackName string
	)
	if a.Medaforce {
		fa := attacker.Medal.StrongestAttack()
		power = fa.Power
		accuracy = 0 // medaforce relies on the elevated hit floor
		kind = parts.KindNone
		attackName = fa.Name
		attacker.Medal.SpendForce()
	} else {
		p := attacker.Part(a.UseSlot)
		if p == nil || p.Destroyed() {
			// Caller contract violation, tolerated as an automatic miss.
			r.Narration = fmt.Sprintf("%s swings a ruined part at %s and misses.", attacker.Name, target.Name)
			return r
		}
		power = p.Power
		accuracy = p.Accuracy
		kind = p.Kind
		attackName = p.Name
		p.ConsumeUse()
	}

	// Support inverts the damage path: heal the ally's most damaged part.
	if kind == parts.KindSupport {
		return resolveSupport(sess, a, r, attackName, power)
	}

	// Single hit draw. Medaforce uses an elevated floor chance.
	chance := bal.Hit.BaseChance + float64(accuracy) - float64(target.EffectiveEvasion())
	chance = clampChance(chance, bal.Hit.MinChance, bal.Hit.MaxChance)
	if a.Medaforce && chance < bal.Hit.MedaforceFloor {
		chance = bal.Hit.MedaforceFloor
	}
	if !dice.Percent(src, chance) {
		r.Narration = fmt.Sprintf("%s fires %s at %s's %s but misses!",
			attacker.Name, attackName, target.Name, a.TargetSlot)
		return r
	}
	r.Hit = true

	// Damage: power scaled by type advantage, then critical, then defend.
	r.TypeMultiplier = TypeMultiplier(kind, target.Frame(), bal.Damage)
	dmg := float64(power) * r.TypeMultiplier

	critChance := clampChance(bal.Crit.BaseChance+float64(accuracy)/4, 0, bal.Crit.MaxChance)
	if dice.Percent(src, critChance) {
		r.Critical = true
		dmg *= bal.Crit.Multiplier
	}

	defended := target.Defending()
	if defended {
		dmg *= bal.Damage.DefendReduction
		target.SetDefending(false)
	}

	r.Damage = int(math.Round(dmg))
	if r.Damage < 1 {
		r.Damage = 1
	}

	r.PartDestroyed = target.ApplyDamage(a.TargetSlot, r.Damage)
	r.TargetKnockedOut = target.KnockedOut()

	// Both medals charge from the exchange; the receiver charges faster.
	attacker.Medal.ChargeForce(float64(r.Damage) * bal.Damage.ForcePerDamage)
	target.Medal.ChargeForce(float64(r.Damage) * bal.Damage.ForcePerDamage * 2)

	r.Narration = narrateHit(r, attackName, a.TargetSlot, defended)
	return r
}

// resolveSupport applies a heal to the target's most damaged surviving part.
func resolveSupport(sess *Session, a DeclaredAction, r ResolvedAction, attackName string, power int) ResolvedAction {
	target := sess.Bot(a.Target)
	r.Hit = true
	r.TypeMultiplier = 1.0

	slot, ok := target.MostDamagedPart()
	if !ok {
		r.HealAmount = 0
		r.Narration = fmt.Sprintf("%s uses %s, but %s has nothing to repair.",
			r.AttackerName, attackName, target.Name)
		return r
	}
	r.HealAmount = target.Part(slot).Heal(power)
	r.Narration = fmt.Sprintf("%s uses %s and restores %d durability to %s's %s.",
		r.AttackerName, attackName, r.HealAmount, target.Name, slot)
	return r
}

// narrateHit assembles the deterministic battle-log line for a landed hit.
func narrateHit(r ResolvedAction, attackName string, slot parts.Slot, defended bool) string {
	line := fmt.Sprintf("%s hits %s's %s with %s for %d damage",
		r.AttackerName, r.TargetName, slot, attackName, r.Damage)
	if r.Critical {
		line += " (critical)"
	}
	if defended {
		line += " (defended)"
	}
	line += "!"
	if r.PartDestroyed {
		line += fmt.Sprintf(" The %s is destroyed!", slot)
	}
	if r.TargetKnockedOut {
		line += fmt.Sprintf(" %s is knocked out!", r.TargetName)
	}
	return line
}

func clampChance(chance, min, max float64) float64 {
	if chance < min {
		return min
	}
	if chance > max {
		return max
	}
	return chance
}

// DeclarePriority computes a declaration's priority: the attacker's
// effective speed with a bonus for medaforce.
func DeclarePriority(b *bot.Bot, medaforce bool) int {
	p := b.EffectiveSpeed()
	if medaforce {
		p += MedaforcePriorityBonus
	}
	return p
}
