package ai

import (
	"github.com/avery-kellough/scrapforce/internal/game/battle"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// Strategy picks a target bot and part slot from the candidate list.
// Implementations must return a candidate index and a slot the target
// actually carries.
type Strategy interface {
	SelectTarget(sess *battle.Session, attacker int, candidates []int, src dice.Source) (target int, slot parts.Slot)
}

// Finisher targets the opponent with the lowest remaining aggregate
// durability, aiming at its weakest surviving part. This is the default
// finish-off heuristic.
type Finisher struct{}

// SelectTarget implements Strategy. When every candidate has identical
// aggregate durability (the opening turns), it falls back to a uniform
// random pick so openings are not fully scripted.
func (Finisher) SelectTarget(sess *battle.Session, attacker int, candidates []int, src dice.Source) (int, parts.Slot) {
	best := candidates[0]
	bestAgg := sess.Bot(best).AggregateDurability()
	distinct := false
	for _, c := range candidates[1:] {
		agg := sess.Bot(c).AggregateDurability()
		if agg != bestAgg {
			distinct = true
		}
		if agg < bestAgg {
			best, bestAgg = c, agg
		}
	}
	if !distinct && len(candidates) > 1 {
		best = candidates[src.Intn(len(candidates))]
	}
	return best, weakestSurvivingSlot(sess, best)
}

// Breaker targets the sturdiest surviving part on the sturdiest opponent,
// grinding down defenses before the kill.
type Breaker struct{}

// SelectTarget implements Strategy.
func (Breaker) SelectTarget(sess *battle.Session, attacker int, candidates []int, src dice.Source) (int, parts.Slot) {
	best := candidates[0]
	bestAgg := sess.Bot(best).AggregateDurability()
	for _, c := range candidates[1:] {
		if agg := sess.Bot(c).AggregateDurability(); agg > bestAgg {
			best, bestAgg = c, agg
		}
	}
	target := sess.Bot(best)
	slot := parts.SlotHead
	bestDur := -1
	for _, s := range target.TargetableParts() {
		p := target.Part(s)
		if !p.Destroyed() && p.Durability > bestDur {
			bestDur = p.Durability
			slot = s
		}
	}
	return best, slot
}

// Wildcard targets a uniformly random living opponent and a random slot.
type Wildcard struct{}

// SelectTarget implements Strategy.
func (Wildcard) SelectTarget(sess *battle.Session, attacker int, candidates []int, src dice.Source) (int, parts.Slot) {
	target := candidates[src.Intn(len(candidates))]
	slots := sess.Bot(target).TargetableParts()
	return target, slots[src.Intn(len(slots))]
}

// weakestSurvivingSlot returns the slot of the target's lowest-durability
// surviving part, or its first equipped slot when nothing survives (a
// destroyed part is still a legal, if pointless, target).
func weakestSurvivingSlot(sess *battle.Session, target int) parts.Slot {
	t := sess.Bot(target)
	slots := t.TargetableParts()
	slot := slots[0]
	bestDur := -1
	for _, s := range slots {
		p := t.Part(s)
		if p.Destroyed() {
			continue
		}
		if bestDur == -1 || p.Durability < bestDur {
			bestDur = p.Durability
			slot = s
		}
	}
	return slot
}
