// Package ai synthesizes declared actions for rival bots: part choice by
// expected damage, target choice by pluggable strategy, with medaforce
// preferred when its gauge is full and defend as the structural fallback
// that keeps the scheduler from stalling.
package ai

import (
	"go.uber.org/zap"

	"github.com/avery-kellough/scrapforce/internal/config"
	"github.com/avery-kellough/scrapforce/internal/game/battle"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// Synthesizer implements battle.Synthesizer.
type Synthesizer struct {
	strategy Strategy
	src      dice.Source
	bal      config.BalanceConfig
	logger   *zap.Logger
}

// New creates a Synthesizer using strategy for target selection.
//
// Precondition: strategy and src must be non-nil. logger may be nil.
func New(strategy Strategy, src dice.Source, bal config.BalanceConfig, logger *zap.Logger) *Synthesizer {
	if strategy == nil || src == nil {
		panic("ai: New requires non-nil strategy and source")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{strategy: strategy, src: src, bal: bal, logger: logger}
}

// Synthesize picks an action for the bot at arena index attacker.
//
// Policy: medaforce when the medal's force gauge is full; otherwise the
// usable offensive part with the highest expected damage against the chosen
// target; defend when no offensive part survives. The returned action never
// references a knocked-out target or a destroyed part.
//
// Precondition: attacker is a living bot with at least one living opponent.
func (s *Synthesizer) Synthesize(sess *battle.Session, attacker int) battle.DeclaredAction {
	b := sess.Bot(attacker)
	opponents := sess.LivingOpponents(attacker)

	if len(opponents) == 0 {
		// Nothing to shoot at; the end check will resolve the battle.
		return battle.DeclaredAction{
			Attacker: attacker,
			Defend:   true,
			Priority: battle.DeclarePriority(b, false),
		}
	}

	target, targetSlot := s.strategy.SelectTarget(sess, attacker, opponents, s.src)

	if b.Medal.ForceReady() {
		s.logger.Debug("ai: medaforce",
			zap.String("bot", b.Name),
			zap.String("technique", b.Medal.StrongestAttack().Name),
		)
		return battle.DeclaredAction{
			Attacker:   attacker,
			Medaforce:  true,
			Target:     target,
			TargetSlot: targetSlot,
			Priority:   battle.DeclarePriority(b, true),
		}
	}

	slot, ok := s.bestOffensiveSlot(sess, attacker, target)
	if !ok {
		s.logger.Debug("ai: no offensive part, defending", zap.String("bot", b.Name))
		return battle.DeclaredAction{
			Attacker: attacker,
			Defend:   true,
			Priority: battle.DeclarePriority(b, false),
		}
	}

	return battle.DeclaredAction{
		Attacker:   attacker,
		UseSlot:    slot,
		Target:     target,
		TargetSlot: targetSlot,
		Priority:   battle.DeclarePriority(b, false),
	}
}

// bestOffensiveSlot returns the usable offensive slot with the highest
// expected damage against target, weighting raw power by type advantage and
// an accuracy-derived hit estimate.
func (s *Synthesizer) bestOffensiveSlot(sess *battle.Session, attacker, target int) (parts.Slot, bool) {
	b := sess.Bot(attacker)
	t := sess.Bot(target)

	best := parts.SlotHead
	bestScore := -1.0
	for _, slot := range b.UsableOffensiveParts() {
		p := b.Part(slot)
		score := ExpectedDamage(p, t.Frame(), t.EffectiveEvasion(), s.bal)
		if score > bestScore {
			bestScore = score
			best = slot
		}
	}
	return best, bestScore >= 0
}

// ExpectedDamage estimates a part's damage output against a frame and
// evasion: power scaled by type advantage and the clamped hit chance.
func ExpectedDamage(p *parts.Part, frame parts.Frame, evasion int, bal config.BalanceConfig) float64 {
	chance := bal.Hit.BaseChance + float64(p.Accuracy) - float64(evasion)
	if chance < bal.Hit.MinChance {
		chance = bal.Hit.MinChance
	}
	if chance > bal.Hit.MaxChance {
		chance = bal.Hit.MaxChance
	}
	return float64(p.Power) * battle.TypeMultiplier(p.Kind, frame, bal.Damage) * chance / 100
}
