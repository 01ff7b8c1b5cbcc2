package ai

import (
	"github.com/avery-kellough/scrapforce/internal/game/battle"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
	"github.com/avery-kellough/scrapforce/internal/scripting"
)

// TargetScorer is the scripting surface LuaStrategy needs; satisfied by
// *scripting.Manager.
type TargetScorer interface {
	ScoreTarget(personality string, info scripting.TargetInfo) (float64, bool)
}

// LuaStrategy delegates target scoring to a sandboxed personality script.
// Candidates are scored one by one and the highest score wins; whenever the
// script cannot produce a score, the strategy falls back to Finisher for
// the whole pass, so a broken script never degrades into an illegal action.
type LuaStrategy struct {
	Scorer      TargetScorer
	Personality string
	Fallback    Strategy
}

// NewLuaStrategy creates a LuaStrategy with Finisher as fallback.
//
// Precondition: scorer must be non-nil; personality must be non-empty.
func NewLuaStrategy(scorer TargetScorer, personality string) *LuaStrategy {
	if scorer == nil || personality == "" {
		panic("ai: NewLuaStrategy requires a scorer and a personality name")
	}
	return &LuaStrategy{Scorer: scorer, Personality: personality, Fallback: Finisher{}}
}

// SelectTarget implements Strategy.
func (l *LuaStrategy) SelectTarget(sess *battle.Session, attacker int, candidates []int, src dice.Source) (int, parts.Slot) {
	best := -1
	bestScore := 0.0
	for _, c := range candidates {
		b := sess.Bot(c)
		surviving := 0
		for _, slot := range b.TargetableParts() {
			if !b.Part(slot).Destroyed() {
				surviving++
			}
		}
		score, ok := l.Scorer.ScoreTarget(l.Personality, scripting.TargetInfo{
			Name:                b.Name,
			AggregateDurability: b.AggregateDurability(),
			PartsLeft:           surviving,
			Frame:               b.Frame().String(),
		})
		if !ok {
			return l.Fallback.SelectTarget(sess, attacker, candidates, src)
		}
		if best == -1 || score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == -1 {
		return l.Fallback.SelectTarget(sess, attacker, candidates, src)
	}
	return best, weakestSurvivingSlot(sess, best)
}
