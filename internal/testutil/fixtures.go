// Package testutil provides test helpers: a scripted randomness source and
// ready-made squad fixtures.
package testutil

import (
	"fmt"
	"testing"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// ScriptedSource replays a fixed sequence of draws, then repeats the final
// value forever. It makes hit, crit, and target rolls fully deterministic.
type ScriptedSource struct {
	Draws []int
	pos   int
}

// Intn returns the next scripted draw clamped to [0, n).
func (s *ScriptedSource) Intn(n int) int {
	if len(s.Draws) == 0 {
		return 0
	}
	v := s.Draws[s.pos]
	if s.pos < len(s.Draws)-1 {
		s.pos++
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// NewPart builds a live part with sensible defaults for the given slot.
func NewPart(name string, slot parts.Slot, kind parts.Kind, power, accuracy, durability int) *parts.Part {
	return &parts.Part{
		ID:            name,
		Name:          name,
		Slot:          slot,
		Kind:          kind,
		Power:         power,
		Accuracy:      accuracy,
		MaxDurability: durability,
		Durability:    durability,
	}
}

// NewBot assembles a standard four-part bot: ranged head, melee right arm,
// ranged left arm, and striker legs contributing speed and evasion.
func NewBot(t *testing.T, name string, owner bot.Owner, speed, evasion int) *bot.Bot {
	t.Helper()
	head := NewPart(name+"-head", parts.SlotHead, parts.KindRanged, 20, 10, 40)
	head.Vital = true
	rarm := NewPart(name+"-rarm", parts.SlotRightArm, parts.KindMelee, 30, 5, 50)
	larm := NewPart(name+"-larm", parts.SlotLeftArm, parts.KindRanged, 25, 15, 50)
	legs := NewPart(name+"-legs", parts.SlotLegs, parts.KindNone, 0, 0, 60)
	legs.Speed = speed
	legs.Evasion = evasion
	legs.Frame = parts.FrameStriker
	return bot.New(name, owner, &bot.Medal{Name: name + "-medal"}, []*parts.Part{head, rarm, larm, legs})
}

// Squad builds n bots named prefix-1..n for the given side.
func Squad(t *testing.T, prefix string, owner bot.Owner, n int) []*bot.Bot {
	t.Helper()
	squad := make([]*bot.Bot, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s-%d", prefix, i+1)
		squad = append(squad, NewBot(t, name, owner, 10+i, 5))
	}
	return squad
}
