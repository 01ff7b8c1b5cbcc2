// Package bot defines the combatant model: a fighting unit assembled from
// four parts and a medal, with the derived stats and mutation primitives the
// scheduler and resolver operate through.
package bot

import (
	"github.com/google/uuid"

	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// Owner distinguishes player-squad bots from opposing bots.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerRival
)

// String returns the human-readable owner label.
func (o Owner) String() string {
	if o == OwnerPlayer {
		return "player"
	}
	return "rival"
}

// Bot is one battle-scoped fighting unit.
//
// Invariant: a bot with all four parts destroyed, or whose vital head part is
// destroyed, is knocked out; Charge stays in [0, 100].
type Bot struct {
	ID    string
	Name  string
	Owner Owner
	Medal *Medal

	// Charge is the readiness gauge in [0, 100]. It is advanced by the
	// scheduler and reset only when an action is dispatched.
	Charge float64

	parts     [len(parts.AllSlots)]*parts.Part
	defending bool
}

// New assembles a bot from its four parts. Any slot may be nil (absent),
// which counts as destroyed for the knockout invariant.
//
// Precondition: name must be non-empty; each non-nil part must occupy the
// slot it is equipped into.
func New(name string, owner Owner, medal *Medal, equipped []*parts.Part) *Bot {
	b := &Bot{
		ID:    uuid.New().String(),
		Name:  name,
		Owner: owner,
		Medal: medal,
	}
	if b.Medal == nil {
		b.Medal = &Medal{Name: "Blank"}
	}
	for _, p := range equipped {
		if p != nil {
			b.parts[p.Slot] = p
		}
	}
	return b
}

// Part returns the part in slot, or nil if the slot is empty.
func (b *Bot) Part(slot parts.Slot) *parts.Part {
	if !slot.Valid() {
		return nil
	}
	return b.parts[slot]
}

// Parts returns the equipped parts in canonical slot order. Entries may be nil.
func (b *Bot) Parts() []*parts.Part {
	out := make([]*parts.Part, 0, len(parts.AllSlots))
	for _, slot := range parts.AllSlots {
		out = append(out, b.parts[slot])
	}
	return out
}

// livingParts iterates the non-nil, non-destroyed parts.
func (b *Bot) livingParts(fn func(*parts.Part)) {
	for _, slot := range parts.AllSlots {
		p := b.parts[slot]
		if p != nil && !p.Destroyed() {
			fn(p)
		}
	}
}

// EffectiveSpeed sums the speed modifiers of all non-destroyed parts.
//
// Postcondition: returns >= 1, the scheduler's division-safe floor.
func (b *Bot) EffectiveSpeed() int {
	speed := 0
	b.livingParts(func(p *parts.Part) { speed += p.Speed })
	if speed < 1 {
		speed = 1
	}
	return speed
}

// EffectiveEvasion sums the evasion modifiers of all non-destroyed parts.
//
// Postcondition: returns >= 0.
func (b *Bot) EffectiveEvasion() int {
	evasion := 0
	b.livingParts(func(p *parts.Part) { evasion += p.Evasion })
	if evasion < 0 {
		evasion = 0
	}
	return evasion
}

// Frame returns the chassis class granted by the legs part. A bot whose legs
// are destroyed or absent falls back to the striker frame.
func (b *Bot) Frame() parts.Frame {
	legs := b.parts[parts.SlotLegs]
	if legs == nil || legs.Destroyed() {
		return parts.FrameStriker
	}
	return legs.Frame
}

// KnockedOut reports the knockout invariant: every part destroyed, or a
// vital head part destroyed.
func (b *Bot) KnockedOut() bool {
	head := b.parts[parts.SlotHead]
	if head != nil && head.Vital && head.Destroyed() {
		return true
	}
	for _, slot := range parts.AllSlots {
		p := b.parts[slot]
		if p != nil && !p.Destroyed() {
			return false
		}
	}
	return true
}

// ApplyDamage routes amount to the part in slot and reports whether that
// application destroyed it. Damage to an empty or already-destroyed slot is
// a legal no-op reporting false.
//
// Precondition: amount >= 0.
func (b *Bot) ApplyDamage(slot parts.Slot, amount int) bool {
	p := b.Part(slot)
	if p == nil {
		return false
	}
	return p.ApplyDamage(amount)
}

// ResetCharge zeroes the charge gauge. Called only on action dispatch.
func (b *Bot) ResetCharge() {
	b.Charge = 0
}

// AddCharge advances the gauge by amount, clamped to [0, 100].
//
// Precondition: amount >= 0.
func (b *Bot) AddCharge(amount float64) {
	b.Charge += amount
	if b.Charge > 100 {
		b.Charge = 100
	}
}

// Ready reports whether the charge gauge has filled.
func (b *Bot) Ready() bool {
	return b.Charge >= 100
}

// SetDefending sets the defending flag, which halves the next incoming hit.
func (b *Bot) SetDefending(defending bool) {
	b.defending = defending
}

// Defending reports whether the defending flag is set.
func (b *Bot) Defending() bool {
	return b.defending
}

// Restore heals every surviving part by fraction of its maximum durability,
// rounding down. Destroyed parts stay destroyed.
//
// Precondition: fraction in [0, 1].
func (b *Bot) Restore(fraction float64) {
	if fraction <= 0 {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	b.livingParts(func(p *parts.Part) {
		p.Heal(int(float64(p.MaxDurability) * fraction))
	})
}

// AggregateDurability sums the current durability of all parts. The AI's
// finish-off heuristic targets the bot with the lowest aggregate.
func (b *Bot) AggregateDurability() int {
	total := 0
	b.livingParts(func(p *parts.Part) { total += p.Durability })
	return total
}

// UsableOffensiveParts returns the slots holding parts that can legally be
// selected as attacking parts, in canonical slot order.
func (b *Bot) UsableOffensiveParts() []parts.Slot {
	var out []parts.Slot
	for _, slot := range parts.AllSlots {
		p := b.parts[slot]
		if p != nil && p.Usable() && p.Kind.Offensive() {
			out = append(out, slot)
		}
	}
	return out
}

// UsableParts returns the slots holding any usable acting part, offensive or
// support, in canonical slot order.
func (b *Bot) UsableParts() []parts.Slot {
	var out []parts.Slot
	for _, slot := range parts.AllSlots {
		p := b.parts[slot]
		if p != nil && p.Usable() {
			out = append(out, slot)
		}
	}
	return out
}

// TargetableParts returns the slots a targeted attack may select: any
// equipped part, destroyed or not. Attacking a destroyed part is legal and
// resolves as a no-op on durability.
func (b *Bot) TargetableParts() []parts.Slot {
	var out []parts.Slot
	for _, slot := range parts.AllSlots {
		if b.parts[slot] != nil {
			out = append(out, slot)
		}
	}
	return out
}

// MostDamagedPart returns the slot of the surviving part missing the most
// durability, for support actions. The bool is false when no part survives
// or none is damaged.
func (b *Bot) MostDamagedPart() (parts.Slot, bool) {
	best := parts.SlotHead
	bestMissing := 0
	b.livingParts(func(p *parts.Part) {
		missing := p.MaxDurability - p.Durability
		if missing > bestMissing {
			bestMissing = missing
			best = p.Slot
		}
	})
	return best, bestMissing > 0
}
