// Package parts defines the equippable part model: the four body slots, the
// closed set of action kinds, durability bookkeeping, and the YAML template
// catalog parts are instantiated from.
package parts

import "fmt"

// Slot identifies one of the four equipment positions on a bot.
type Slot int

const (
	SlotHead Slot = iota
	SlotRightArm
	SlotLeftArm
	SlotLegs
)

// AllSlots lists every slot in canonical order.
var AllSlots = [4]Slot{SlotHead, SlotRightArm, SlotLeftArm, SlotLegs}

// String returns the human-readable slot name.
func (s Slot) String() string {
	switch s {
	case SlotHead:
		return "head"
	case SlotRightArm:
		return "right arm"
	case SlotLeftArm:
		return "left arm"
	case SlotLegs:
		return "legs"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four defined slots.
func (s Slot) Valid() bool {
	return s >= SlotHead && s <= SlotLegs
}

// Kind is the closed set of action kinds a part can carry.
// The zero value (KindNone) marks a part with no usable action.
type Kind int

const (
	KindNone Kind = iota
	KindRanged
	KindMelee
	KindSupport
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRanged:
		return "ranged"
	case KindMelee:
		return "melee"
	case KindSupport:
		return "support"
	default:
		return "unknown"
	}
}

// Offensive reports whether the kind deals damage when used.
func (k Kind) Offensive() bool {
	return k == KindRanged || k == KindMelee
}

// Frame is the chassis class a legs part gives its bot. It is the target
// trait in the type-advantage relationship: ranged attacks are strong
// against aerial frames, melee attacks against armored frames.
type Frame int

const (
	FrameStriker Frame = iota
	FrameAerial
	FrameArmored
)

// String returns the human-readable frame name.
func (f Frame) String() string {
	switch f {
	case FrameStriker:
		return "striker"
	case FrameAerial:
		return "aerial"
	case FrameArmored:
		return "armored"
	default:
		return "unknown"
	}
}

// Part is a live, battle-scoped part instance occupying one slot.
//
// Invariant: Durability is clamped to [0, MaxDurability]; at 0 the part is
// destroyed and contributes zero offense and defense.
type Part struct {
	ID   string
	Name string
	Slot Slot
	Kind Kind

	Power    int
	Accuracy int
	Speed    int
	Evasion  int

	MaxDurability int
	Durability    int

	// UsesLeft is the remaining activation count for limited-use parts.
	// 0 on a part whose template declared no limit means unlimited.
	UsesMax  int
	UsesLeft int

	// Vital marks a head part whose destruction alone knocks the bot out.
	Vital bool

	// Frame is meaningful on legs parts only.
	Frame Frame
}

// Destroyed reports whether the part has been reduced to zero durability.
func (p *Part) Destroyed() bool {
	return p.Durability <= 0
}

// Usable reports whether the part can be selected as an attacking part:
// not destroyed, carries an action kind, and has uses remaining.
func (p *Part) Usable() bool {
	if p.Destroyed() || p.Kind == KindNone {
		return false
	}
	if p.UsesMax > 0 && p.UsesLeft <= 0 {
		return false
	}
	return true
}

// ApplyDamage reduces durability by amount, clamping at zero, and reports
// whether this application destroyed the part. Damaging an already-destroyed
// part is a legal no-op that reports false.
//
// Precondition: amount >= 0.
// Postcondition: Durability >= 0; returns true iff the part crossed from
// positive durability to zero on this call.
func (p *Part) ApplyDamage(amount int) bool {
	if p.Destroyed() {
		return false
	}
	p.Durability -= amount
	if p.Durability <= 0 {
		p.Durability = 0
		return true
	}
	return false
}

// Heal restores up to amount durability, clamped to MaxDurability.
// A destroyed part cannot be healed back into service.
//
// Postcondition: returns the durability actually restored (>= 0).
func (p *Part) Heal(amount int) int {
	if p.Destroyed() || amount <= 0 {
		return 0
	}
	before := p.Durability
	p.Durability += amount
	if p.Durability > p.MaxDurability {
		p.Durability = p.MaxDurability
	}
	return p.Durability - before
}

// ConsumeUse decrements UsesLeft on limited-use parts.
//
// Postcondition: UsesLeft >= 0.
func (p *Part) ConsumeUse() {
	if p.UsesMax > 0 && p.UsesLeft > 0 {
		p.UsesLeft--
	}
}

// Label returns "<name> (<slot>)" for narration and logs.
func (p *Part) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Slot)
}
