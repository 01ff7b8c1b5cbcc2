package battle

import (
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// DeclaredAction is one combatant's committed intent for a resolution.
// It is built fresh per dispatch, immutable once built, and consumed exactly
// once by Resolve.
type DeclaredAction struct {
	// Attacker is the acting bot's arena index.
	Attacker int

	// Defend short-circuits resolution: no targeting, no damage.
	Defend bool

	// Medaforce selects the medal's strongest unlocked technique instead
	// of a part. UseSlot is ignored when set.
	Medaforce bool

	// UseSlot is the attacking (or supporting) part's slot.
	UseSlot parts.Slot

	// Target is the targeted bot's arena index. For support actions this
	// is an ally; ignored for defend.
	Target int

	// TargetSlot is the targeted part slot on Target. Ignored for defend
	// and support.
	TargetSlot parts.Slot

	// Priority is the attacker's effective speed at declaration time,
	// with a bonus for medaforce; recorded in the battle log.
	Priority int
}

// MedaforcePriorityBonus is added to a medaforce declaration's priority.
const MedaforcePriorityBonus = 10

// ResolvedAction is the immutable outcome of one resolution, read by the
// presentation layer, the battle log, and the end-condition check.
type ResolvedAction struct {
	Attacker     int
	Target       int
	AttackerName string
	TargetName   string

	Defend    bool
	Medaforce bool

	Hit            bool
	Critical       bool
	Damage         int
	TypeMultiplier float64
	HealAmount     int

	// PartDestroyed reports whether this hit reduced the targeted part to
	// zero durability; TargetKnockedOut whether the target's knockout
	// invariant tripped as a result.
	PartDestroyed    bool
	TargetKnockedOut bool

	Priority  int
	Narration string
}

// DramaticWeight converts the outcome into executing-lock units: a knockout
// holds the stage longest, a miss or defend barely at all.
func (r ResolvedAction) DramaticWeight() int {
	switch {
	case r.TargetKnockedOut:
		return 4
	case r.PartDestroyed:
		return 3
	case r.Hit && !r.Defend:
		return 2
	default:
		return 1
	}
}
