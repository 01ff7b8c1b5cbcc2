package bot

// ForceAttack is one medaforce technique unlocked by medal experience.
type ForceAttack struct {
	Name     string
	Power    int
	MinLevel int
}

// forceAttacks is the fixed unlock table, weakest first.
var forceAttacks = []ForceAttack{
	{Name: "Force Bolt", Power: 45, MinLevel: 1},
	{Name: "Force Wave", Power: 62, MinLevel: 3},
	{Name: "Force Storm", Power: 85, MinLevel: 5},
}

// levelThresholds[i] is the total experience required for level i+2.
var levelThresholds = []int{100, 250, 500, 900, 1500}

// Medal is the evolving resource core of a bot. It accumulates experience
// across battles and carries the force gauge that gates medaforce attacks.
//
// Invariant: Force stays in [0, 100]; Experience never decreases.
type Medal struct {
	Name       string
	Experience int

	// Force is the medaforce gauge in [0, 100]. It charges from damage
	// dealt and received, and a medaforce declaration empties it.
	Force float64
}

// Level derives the medal level from total experience. Levels start at 1.
func (m *Medal) Level() int {
	level := 1
	for _, threshold := range levelThresholds {
		if m.Experience < threshold {
			break
		}
		level++
	}
	return level
}

// GainExperience adds exp to the medal. Negative amounts are ignored.
func (m *Medal) GainExperience(exp int) {
	if exp > 0 {
		m.Experience += exp
	}
}

// ForceReady reports whether the force gauge is full.
func (m *Medal) ForceReady() bool {
	return m.Force >= 100
}

// ChargeForce adds amount to the force gauge, clamped to [0, 100].
func (m *Medal) ChargeForce(amount float64) {
	if amount <= 0 {
		return
	}
	m.Force += amount
	if m.Force > 100 {
		m.Force = 100
	}
}

// SpendForce empties the force gauge.
//
// Precondition: ForceReady() — spending an unready gauge is a caller bug,
// tolerated as a plain reset.
func (m *Medal) SpendForce() {
	m.Force = 0
}

// UnlockedAttacks returns the medaforce techniques available at the current
// level, weakest first. A level-1 medal always has at least one.
func (m *Medal) UnlockedAttacks() []ForceAttack {
	level := m.Level()
	var out []ForceAttack
	for _, fa := range forceAttacks {
		if fa.MinLevel <= level {
			out = append(out, fa)
		}
	}
	return out
}

// StrongestAttack returns the highest-power unlocked medaforce technique.
func (m *Medal) StrongestAttack() ForceAttack {
	unlocked := m.UnlockedAttacks()
	return unlocked[len(unlocked)-1]
}
