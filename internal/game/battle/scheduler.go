package battle

// Scheduler advances every living bot's charge gauge and ranks the ready
// ones. It never resets a gauge: reset happens only when the state machine
// dispatches an action, which is what prevents a bot from acting twice
// before a slower opponent gets its turn.
type Scheduler struct {
	baseRate float64
}

// NewScheduler creates a Scheduler filling gauges at baseRate points per
// speed point per second.
//
// Precondition: baseRate > 0.
func NewScheduler(baseRate float64) *Scheduler {
	if baseRate <= 0 {
		panic("battle: NewScheduler requires baseRate > 0")
	}
	return &Scheduler{baseRate: baseRate}
}

// Advance increases each living bot's gauge by
// max(1, effectiveSpeed) * baseRate * delta, clamped to 100.
//
// Precondition: delta >= 0, in seconds.
func (s *Scheduler) Advance(sess *Session, delta float64) {
	if delta <= 0 {
		return
	}
	for _, i := range sess.Living() {
		b := sess.Bot(i)
		speed := b.EffectiveSpeed()
		if speed < 1 {
			speed = 1
		}
		b.AddCharge(float64(speed) * s.baseRate * delta)
	}
}

// ReadyNext returns the arena index of the single highest-ranked bot whose
// gauge has filled, or false when none is ready. Ranking is effective speed
// descending; on an exact speed tie, rival-owned bots precede player-owned
// ones; remaining ties break toward the lower arena index.
//
// The returned bot's gauge is NOT reset here. Bots left at >= 100 are
// re-evaluated on the next pass once the machine returns to charging.
func (s *Scheduler) ReadyNext(sess *Session) (int, bool) {
	best := -1
	for _, i := range sess.Living() {
		b := sess.Bot(i)
		if !b.Ready() {
			continue
		}
		if best == -1 || s.outranks(sess, i, best) {
			best = i
		}
	}
	return best, best != -1
}

// outranks reports whether arena index a ranks strictly ahead of b for
// dispatch.
func (s *Scheduler) outranks(sess *Session, a, b int) bool {
	sa, sb := sess.Bot(a).EffectiveSpeed(), sess.Bot(b).EffectiveSpeed()
	if sa != sb {
		return sa > sb
	}
	pa, pb := sess.IsPlayerIndex(a), sess.IsPlayerIndex(b)
	if pa != pb {
		// Rivals resolve first on an exact tie.
		return !pa
	}
	return a < b
}
