package battle

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/avery-kellough/scrapforce/internal/config"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/loot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// Phase is the state machine's current phase.
type Phase int

const (
	// PhaseCharging: the scheduler advances gauges every tick.
	PhaseCharging Phase = iota
	// PhaseActionMenu: a player bot is ready; awaiting attack-or-defend.
	PhaseActionMenu
	// PhasePartSelect: awaiting the acting part choice.
	PhasePartSelect
	// PhaseTargetSelect: awaiting target bot and part choice.
	PhaseTargetSelect
	// PhaseExecuting: a resolution's animation lock is running.
	PhaseExecuting
	// PhaseBattleOver: terminal.
	PhaseBattleOver
)

// String returns the phase tag carried by phase-changed events.
func (p Phase) String() string {
	switch p {
	case PhaseCharging:
		return "charging"
	case PhaseActionMenu:
		return "action_menu"
	case PhasePartSelect:
		return "part_select"
	case PhaseTargetSelect:
		return "target_select"
	case PhaseExecuting:
		return "executing"
	case PhaseBattleOver:
		return "battle_over"
	default:
		return "unknown"
	}
}

// Synthesizer chooses an action for a rival bot. Implemented by the ai
// package; declared here so battle does not depend on it.
type Synthesizer interface {
	// Synthesize returns a legal DeclaredAction for the bot at arena
	// index attacker. It must never reference a knocked-out target or a
	// destroyed part; with no legal offensive part it declares defend.
	Synthesize(sess *Session, attacker int) DeclaredAction
}

// selection holds the player's in-progress choices. Indices are re-clamped
// against the current candidate lists whenever those shrink.
type selection struct {
	medaforce  bool
	slot       parts.Slot
	hasSlot    bool
	target     int
	targetSlot parts.Slot
}

// MachineParams bundles the dependencies of a Machine.
type MachineParams struct {
	Session *Session
	Synth   Synthesizer
	Source  dice.Source
	Battle  config.BattleConfig
	Balance config.BalanceConfig

	// Optional. Nil values fall back to no-ops.
	Logger  *zap.Logger
	Tracer  trace.Tracer
	Sink    Sink
	Loot    *loot.Table
	Context context.Context
}

// Machine orchestrates a battle session: it owns the phase, pauses the
// scheduler on player decision points, synthesizes rival actions inline,
// dispatches resolutions, and detects battle end.
//
// Machine is not safe for concurrent use; the tick driver and command
// surface must run on one goroutine.
type Machine struct {
	sess  *Session
	sched *Scheduler
	synth Synthesizer
	src   dice.Source
	bal   config.BalanceConfig

	lockUnit time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
	sink     Sink
	loot     *loot.Table
	ctx      context.Context

	phase         Phase
	active        int // arena index awaiting player action; -1 otherwise
	sel           selection
	lockRemaining time.Duration

	ended     bool
	summary   Summary
	knockouts int // rival bots knocked out, for reward scaling
}

// NewMachine creates a Machine in the charging phase.
//
// Precondition: p.Session, p.Synth, and p.Source must be non-nil;
// p.Battle.BaseChargeRate > 0.
func NewMachine(p MachineParams) (*Machine, error) {
	if p.Session == nil || p.Synth == nil || p.Source == nil {
		return nil, fmt.Errorf("battle: NewMachine requires session, synthesizer, and source")
	}
	if p.Battle.BaseChargeRate <= 0 {
		return nil, fmt.Errorf("battle: base charge rate must be > 0, got %g", p.Battle.BaseChargeRate)
	}
	m := &Machine{
		sess:     p.Session,
		sched:    NewScheduler(p.Battle.BaseChargeRate),
		synth:    p.Synth,
		src:      p.Source,
		bal:      p.Balance,
		lockUnit: p.Battle.LockUnit,
		logger:   p.Logger,
		tracer:   p.Tracer,
		sink:     p.Sink,
		loot:     p.Loot,
		ctx:      p.Context,
		phase:    PhaseCharging,
		active:   -1,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.tracer == nil {
		m.tracer = noop.NewTracerProvider().Tracer("scrapforce/battle")
	}
	if m.sink == nil {
		m.sink = NopSink{}
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}

	_, span := m.tracer.Start(m.ctx, "battle.start")
	span.SetAttributes(
		attribute.Int("players", len(m.sess.PlayerBots())),
		attribute.Int("rivals", len(m.sess.RivalBots())),
	)
	span.End()
	return m, nil
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Session returns the session the machine orchestrates.
func (m *Machine) Session() *Session { return m.sess }

// ActiveIndex returns the arena index awaiting a player decision, or -1.
func (m *Machine) ActiveIndex() int { return m.active }

// Summary returns the terminal summary. ok is false until the battle ends.
func (m *Machine) Summary() (Summary, bool) {
	return m.summary, m.ended
}

// Tick advances the machine by delta of battle time. In the charging phase
// it runs the scheduler and dispatches at most one ready bot; in the
// executing phase it counts down the animation lock; in selection phases it
// only re-clamps stale selections.
//
// Precondition: delta >= 0.
func (m *Machine) Tick(delta time.Duration) {
	switch m.phase {
	case PhaseBattleOver:
		return
	case PhaseExecuting:
		m.lockRemaining -= delta
		if m.lockRemaining <= 0 {
			m.lockRemaining = 0
			m.setPhase(PhaseCharging)
		}
	case PhaseActionMenu, PhasePartSelect, PhaseTargetSelect:
		m.reclampSelection()
	case PhaseCharging:
		m.sched.Advance(m.sess, delta.Seconds())
		ready, ok := m.sched.ReadyNext(m.sess)
		if !ok {
			return
		}
		if m.sess.IsPlayerIndex(ready) {
			m.active = ready
			m.sel = selection{}
			m.setPhase(PhaseActionMenu)
			m.logger.Debug("awaiting player action",
				zap.String("bot", m.sess.Bot(ready).Name),
			)
			return
		}
		m.dispatch(m.synth.Synthesize(m.sess, ready))
	}
}

// setPhase transitions and emits the phase-changed event.
func (m *Machine) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.phase = p
	m.sink.PhaseChanged(p)
}

// dispatch resets the attacker's gauge, resolves the action, feeds the
// outcome to the log and sinks, and runs the battle-end check before the
// scheduler may resume.
func (m *Machine) dispatch(a DeclaredAction) {
	attacker := m.sess.Bot(a.Attacker)
	attacker.ResetCharge()
	attacker.SetDefending(false)
	m.sess.Turn++
	m.active = -1

	_, span := m.tracer.Start(m.ctx, "battle.resolve")
	r := Resolve(m.sess, a, m.src, m.bal)
	span.SetAttributes(
		attribute.String("attacker", r.AttackerName),
		attribute.String("target", r.TargetName),
		attribute.Bool("hit", r.Hit),
		attribute.Int("damage", r.Damage),
		attribute.Bool("knockout", r.TargetKnockedOut),
	)
	span.End()

	m.sess.Append(r)
	m.sink.ActionResolved(r)
	m.logger.Info("resolved",
		zap.Int("turn", m.sess.Turn),
		zap.String("narration", r.Narration),
	)

	if r.TargetKnockedOut && !m.sess.IsPlayerIndex(r.Target) {
		m.knockouts++
	}

	// End check outranks resuming the scheduler.
	switch {
	case m.sess.SideDefeated(false):
		m.endBattle(OutcomeWin)
	case m.sess.SideDefeated(true):
		m.endBattle(OutcomeLose)
	default:
		m.lockRemaining = time.Duration(r.DramaticWeight()) * m.lockUnit
		if m.lockRemaining > 0 {
			m.setPhase(PhaseExecuting)
		} else {
			m.setPhase(PhaseCharging)
		}
	}
}

// endBattle transitions to the terminal phase and emits battle-ended exactly
// once, generating rewards on a win.
func (m *Machine) endBattle(outcome Outcome) {
	if m.ended {
		return
	}
	m.ended = true

	m.summary = Summary{Outcome: outcome, Turns: m.sess.Turn}
	if outcome == OutcomeWin && m.loot != nil {
		r := loot.Generate(*m.loot, m.knockouts, m.src)
		m.summary.Rewards = &r
	}

	_, span := m.tracer.Start(m.ctx, "battle.end")
	span.SetAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.Int("turns", m.sess.Turn),
	)
	span.End()

	m.setPhase(PhaseBattleOver)
	if outcome != OutcomeForfeit {
		m.sink.BattleEnded(m.summary)
	}
}

// Forfeit abandons the session immediately: the scheduler stops, no further
// mutation happens, and no battle-ended event or rewards are produced.
// Safe to call in any phase; a no-op once the battle is over.
func (m *Machine) Forfeit() {
	if m.phase == PhaseBattleOver {
		return
	}
	m.endBattle(OutcomeForfeit)
}

// --- Player command surface -------------------------------------------------
//
// Each command is valid only in its matching selection sub-state; calls
// outside that state are silently ignored. The UI only presents valid
// choices, so a stray command is a stale frame, not an error.

// BeginPartSelect moves from the action menu to part selection. Ignored when
// the active bot has no usable part.
func (m *Machine) BeginPartSelect() {
	if m.phase != PhaseActionMenu {
		return
	}
	if len(m.activeBotUsableSlots()) == 0 && !m.medaforceAvailable() {
		return
	}
	m.setPhase(PhasePartSelect)
}

// SelectOffensivePart chooses the acting part and moves to target selection.
// Ignored outside part selection or for a slot that is not usable.
func (m *Machine) SelectOffensivePart(slot parts.Slot) {
	if m.phase != PhasePartSelect {
		return
	}
	usable := false
	for _, s := range m.activeBotUsableSlots() {
		if s == slot {
			usable = true
			break
		}
	}
	if !usable {
		return
	}
	m.sel.medaforce = false
	m.sel.slot = slot
	m.sel.hasSlot = true
	m.defaultTarget()
	m.setPhase(PhaseTargetSelect)
}

// SelectMedaforce chooses the medal's strongest technique instead of a part.
// Ignored outside part selection or when the force gauge is not full.
func (m *Machine) SelectMedaforce() {
	if m.phase != PhasePartSelect || !m.medaforceAvailable() {
		return
	}
	m.sel.medaforce = true
	m.sel.hasSlot = true
	m.defaultTarget()
	m.setPhase(PhaseTargetSelect)
}

// SelectTargetCombatant chooses the target by position within the current
// candidate list. Ignored outside target selection or for an out-of-range
// position.
func (m *Machine) SelectTargetCombatant(pos int) {
	if m.phase != PhaseTargetSelect {
		return
	}
	candidates := m.targetCandidates()
	if pos < 0 || pos >= len(candidates) {
		return
	}
	m.sel.target = candidates[pos]
	m.defaultTargetSlot()
}

// SelectTargetPart chooses the targeted part slot on the selected target.
// Ignored outside target selection or for a slot the target does not carry.
func (m *Machine) SelectTargetPart(slot parts.Slot) {
	if m.phase != PhaseTargetSelect {
		return
	}
	target := m.sess.Bot(m.sel.target)
	if target == nil || target.Part(slot) == nil {
		return
	}
	m.sel.targetSlot = slot
}

// ConfirmAction dispatches the selected attack. Ignored outside target
// selection.
func (m *Machine) ConfirmAction() {
	if m.phase != PhaseTargetSelect || !m.sel.hasSlot {
		return
	}
	m.reclampSelection()
	attacker := m.sess.Bot(m.active)
	m.dispatch(DeclaredAction{
		Attacker:   m.active,
		Medaforce:  m.sel.medaforce,
		UseSlot:    m.sel.slot,
		Target:     m.sel.target,
		TargetSlot: m.sel.targetSlot,
		Priority:   DeclarePriority(attacker, m.sel.medaforce),
	})
}

// ConfirmDefend dispatches a defend declaration from the action menu.
func (m *Machine) ConfirmDefend() {
	if m.phase != PhaseActionMenu {
		return
	}
	attacker := m.sess.Bot(m.active)
	m.dispatch(DeclaredAction{
		Attacker: m.active,
		Defend:   true,
		Priority: DeclarePriority(attacker, false),
	})
}

// Back navigates one selection step toward the action menu.
func (m *Machine) Back() {
	switch m.phase {
	case PhaseTargetSelect:
		m.sel.hasSlot = false
		m.sel.medaforce = false
		m.setPhase(PhasePartSelect)
	case PhasePartSelect:
		m.setPhase(PhaseActionMenu)
	}
}

// --- Selection helpers ------------------------------------------------------

func (m *Machine) medaforceAvailable() bool {
	b := m.sess.Bot(m.active)
	return b != nil && b.Medal.ForceReady()
}

// activeBotUsableSlots lists the slots the active bot may act with.
func (m *Machine) activeBotUsableSlots() []parts.Slot {
	b := m.sess.Bot(m.active)
	if b == nil {
		return nil
	}
	return b.UsableParts()
}

// targetCandidates lists the legal target arena indexes for the current
// selection: living allies for a support part, living opponents otherwise.
func (m *Machine) targetCandidates() []int {
	if m.active < 0 {
		return nil
	}
	if !m.sel.medaforce && m.sel.hasSlot {
		b := m.sess.Bot(m.active)
		if p := b.Part(m.sel.slot); p != nil && p.Kind == parts.KindSupport {
			return m.sess.LivingAllies(m.active)
		}
	}
	return m.sess.LivingOpponents(m.active)
}

// defaultTarget points the selection at the first candidate.
func (m *Machine) defaultTarget() {
	candidates := m.targetCandidates()
	if len(candidates) > 0 {
		m.sel.target = candidates[0]
	}
	m.defaultTargetSlot()
}

// defaultTargetSlot points the selection at the target's first equipped slot.
func (m *Machine) defaultTargetSlot() {
	target := m.sess.Bot(m.sel.target)
	if target == nil {
		return
	}
	slots := target.TargetableParts()
	if len(slots) == 0 {
		return
	}
	for _, s := range slots {
		if s == m.sel.targetSlot {
			return // current choice still valid
		}
	}
	m.sel.targetSlot = slots[0]
}

// reclampSelection drags stale selections back into the candidate lists,
// e.g. after the chosen target was knocked out mid-selection.
func (m *Machine) reclampSelection() {
	if m.phase != PhaseTargetSelect {
		return
	}
	candidates := m.targetCandidates()
	valid := false
	for _, c := range candidates {
		if c == m.sel.target {
			valid = true
			break
		}
	}
	if !valid && len(candidates) > 0 {
		m.sel.target = candidates[0]
	}
	m.defaultTargetSlot()
}
