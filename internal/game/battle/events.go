package battle

import (
	"go.uber.org/zap"

	"github.com/avery-kellough/scrapforce/internal/game/loot"
)

// Outcome is the terminal result of a session.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeForfeit
)

// String returns the human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeForfeit:
		return "forfeit"
	default:
		return "none"
	}
}

// Summary is the end-of-battle report carried by the battle-ended event.
type Summary struct {
	Outcome Outcome
	Turns   int
	// Rewards is nil on a loss or forfeit.
	Rewards *loot.Rewards
}

// Sink receives the engine's outbound events. Calls are synchronous and
// strictly ordered with resolution order; each event is delivered exactly
// once. Implementations must not call back into the machine.
type Sink interface {
	// ActionResolved is emitted once per resolution, never duplicated,
	// never skipped.
	ActionResolved(ResolvedAction)
	// PhaseChanged is emitted on every state-machine transition.
	PhaseChanged(Phase)
	// BattleEnded is emitted at most once per session, when the battle
	// reaches a win or lose outcome. A forfeited session is discarded
	// without a battle-ended event.
	BattleEnded(Summary)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ActionResolved(ResolvedAction) {}
func (NopSink) PhaseChanged(Phase)            {}
func (NopSink) BattleEnded(Summary)           {}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) ActionResolved(r ResolvedAction) {
	for _, s := range m {
		s.ActionResolved(r)
	}
}

func (m MultiSink) PhaseChanged(p Phase) {
	for _, s := range m {
		s.PhaseChanged(p)
	}
}

func (m MultiSink) BattleEnded(sum Summary) {
	for _, s := range m {
		s.BattleEnded(sum)
	}
}

// LogSink writes every event to a zap logger; the default presentation
// surface of the headless simulator.
type LogSink struct {
	Logger *zap.Logger
}

func (l LogSink) ActionResolved(r ResolvedAction) {
	l.Logger.Info("action resolved",
		zap.String("attacker", r.AttackerName),
		zap.String("target", r.TargetName),
		zap.Bool("hit", r.Hit),
		zap.Bool("critical", r.Critical),
		zap.Int("damage", r.Damage),
		zap.Int("heal", r.HealAmount),
		zap.Bool("part_destroyed", r.PartDestroyed),
		zap.Bool("knockout", r.TargetKnockedOut),
		zap.String("narration", r.Narration),
	)
}

func (l LogSink) PhaseChanged(p Phase) {
	l.Logger.Debug("phase changed", zap.String("phase", p.String()))
}

func (l LogSink) BattleEnded(sum Summary) {
	fields := []zap.Field{
		zap.String("outcome", sum.Outcome.String()),
		zap.Int("turns", sum.Turns),
	}
	if sum.Rewards != nil {
		fields = append(fields,
			zap.Int("currency", sum.Rewards.Currency),
			zap.Int("medal_experience", sum.Rewards.MedalExperience),
			zap.Int("loot_items", len(sum.Rewards.Items)),
		)
	}
	l.Logger.Info("battle ended", fields...)
}
