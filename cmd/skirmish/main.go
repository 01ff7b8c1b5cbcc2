// Package main provides the skirmish binary: a headless auto-battle
// simulator that wires the full engine — config, catalog, roster, foundry,
// AI, and the battle machine — and plays both sides to completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/avery-kellough/scrapforce/internal/config"
	"github.com/avery-kellough/scrapforce/internal/game/ai"
	"github.com/avery-kellough/scrapforce/internal/game/battle"
	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/foundry"
	"github.com/avery-kellough/scrapforce/internal/game/loot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
	"github.com/avery-kellough/scrapforce/internal/game/squad"
	"github.com/avery-kellough/scrapforce/internal/observability"
	"github.com/avery-kellough/scrapforce/internal/scripting"
	"github.com/avery-kellough/scrapforce/internal/server"
	"github.com/avery-kellough/scrapforce/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	partsDir := flag.String("parts", "content/parts", "path to part template YAML directory")
	rosterPath := flag.String("roster", "content/bots/roster.yaml", "path to the player squad roster")
	lootPath := flag.String("loot", "content/loot/tier1.yaml", "path to the loot table; empty = no rewards")
	aiDir := flag.String("ai-scripts", "content/ai", "path to Lua personality scripts; empty = built-ins only")
	strategy := flag.String("strategy", "finisher", "rival strategy: finisher, breaker, wildcard, or a Lua personality name")
	difficulty := flag.Int("difficulty", 1, "rival difficulty tier")
	rivalCount := flag.Int("rivals", 0, "rival squad size; 0 = match the player squad")
	seed := flag.Int64("seed", 0, "deterministic battle seed; 0 = crypto randomness")
	trace := flag.Bool("trace", false, "export OTLP spans")
	saveRoster := flag.Bool("save", false, "copy surviving state back into the roster file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	tracer := telemetry.NoopTracer()
	if *trace {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Fatal("initializing telemetry", zap.Error(err))
		}
		defer shutdown(ctx)
		tracer = telemetry.Tracer("skirmish")
	}

	var src dice.Source
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
		logger.Info("seeded battle", zap.Int64("seed", *seed))
	} else {
		src = dice.NewCryptoSource()
	}
	src = dice.NewLoggedSource(src, logger)

	catalog, err := parts.LoadCatalogFromDir(*partsDir)
	if err != nil {
		logger.Fatal("loading part catalog", zap.Error(err))
	}
	logger.Info("part catalog loaded", zap.Int("templates", len(catalog.IDs())))

	roster, err := squad.Load(*rosterPath)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}
	if err := roster.Validate(catalog); err != nil {
		logger.Fatal("validating roster", zap.Error(err))
	}
	players, err := roster.Materialize(catalog, bot.OwnerPlayer)
	if err != nil {
		logger.Fatal("materializing player squad", zap.Error(err))
	}

	gen, err := foundry.New(catalog, src, logger)
	if err != nil {
		logger.Fatal("creating foundry", zap.Error(err))
	}
	size := *rivalCount
	if size == 0 {
		size = len(players)
	}
	rivals, err := gen.Generate(size, *difficulty)
	if err != nil {
		logger.Fatal("forging rival squad", zap.Error(err))
	}

	synth, scripts, err := buildSynthesizer(*strategy, *aiDir, src, cfg.Balance, logger)
	if err != nil {
		logger.Fatal("building synthesizer", zap.Error(err))
	}
	if scripts != nil {
		defer scripts.Close()
	}

	var table *loot.Table
	if *lootPath != "" {
		table, err = loot.LoadTable(*lootPath)
		if err != nil {
			logger.Fatal("loading loot table", zap.Error(err))
		}
	}

	sess, err := battle.NewSession(players, rivals)
	if err != nil {
		logger.Fatal("building session", zap.Error(err))
	}
	machine, err := battle.NewMachine(battle.MachineParams{
		Session: sess,
		Synth:   synth,
		Source:  src,
		Battle:  cfg.Battle,
		Balance: cfg.Balance,
		Logger:  logger,
		Tracer:  tracer,
		Sink:    battle.LogSink{Logger: logger},
		Loot:    table,
		Context: ctx,
	})
	if err != nil {
		logger.Fatal("building machine", zap.Error(err))
	}

	driver := newDriver(machine, synth, cfg.Battle.TickInterval, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("battle", driver)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("skirmish failed", zap.Error(err))
		os.Exit(1)
	}

	summary, ok := machine.Summary()
	if !ok {
		logger.Warn("battle interrupted before completion")
		return
	}
	logger.Info("skirmish complete",
		zap.String("outcome", summary.Outcome.String()),
		zap.Int("turns", summary.Turns),
	)

	if *saveRoster && summary.Outcome != battle.OutcomeForfeit {
		if err := roster.CopyBack(players, summary.Rewards); err != nil {
			logger.Fatal("copying battle state back", zap.Error(err))
		}
		if err := roster.Save(*rosterPath); err != nil {
			logger.Fatal("saving roster", zap.Error(err))
		}
		logger.Info("roster updated", zap.String("path", *rosterPath))
	}
}

// buildSynthesizer resolves the strategy flag: a built-in name, or a Lua
// personality loaded from the script directory.
func buildSynthesizer(name, aiDir string, src dice.Source, bal config.BalanceConfig, logger *zap.Logger) (*ai.Synthesizer, *scripting.Manager, error) {
	switch name {
	case "finisher":
		return ai.New(ai.Finisher{}, src, bal, logger), nil, nil
	case "breaker":
		return ai.New(ai.Breaker{}, src, bal, logger), nil, nil
	case "wildcard":
		return ai.New(ai.Wildcard{}, src, bal, logger), nil, nil
	}
	if aiDir == "" {
		return nil, nil, fmt.Errorf("unknown strategy %q and no script directory to search", name)
	}
	mgr := scripting.NewManager(logger)
	if err := mgr.LoadDir(aiDir, scripting.DefaultOpcodeBudget); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	found := false
	for _, p := range mgr.Personalities() {
		if p == name {
			found = true
			break
		}
	}
	if !found {
		mgr.Close()
		return nil, nil, fmt.Errorf("no personality %q in %s (have %v)", name, aiDir, mgr.Personalities())
	}
	return ai.New(ai.NewLuaStrategy(mgr, name), src, bal, logger), mgr, nil
}

// driver ticks the machine at the configured interval and auto-plays the
// player side with the same synthesizer the rivals use.
type driver struct {
	machine  *battle.Machine
	synth    *ai.Synthesizer
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
}

func newDriver(m *battle.Machine, synth *ai.Synthesizer, interval time.Duration, logger *zap.Logger) *driver {
	return &driver{
		machine:  m,
		synth:    synth,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start runs the tick loop until the battle ends or Stop is called.
func (d *driver) Start() error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			d.machine.Forfeit()
			return nil
		case <-ticker.C:
			d.machine.Tick(d.interval)
			if d.machine.Phase() == battle.PhaseActionMenu {
				d.autoplay()
			}
			if d.machine.Phase() == battle.PhaseBattleOver {
				return nil
			}
		}
	}
}

// Stop forfeits the battle and ends the tick loop.
func (d *driver) Stop() {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
}

// autoplay converts the synthesizer's declaration for the active player bot
// into the machine's command surface.
func (d *driver) autoplay() {
	sess := d.machine.Session()
	active := d.machine.ActiveIndex()
	if active < 0 {
		return
	}
	a := d.synth.Synthesize(sess, active)
	if a.Defend {
		d.machine.ConfirmDefend()
		return
	}

	d.machine.BeginPartSelect()
	if a.Medaforce {
		d.machine.SelectMedaforce()
	} else {
		d.machine.SelectOffensivePart(a.UseSlot)
	}
	for pos, idx := range sess.LivingOpponents(active) {
		if idx == a.Target {
			d.machine.SelectTargetCombatant(pos)
			break
		}
	}
	d.machine.SelectTargetPart(a.TargetSlot)
	d.machine.ConfirmAction()

	// A declaration the machine refused (stale selection state) falls back
	// to defend so the battle cannot stall.
	switch d.machine.Phase() {
	case battle.PhaseActionMenu, battle.PhasePartSelect, battle.PhaseTargetSelect:
		d.logger.Warn("autoplay declaration rejected, defending",
			zap.String("bot", sess.Bot(active).Name),
		)
		d.machine.Back()
		d.machine.Back()
		d.machine.ConfirmDefend()
	}
}
