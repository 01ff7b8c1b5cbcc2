// Package foundry assembles opposing squads from the part catalog. The
// battle core never imports it; the generated bots cross the same
// roster-snapshot boundary a player squad does.
package foundry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/dice"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// MaxDifficulty bounds the generator's scaling.
const MaxDifficulty = 10

// namePool supplies rival bot names; the generator cycles through it with a
// random offset so repeat encounters read differently.
var namePool = []string{
	"Scrapjaw", "Rustfang", "Bolthound", "Gearwolf", "Tinsnipe",
	"Slagbeetle", "Chromeviper", "Ironmoth", "Weldrat", "Sparkmantis",
}

// Generator builds rival squads from a part catalog.
type Generator struct {
	catalog *parts.Catalog
	src     dice.Source
	logger  *zap.Logger
}

// New creates a Generator.
//
// Precondition: catalog and src must be non-nil; the catalog must carry at
// least one template per slot. logger may be nil.
func New(catalog *parts.Catalog, src dice.Source, logger *zap.Logger) (*Generator, error) {
	if catalog == nil || src == nil {
		return nil, fmt.Errorf("foundry: catalog and source are required")
	}
	for _, slot := range parts.AllSlots {
		if len(catalog.BySlot(slot)) == 0 {
			return nil, fmt.Errorf("foundry: catalog has no %s templates", slot)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{catalog: catalog, src: src, logger: logger}, nil
}

// Generate assembles a rival squad of size bots at the given difficulty.
// Difficulty scales part durability and power by 10% per step above 1 and
// seeds each medal with enough experience to unlock stronger medaforce
// techniques at the top tiers.
//
// Precondition: size in [1, 3]; difficulty in [1, MaxDifficulty].
// Postcondition: every returned bot has all four slots equipped and is not
// knocked out.
func (g *Generator) Generate(size, difficulty int) ([]*bot.Bot, error) {
	if size < 1 || size > 3 {
		return nil, fmt.Errorf("foundry: squad size must be in [1, 3], got %d", size)
	}
	if difficulty < 1 || difficulty > MaxDifficulty {
		return nil, fmt.Errorf("foundry: difficulty must be in [1, %d], got %d", MaxDifficulty, difficulty)
	}

	scale := 1.0 + 0.1*float64(difficulty-1)
	nameOffset := g.src.Intn(len(namePool))

	squad := make([]*bot.Bot, 0, size)
	for i := 0; i < size; i++ {
		var equipped []*parts.Part
		for _, slot := range parts.AllSlots {
			p, err := g.roll(slot, scale)
			if err != nil {
				return nil, err
			}
			equipped = append(equipped, p)
		}
		name := namePool[(nameOffset+i)%len(namePool)]
		medal := &bot.Medal{Name: name + " Medal"}
		medal.GainExperience(medalExperience(difficulty))
		b := bot.New(name, bot.OwnerRival, medal, equipped)
		g.logger.Debug("forged rival",
			zap.String("name", name),
			zap.Int("difficulty", difficulty),
			zap.Int("speed", b.EffectiveSpeed()),
		)
		squad = append(squad, b)
	}
	return squad, nil
}

// roll instantiates a random template for slot and applies the stat scale.
func (g *Generator) roll(slot parts.Slot, scale float64) (*parts.Part, error) {
	candidates := g.catalog.BySlot(slot)
	tpl := candidates[g.src.Intn(len(candidates))]
	p, err := g.catalog.Instantiate(tpl.ID)
	if err != nil {
		return nil, fmt.Errorf("foundry: %w", err)
	}
	p.Power = int(float64(p.Power) * scale)
	p.MaxDurability = int(float64(p.MaxDurability) * scale)
	p.Durability = p.MaxDurability
	return p, nil
}

// medalExperience maps difficulty to starting medal experience: tiers 1-3
// stay at level 1, the top tiers reach the stronger medaforce unlocks.
func medalExperience(difficulty int) int {
	switch {
	case difficulty <= 3:
		return 0
	case difficulty <= 6:
		return 250
	default:
		return 900
	}
}
