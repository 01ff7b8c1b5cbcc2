// Package squad loads persistent squad rosters and bridges them into
// battle-scoped bots: Materialize builds the bots a session consumes,
// CopyBack writes surviving durability and earned medal experience to the
// roster after a completed battle.
package squad

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avery-kellough/scrapforce/internal/game/bot"
	"github.com/avery-kellough/scrapforce/internal/game/loot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
)

// MedalSpec is the persistent slice of a medal: its identity and the
// experience it keeps across battles.
type MedalSpec struct {
	Name       string `yaml:"name"`
	Experience int    `yaml:"experience"`
}

// Loadout names one bot's equipment by part template ID, plus the carried
// battle wear per slot.
type Loadout struct {
	Name  string    `yaml:"name"`
	Medal MedalSpec `yaml:"medal"`

	Head     string `yaml:"head"`
	RightArm string `yaml:"right_arm"`
	LeftArm  string `yaml:"left_arm"`
	Legs     string `yaml:"legs"`

	// Wear maps slot name to durability lost, carried between battles
	// until the loadout is repaired. Destroyed slots carry full wear.
	Wear map[string]int `yaml:"wear,omitempty"`
}

// Roster is the persistent squad file.
type Roster struct {
	Bots []Loadout `yaml:"bots"`
}

// slotIDs returns the loadout's template IDs in canonical slot order.
func (l *Loadout) slotIDs() [4]string {
	return [4]string{l.Head, l.RightArm, l.LeftArm, l.Legs}
}

var slotLabels = [4]string{"head", "right_arm", "left_arm", "legs"}

// Load reads a roster YAML file.
//
// Precondition: path must be a readable YAML file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	return &r, nil
}

// Save writes the roster back to path.
func (r *Roster) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing roster %s: %w", path, err)
	}
	return nil
}

// Validate checks the roster against the part catalog: every referenced
// template must exist and occupy the slot it is equipped into.
func (r *Roster) Validate(catalog *parts.Catalog) error {
	if len(r.Bots) == 0 {
		return fmt.Errorf("roster: must contain at least one bot")
	}
	for i, l := range r.Bots {
		if l.Name == "" {
			return fmt.Errorf("roster: bot[%d] must have a name", i)
		}
		if l.Medal.Name == "" {
			return fmt.Errorf("roster: bot %q must have a medal", l.Name)
		}
		for s, id := range l.slotIDs() {
			if id == "" {
				continue
			}
			tpl, ok := catalog.Lookup(id)
			if !ok {
				return fmt.Errorf("roster: bot %q references unknown part %q", l.Name, id)
			}
			if tpl.Slot != slotLabels[s] {
				return fmt.Errorf("roster: bot %q equips %q (a %s part) into the %s slot",
					l.Name, id, tpl.Slot, slotLabels[s])
			}
		}
	}
	return nil
}

// Materialize builds battle-scoped bots from the roster: parts instantiated
// fresh from the catalog, carried wear applied, medal experience restored.
//
// Precondition: Validate(catalog) has passed.
func (r *Roster) Materialize(catalog *parts.Catalog, owner bot.Owner) ([]*bot.Bot, error) {
	bots := make([]*bot.Bot, 0, len(r.Bots))
	for _, l := range r.Bots {
		var equipped []*parts.Part
		for s, id := range l.slotIDs() {
			if id == "" {
				continue
			}
			p, err := catalog.Instantiate(id)
			if err != nil {
				return nil, fmt.Errorf("roster: bot %q: %w", l.Name, err)
			}
			if wear := l.Wear[slotLabels[s]]; wear > 0 {
				p.ApplyDamage(wear)
			}
			equipped = append(equipped, p)
		}
		medal := &bot.Medal{Name: l.Medal.Name}
		medal.GainExperience(l.Medal.Experience)
		b := bot.New(l.Name, owner, medal, equipped)
		if b.KnockedOut() {
			return nil, fmt.Errorf("roster: bot %q is too worn to fight; repair it first", l.Name)
		}
		bots = append(bots, b)
	}
	return bots, nil
}

// CopyBack writes the battle's surviving state into the roster: per-slot
// durability wear and each medal's experience, plus the reward experience
// split evenly across the squad. Call it once, after a win or loss — a
// forfeited battle is discarded and must not be copied back.
//
// Precondition: bots are the bots Materialize produced, in roster order.
func (r *Roster) CopyBack(bots []*bot.Bot, rewards *loot.Rewards) error {
	if len(bots) != len(r.Bots) {
		return fmt.Errorf("roster: copy-back got %d bots for %d loadouts", len(bots), len(r.Bots))
	}
	share := 0
	if rewards != nil && len(bots) > 0 {
		share = rewards.MedalExperience / len(bots)
	}
	for i, b := range bots {
		l := &r.Bots[i]
		if b.Name != l.Name {
			return fmt.Errorf("roster: copy-back bot %q does not match loadout %q", b.Name, l.Name)
		}
		if l.Wear == nil {
			l.Wear = make(map[string]int)
		}
		for s, slot := range parts.AllSlots {
			p := b.Part(slot)
			if p == nil {
				continue
			}
			wear := p.MaxDurability - p.Durability
			if wear > 0 {
				l.Wear[slotLabels[s]] = wear
			} else {
				delete(l.Wear, slotLabels[s])
			}
		}
		b.Medal.GainExperience(share)
		l.Medal.Experience = b.Medal.Experience
	}
	return nil
}

// Repair clears all carried wear, returning every loadout to full
// durability.
func (r *Roster) Repair() {
	for i := range r.Bots {
		r.Bots[i].Wear = nil
	}
}
