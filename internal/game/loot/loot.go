// Package loot — loot table schema and end-of-battle reward generation.
package loot

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/avery-kellough/scrapforce/internal/game/dice"
)

// LoadTable reads and validates a loot table YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading loot table %s: %w", path, err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing loot table %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("loot table %s: %w", path, err)
	}
	return &t, nil
}

// CurrencyDrop defines the range of currency a battle can award.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single part entry in a loot table with a drop chance.
type ItemDrop struct {
	PartID string  `yaml:"part"`
	Chance float64 `yaml:"chance"`
}

// Table defines the possible rewards for winning a battle at one difficulty.
type Table struct {
	// ExperiencePerKnockout is the medal experience awarded per opposing
	// bot knocked out.
	ExperiencePerKnockout int           `yaml:"experience_per_knockout"`
	Currency              *CurrencyDrop `yaml:"currency"`
	Items                 []ItemDrop    `yaml:"items"`
}

// Validate checks that the table satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff all constraints hold; an empty table is valid.
func (t *Table) Validate() error {
	if t.ExperiencePerKnockout < 0 {
		return fmt.Errorf("loot table: experience_per_knockout must be >= 0, got %d", t.ExperiencePerKnockout)
	}
	if t.Currency != nil {
		if t.Currency.Min < 0 {
			return fmt.Errorf("loot table: currency min must be >= 0, got %d", t.Currency.Min)
		}
		if t.Currency.Min > t.Currency.Max {
			return fmt.Errorf("loot table: currency min (%d) must be <= max (%d)", t.Currency.Min, t.Currency.Max)
		}
	}
	for i, item := range t.Items {
		if item.PartID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty part id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
	}
	return nil
}

// Item represents a single dropped part instance in a reward.
type Item struct {
	PartID     string
	InstanceID string
}

// Rewards holds the generated summary for a won battle.
type Rewards struct {
	MedalExperience int
	Currency        int
	Items           []Item
}

// Generate rolls rewards from the table for a battle with the given number
// of knockouts scored against the losing side.
//
// Precondition: t must have passed Validate(); src must be non-nil.
// Postcondition: Currency in [Currency.Min, Currency.Max] when currency is
// set; MedalExperience == knockouts * ExperiencePerKnockout.
func Generate(t Table, knockouts int, src dice.Source) Rewards {
	r := Rewards{MedalExperience: knockouts * t.ExperiencePerKnockout}

	if t.Currency != nil && t.Currency.Max > 0 {
		spread := t.Currency.Max - t.Currency.Min
		r.Currency = t.Currency.Min
		if spread > 0 {
			r.Currency += src.Intn(spread + 1)
		}
	}

	for _, item := range t.Items {
		if dice.Percent(src, item.Chance*100) {
			r.Items = append(r.Items, Item{
				PartID:     item.PartID,
				InstanceID: uuid.New().String(),
			})
		}
	}
	return r
}
