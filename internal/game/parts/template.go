package parts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable part archetype loaded from YAML.
type Template struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Slot       string `yaml:"slot"`  // "head", "right_arm", "left_arm", "legs"
	Kind       string `yaml:"kind"`  // "none", "ranged", "melee", "support"
	Frame      string `yaml:"frame"` // legs only: "striker", "aerial", "armored"
	Power      int    `yaml:"power"`
	Accuracy   int    `yaml:"accuracy"`
	Speed      int    `yaml:"speed"`
	Evasion    int    `yaml:"evasion"`
	Durability int    `yaml:"durability"`
	Uses       int    `yaml:"uses"` // 0 = unlimited
	Vital      bool   `yaml:"vital"`
}

var slotNames = map[string]Slot{
	"head":      SlotHead,
	"right_arm": SlotRightArm,
	"left_arm":  SlotLeftArm,
	"legs":      SlotLegs,
}

var kindNames = map[string]Kind{
	"none":    KindNone,
	"ranged":  KindRanged,
	"melee":   KindMelee,
	"support": KindSupport,
}

var frameNames = map[string]Frame{
	"striker": FrameStriker,
	"aerial":  FrameAerial,
	"armored": FrameArmored,
}

// Validate checks that the template satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the template can be instantiated; returns an
// error naming the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("part template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("part template %q: name must not be empty", t.ID)
	}
	slot, ok := slotNames[t.Slot]
	if !ok {
		return fmt.Errorf("part template %q: slot must be one of [head, right_arm, left_arm, legs], got %q", t.ID, t.Slot)
	}
	if _, ok := kindNames[t.Kind]; !ok {
		return fmt.Errorf("part template %q: kind must be one of [none, ranged, melee, support], got %q", t.ID, t.Kind)
	}
	if slot == SlotLegs {
		if _, ok := frameNames[t.Frame]; !ok {
			return fmt.Errorf("part template %q: legs parts need a frame of [striker, aerial, armored], got %q", t.ID, t.Frame)
		}
	} else if t.Frame != "" {
		return fmt.Errorf("part template %q: frame is only valid on legs parts", t.ID)
	}
	if t.Durability < 1 {
		return fmt.Errorf("part template %q: durability must be >= 1, got %d", t.ID, t.Durability)
	}
	if t.Power < 0 {
		return fmt.Errorf("part template %q: power must be >= 0, got %d", t.ID, t.Power)
	}
	if t.Accuracy < 0 {
		return fmt.Errorf("part template %q: accuracy must be >= 0, got %d", t.ID, t.Accuracy)
	}
	if t.Uses < 0 {
		return fmt.Errorf("part template %q: uses must be >= 0, got %d", t.ID, t.Uses)
	}
	if t.Vital && slot != SlotHead {
		return fmt.Errorf("part template %q: only head parts may be vital", t.ID)
	}
	return nil
}

// Instantiate builds a fresh battle-scoped Part from the template.
//
// Precondition: t must have passed Validate().
// Postcondition: the returned Part is at full durability and full uses.
func (t *Template) Instantiate() *Part {
	return &Part{
		ID:            t.ID,
		Name:          t.Name,
		Slot:          slotNames[t.Slot],
		Kind:          kindNames[t.Kind],
		Frame:         frameNames[t.Frame],
		Power:         t.Power,
		Accuracy:      t.Accuracy,
		Speed:         t.Speed,
		Evasion:       t.Evasion,
		MaxDurability: t.Durability,
		Durability:    t.Durability,
		UsesMax:       t.Uses,
		UsesLeft:      t.Uses,
		Vital:         t.Vital,
	}
}

// Catalog is an immutable, ID-keyed collection of validated part templates.
type Catalog struct {
	templates map[string]*Template
}

// NewCatalog builds a Catalog from templates, validating each.
//
// Postcondition: Returns an error on the first invalid or duplicate template.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("part template %q: duplicate id", t.ID)
		}
		c.templates[t.ID] = t
	}
	return c, nil
}

// Lookup returns the template with the given ID.
func (c *Catalog) Lookup(id string) (*Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Instantiate looks up id and builds a fresh Part from it.
//
// Postcondition: Returns an error if id is not in the catalog.
func (c *Catalog) Instantiate(id string) (*Part, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("part catalog: unknown part id %q", id)
	}
	return t.Instantiate(), nil
}

// IDs returns all template IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BySlot returns the templates occupying the given slot, sorted by ID.
func (c *Catalog) BySlot(slot Slot) []*Template {
	var out []*Template
	for _, id := range c.IDs() {
		t := c.templates[id]
		if slotNames[t.Slot] == slot {
			out = append(out, t)
		}
	}
	return out
}

// LoadTemplatesFromBytes parses a YAML list of part templates.
//
// Postcondition: every returned template has passed Validate().
func LoadTemplatesFromBytes(data []byte) ([]*Template, error) {
	var templates []*Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing part templates: %w", err)
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// LoadCatalogFromDir reads every *.yaml file under dir into a single Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog of all validated templates, or an error
// naming the offending file.
func LoadCatalogFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading part directory %s: %w", dir, err)
	}
	var all []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		templates, err := LoadTemplatesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, templates...)
	}
	return NewCatalog(all)
}
