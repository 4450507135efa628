// Package spell provides the spell definitions for the Avalore combat
// engine: anima costs, casting DCs, and effect magnitudes. Casting mechanics
// (the 2d10 check, miscast, and overcast) live in the combat engine; this
// package only describes the spells.
package spell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CastingDC is the fixed target number a casting check must meet or exceed.
const CastingDC = 10

// Def is the static definition of a spell.
type Def struct {
	Name        string `yaml:"name"`
	Discipline  string `yaml:"discipline"` // Force, Ichor, ...
	AnimaCost   int    `yaml:"anima_cost"`
	ActionCost  int    `yaml:"action_cost"`
	Damage      int    `yaml:"damage"`
	Healing     int    `yaml:"healing"`
	RangeBlocks int    `yaml:"range_blocks"` // maximum cast distance; 1 = touch
	Description string `yaml:"description"`
}

// IsHealing reports whether the spell restores hit points rather than
// dealing damage.
func (d *Def) IsHealing() bool { return d.Healing > 0 }

// InRange reports whether a target at the given block distance can be
// affected.
//
// Precondition: distance >= 0.
func (d *Def) InRange(distance int) bool {
	return distance <= d.RangeBlocks
}

// Validate checks that the Def satisfies its invariants.
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.AnimaCost < 0 {
		errs = append(errs, errors.New("anima_cost must be >= 0"))
	}
	if d.ActionCost < 1 {
		errs = append(errs, errors.New("action_cost must be >= 1"))
	}
	if d.Damage < 0 || d.Healing < 0 {
		errs = append(errs, errors.New("damage and healing must be >= 0"))
	}
	if d.Damage > 0 && d.Healing > 0 {
		errs = append(errs, errors.New("a spell deals damage or heals, not both"))
	}
	if d.RangeBlocks < 1 {
		errs = append(errs, errors.New("range_blocks must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell validation failed: %v", errs)
	}
	return nil
}

// Catalog holds all known spell Defs keyed by name.
type Catalog struct {
	defs map[string]*Def
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Def)}
}

// Register adds def to the catalog, overwriting any existing entry with the
// same name.
// Precondition: def must not be nil and def.Name must not be empty.
func (c *Catalog) Register(def *Def) {
	c.defs[def.Name] = def
}

// Get returns the Def for name, or (nil, false) if not found.
func (c *Catalog) Get(name string) (*Def, bool) {
	d, ok := c.defs[name]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (c *Catalog) All() []*Def {
	out := make([]*Def, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// registers it into cat.
// Precondition: dir must be a readable directory; cat must be non-nil.
func LoadDirectory(cat *Catalog, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading spell dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("invalid spell in %q: %w", path, err)
		}
		cat.Register(&def)
	}
	return nil
}

// BuiltinDefs returns the standard Avalore spell definitions.
func BuiltinDefs() []*Def {
	return []*Def{
		{Name: "Force Bolt", Discipline: "Force", AnimaCost: 1, ActionCost: 1,
			Damage: 4, RangeBlocks: 30,
			Description: "A bolt of force energy. 4 damage on a successful cast."},
		{Name: "Firebolt", Discipline: "Force", AnimaCost: 2, ActionCost: 1,
			Damage: 6, RangeBlocks: 30,
			Description: "A bolt of fire. 6 damage on a successful cast."},
		{Name: "Healing Touch", Discipline: "Ichor", AnimaCost: 2, ActionCost: 1,
			Healing: 5, RangeBlocks: 1,
			Description: "Restore 5 hit points to a touched target."},
	}
}

// DefaultCatalog returns a Catalog pre-populated with the built-in spells.
//
// Postcondition: Returns a non-nil Catalog; the built-in definitions are
// always valid.
func DefaultCatalog() *Catalog {
	cat := NewCatalog()
	for _, d := range BuiltinDefs() {
		if err := d.Validate(); err != nil {
			panic("spell: built-in definition invalid: " + err.Error())
		}
		cat.Register(d)
	}
	return cat
}
