// Package item provides the immutable weapon, armor, and shield definitions
// for the Avalore combat engine, plus YAML loaders and the built-in catalog.
// Definitions are created once and referenced, never copied or mutated.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RangeClass is a weapon's engagement band.
type RangeClass string

const (
	// RangeMelee engages at up to the weapon's reach (default 1 block).
	RangeMelee RangeClass = "melee"
	// RangeSkirmishing engages at 2 to 8 blocks.
	RangeSkirmishing RangeClass = "skirmishing"
	// RangeRanged engages at 6 to 30 blocks.
	RangeRanged RangeClass = "ranged"
)

// Engagement band limits, in blocks.
const (
	SkirmishMin = 2
	SkirmishMax = 8
	RangedMin   = 6
	RangedMax   = 30
)

// RequirementPenalty is the flat accuracy penalty applied when a wielder does
// not meet a weapon's stat requirements. Unmet requirements never prevent the
// attack, they only make it worse.
const RequirementPenalty = -2

// Weapon traits consumed by attack resolution. Unknown trait strings are
// carried but inert, so content files can tag ahead of the rules.
const (
	// TraitPiercing bypasses armor soak (same effect as the ArmorPiercing flag).
	TraitPiercing = "piercing"
	// TraitGrazing deals full damage on a graze instead of half.
	TraitGrazing = "grazing"
	// TraitUnarmoredBonus adds +1 damage against an unarmored defender.
	TraitUnarmoredBonus = "vs_unarmored_bonus"
	// TraitArmoredBonus adds +2 damage against medium or heavy armor.
	TraitArmoredBonus = "vs_medium_heavy_bonus"
)

// WeaponDef defines the static properties of a weapon.
type WeaponDef struct {
	Name          string         `yaml:"name"`
	Category      string         `yaml:"category"` // lift grouping for two-action weapons
	Damage        int            `yaml:"damage"`
	AccuracyBonus int            `yaml:"accuracy_bonus"`
	ActionCost    int            `yaml:"action_cost"`
	Range         RangeClass     `yaml:"range"`
	Reach         int            `yaml:"reach"` // melee threat range in blocks; 0 means 1
	TwoHanded     bool           `yaml:"two_handed"`
	ArmorPiercing bool           `yaml:"armor_piercing"`
	Traits        []string       `yaml:"traits"`
	Requirements  map[string]int `yaml:"requirements"` // "Stat:Skill" -> minimum modifier
	Description   string         `yaml:"description"`
}

// EffectiveReach returns the melee threat range in blocks (minimum 1).
func (w *WeaponDef) EffectiveReach() int {
	if w.Reach < 1 {
		return 1
	}
	return w.Reach
}

// RequiresLift reports whether the weapon must be readied with a Lift action
// once per scene before its first attack. All two-action weapons require it.
func (w *WeaponDef) RequiresLift() bool { return w.ActionCost >= 2 }

// IsPiercing reports whether attacks with this weapon bypass armor soak.
func (w *WeaponDef) IsPiercing() bool {
	return w.ArmorPiercing || w.HasTrait(TraitPiercing)
}

// HasTrait reports whether the weapon carries the named trait.
func (w *WeaponDef) HasTrait(name string) bool {
	for _, t := range w.Traits {
		if t == name {
			return true
		}
	}
	return false
}

// InRange reports whether a target at the given block distance is inside the
// weapon's engagement band.
//
// Precondition: distance >= 0.
func (w *WeaponDef) InRange(distance int) bool {
	switch w.Range {
	case RangeMelee:
		return distance <= w.EffectiveReach()
	case RangeSkirmishing:
		return distance >= SkirmishMin && distance <= SkirmishMax
	case RangeRanged:
		return distance >= RangedMin && distance <= RangedMax
	default:
		return false
	}
}

// MeetsRequirements checks the weapon's stat requirement thresholds against
// the wielder's modifiers. modifier takes a stat and skill name and returns
// the combined value.
//
// Precondition: modifier must be non-nil.
// Postcondition: Returns true iff every "Stat:Skill" threshold is met.
func (w *WeaponDef) MeetsRequirements(modifier func(stat, skill string) int) bool {
	return meetsRequirements(w.Requirements, modifier)
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if w.ActionCost < 1 {
		errs = append(errs, errors.New("action_cost must be >= 1"))
	}
	switch w.Range {
	case RangeMelee, RangeSkirmishing, RangeRanged:
	default:
		errs = append(errs, fmt.Errorf("range %q is not a valid range class", w.Range))
	}
	if w.RequiresLift() && w.Category == "" {
		errs = append(errs, errors.New("two-action weapons need a category for lift tracking"))
	}
	for req := range w.Requirements {
		if !strings.Contains(req, ":") {
			errs = append(errs, fmt.Errorf("requirement key %q must be \"Stat:Skill\"", req))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// meetsRequirements evaluates "Stat:Skill" -> minimum threshold maps.
func meetsRequirements(reqs map[string]int, modifier func(stat, skill string) int) bool {
	for req, min := range reqs {
		parts := strings.SplitN(req, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if modifier(parts[0], parts[1]) < min {
			return false
		}
	}
	return true
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	var weapons []*WeaponDef
	err := loadDir(dir, func(path string, data []byte) error {
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return weapons, nil
}

// loadDir invokes fn for every *.yaml / *.yml file in dir.
func loadDir(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("item: cannot read directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("item: cannot read file %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
