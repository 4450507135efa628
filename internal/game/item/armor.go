package item

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ArmorTier is the weight class of a suit of armor, which determines its
// soak dice and mobility penalties.
type ArmorTier string

const (
	TierNone   ArmorTier = "none"
	TierLight  ArmorTier = "light"
	TierMedium ArmorTier = "medium"
	TierHeavy  ArmorTier = "heavy"
)

// SoakDice returns the damage-reduction dice expression rolled per hit for
// the tier: light 1d2-1, medium 1d3-1, heavy 1d3.
func (t ArmorTier) SoakDice() string {
	switch t {
	case TierLight:
		return "1d2-1"
	case TierMedium:
		return "1d3-1"
	case TierHeavy:
		return "1d3"
	default:
		return ""
	}
}

// ArmorDef defines the static properties of a suit of armor.
type ArmorDef struct {
	Name            string         `yaml:"name"`
	Tier            ArmorTier      `yaml:"tier"`
	EvasionPenalty  int            `yaml:"evasion_penalty"`  // non-positive
	StealthPenalty  int            `yaml:"stealth_penalty"`  // non-positive
	MovementPenalty int            `yaml:"movement_penalty"` // non-positive, blocks per turn
	Requirements    map[string]int `yaml:"requirements"`
	Description     string         `yaml:"description"`
}

// MeetsRequirements checks the armor's stat requirement thresholds against
// the wearer's modifiers.
//
// Precondition: modifier must be non-nil.
func (a *ArmorDef) MeetsRequirements(modifier func(stat, skill string) int) bool {
	return meetsRequirements(a.Requirements, modifier)
}

// MovementPenaltyFor returns the movement penalty in blocks for the given
// wearer. Wearers who miss the armor's stat requirements lose 2 further blocks.
//
// Postcondition: Returns <= 0.
func (a *ArmorDef) MovementPenaltyFor(modifier func(stat, skill string) int) int {
	penalty := a.MovementPenalty
	if !a.MeetsRequirements(modifier) {
		penalty -= 2
	}
	return penalty
}

// Validate checks that the ArmorDef satisfies its invariants.
// Precondition: a is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch a.Tier {
	case TierNone, TierLight, TierMedium, TierHeavy:
	default:
		errs = append(errs, fmt.Errorf("tier %q is not a valid armor tier", a.Tier))
	}
	if a.EvasionPenalty > 0 {
		errs = append(errs, errors.New("evasion_penalty must be <= 0"))
	}
	if a.StealthPenalty > 0 {
		errs = append(errs, errors.New("stealth_penalty must be <= 0"))
	}
	if a.MovementPenalty > 0 {
		errs = append(errs, errors.New("movement_penalty must be <= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// LoadArmors reads all *.yaml files from dir, parses each as an ArmorDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ArmorDefs or the first encountered error.
func LoadArmors(dir string) ([]*ArmorDef, error) {
	var armors []*ArmorDef
	err := loadDir(dir, func(path string, data []byte) error {
		var a ArmorDef
		if err := yaml.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("LoadArmors: cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("LoadArmors: invalid armor in %q: %w", path, err)
		}
		armors = append(armors, &a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return armors, nil
}
