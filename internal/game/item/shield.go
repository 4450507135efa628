package item

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ShieldType distinguishes bucklers from tower shields.
type ShieldType string

const (
	ShieldSmall ShieldType = "small"
	ShieldLarge ShieldType = "large"
)

// BlockDC is the fixed target number a block roll must meet or exceed.
const BlockDC = 12

// ShieldDef defines the static properties of a shield.
type ShieldDef struct {
	Name          string         `yaml:"name"`
	Type          ShieldType     `yaml:"type"`
	BlockModifier int            `yaml:"block_modifier"` // added to the 2d10 block roll
	RangedBonus   int            `yaml:"ranged_bonus"`   // extra block bonus vs ranged attacks
	APImmune      bool           `yaml:"ap_immune"`      // large shields only
	Requirements  map[string]int `yaml:"requirements"`
	Description   string         `yaml:"description"`
}

// MeetsRequirements checks the shield's stat requirement thresholds against
// the bearer's modifiers.
//
// Precondition: modifier must be non-nil.
func (s *ShieldDef) MeetsRequirements(modifier func(stat, skill string) int) bool {
	return meetsRequirements(s.Requirements, modifier)
}

// BlockBonus returns the total modifier added to a 2d10 block roll against
// an attack of the given range class.
func (s *ShieldDef) BlockBonus(ranged bool) int {
	bonus := s.BlockModifier
	if ranged {
		bonus += s.RangedBonus
	}
	return bonus
}

// Validate checks that the ShieldDef satisfies its invariants.
// Precondition: s is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (s *ShieldDef) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch s.Type {
	case ShieldSmall, ShieldLarge:
	default:
		errs = append(errs, fmt.Errorf("type %q is not a valid shield type", s.Type))
	}
	if s.APImmune && s.Type != ShieldLarge {
		errs = append(errs, errors.New("only large shields grant AP immunity"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shield validation failed: %v", errs)
	}
	return nil
}

// LoadShields reads all *.yaml files from dir, parses each as a ShieldDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ShieldDefs or the first encountered error.
func LoadShields(dir string) ([]*ShieldDef, error) {
	var shields []*ShieldDef
	err := loadDir(dir, func(path string, data []byte) error {
		var s ShieldDef
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("LoadShields: cannot parse file %q: %w", path, err)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("LoadShields: invalid shield in %q: %w", path, err)
		}
		shields = append(shields, &s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shields, nil
}
