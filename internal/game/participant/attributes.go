// Package participant holds the mutable per-combatant state: attributes,
// health and anima pools, equipment, feats, and the per-turn / per-scene
// bookkeeping the combat engine enforces its action economy with.
package participant

import "fmt"

// Attribute and skill values are clamped to this range.
const (
	AttributeMin = -3
	AttributeMax = 3
)

// StatSkills maps each base attribute to its three skills.
var StatSkills = map[string][]string{
	"Dexterity":    {"Acrobatics", "Stealth", "Finesse"},
	"Intelligence": {"Healing", "Perception", "Research"},
	"Harmony":      {"Arcana", "Nature", "Belief"},
	"Strength":     {"Athletics", "Fortitude", "Forging"},
}

// Attributes is the four-stat, twelve-skill block of a combatant. Values are
// clamped to [-3, +3] on write; a check modifier is always stat + skill.
type Attributes struct {
	stats  map[string]int
	skills map[string]int // keyed "Stat:Skill"
}

// NewAttributes creates an Attributes block with every stat and skill at 0.
func NewAttributes() *Attributes {
	return &Attributes{
		stats:  make(map[string]int, len(StatSkills)),
		skills: make(map[string]int, 12),
	}
}

func clampAttribute(v int) int {
	if v < AttributeMin {
		return AttributeMin
	}
	if v > AttributeMax {
		return AttributeMax
	}
	return v
}

func validSkill(stat, skill string) bool {
	for _, s := range StatSkills[stat] {
		if s == skill {
			return true
		}
	}
	return false
}

// SetStat sets a base attribute, clamping to [-3, +3].
// Postcondition: returns an error iff stat is not a known attribute name.
func (a *Attributes) SetStat(stat string, value int) error {
	if _, ok := StatSkills[stat]; !ok {
		return fmt.Errorf("unknown attribute %q", stat)
	}
	a.stats[stat] = clampAttribute(value)
	return nil
}

// SetSkill sets a skill under its attribute, clamping to [-3, +3].
// Postcondition: returns an error iff skill does not belong to stat.
func (a *Attributes) SetSkill(stat, skill string, value int) error {
	if !validSkill(stat, skill) {
		return fmt.Errorf("unknown skill %q:%q", stat, skill)
	}
	a.skills[stat+":"+skill] = clampAttribute(value)
	return nil
}

// Stat returns the base attribute value (0 if never set).
func (a *Attributes) Stat(stat string) int {
	return a.stats[stat]
}

// Skill returns the skill value (0 if never set).
func (a *Attributes) Skill(stat, skill string) int {
	return a.skills[stat+":"+skill]
}

// Modifier returns the combined check modifier: stat + skill.
func (a *Attributes) Modifier(stat, skill string) int {
	return a.Stat(stat) + a.Skill(stat, skill)
}
