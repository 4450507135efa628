// Package sim assembles combatants from catalog content and drives batch
// combat simulations with a rule-based legal-action picker.
package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/item"
	"github.com/avalore-rpg/avasim/internal/game/participant"
)

// Loadout describes one combatant: identity, attributes, and equipment
// resolved by name against the item catalog and feat registry.
type Loadout struct {
	Name     string         `yaml:"name"`
	Side     string         `yaml:"side"`
	MaxHP    int            `yaml:"max_hp"`
	MaxAnima int            `yaml:"max_anima"`
	Stats    map[string]int `yaml:"stats"`
	// Skills maps "Stat:Skill" to a value, e.g. "Dexterity:Acrobatics": 2.
	Skills  map[string]int `yaml:"skills"`
	Weapon  string         `yaml:"weapon"`
	Offhand string         `yaml:"offhand"`
	Armor   string         `yaml:"armor"`
	Shield  string         `yaml:"shield"`
	Feats   []string       `yaml:"feats"`
	Spells  []string       `yaml:"spells"`
}

// LoadRoster reads a YAML list of loadouts from path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns at least one loadout or a non-nil error.
func LoadRoster(path string) ([]Loadout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: reading roster %q: %w", path, err)
	}
	var roster []Loadout
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("sim: parsing roster %q: %w", path, err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("sim: roster %q is empty", path)
	}
	return roster, nil
}

// DefaultRoster returns a built-in two-side demonstration roster: a
// sword-and-shield fighter against a spear skirmisher backed by a caster.
func DefaultRoster() []Loadout {
	return []Loadout{
		{
			Name: "Aldric", Side: "vanguard", MaxHP: 24, MaxAnima: 2,
			Stats:  map[string]int{"Strength": 2, "Dexterity": 1},
			Skills: map[string]int{"Strength:Athletics": 1, "Dexterity:Acrobatics": 1},
			Weapon: "Arming Sword", Armor: "Medium Armor", Shield: "Small Shield",
			Feats: []string{feat.Shieldmaster, feat.SecondWind},
		},
		{
			Name: "Berrin", Side: "raiders", MaxHP: 20, MaxAnima: 2,
			Stats:  map[string]int{"Dexterity": 2, "Strength": 1},
			Skills: map[string]int{"Dexterity:Acrobatics": 2},
			Weapon: "Spear", Armor: "Light Armor",
			Feats: []string{feat.FirstStrike, feat.Quickfooted},
		},
		{
			Name: "Mira", Side: "raiders", MaxHP: 14, MaxAnima: 8,
			Stats:  map[string]int{"Harmony": 3, "Intelligence": 1},
			Skills: map[string]int{"Harmony:Arcana": 2},
			Weapon: "Arcane Wand",
			Spells: []string{"Force Bolt", "Firebolt"},
		},
	}
}

// Build resolves a loadout into a participant using the given catalogs.
//
// Precondition: items and feats must be non-nil.
// Postcondition: Returns a fully equipped participant or a non-nil error
// naming the unresolved reference.
func Build(l Loadout, items *item.Catalog, feats *feat.Registry) (*participant.Participant, error) {
	if l.Name == "" || l.Side == "" {
		return nil, fmt.Errorf("sim: loadout needs a name and a side")
	}
	if l.MaxHP < 1 {
		return nil, fmt.Errorf("sim: loadout %q needs max_hp >= 1", l.Name)
	}

	attrs := participant.NewAttributes()
	for stat, value := range l.Stats {
		if err := attrs.SetStat(stat, value); err != nil {
			return nil, fmt.Errorf("sim: loadout %q: %w", l.Name, err)
		}
	}
	for key, value := range l.Skills {
		stat, skill, ok := splitSkillKey(key)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: skill key %q must be Stat:Skill", l.Name, key)
		}
		if err := attrs.SetSkill(stat, skill, value); err != nil {
			return nil, fmt.Errorf("sim: loadout %q: %w", l.Name, err)
		}
	}

	p := participant.New(l.Name, l.Side, attrs, l.MaxHP, l.MaxAnima)

	if l.Weapon != "" {
		w, ok := items.Weapon(l.Weapon)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: unknown weapon %q", l.Name, l.Weapon)
		}
		p.MainWeapon = w
	}
	if l.Offhand != "" {
		w, ok := items.Weapon(l.Offhand)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: unknown offhand %q", l.Name, l.Offhand)
		}
		p.OffhandWeapon = w
	}
	if l.Armor != "" {
		a, ok := items.Armor(l.Armor)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: unknown armor %q", l.Name, l.Armor)
		}
		p.Armor = a
	}
	if l.Shield != "" {
		s, ok := items.Shield(l.Shield)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: unknown shield %q", l.Name, l.Shield)
		}
		p.Shield = s
	}
	for _, id := range l.Feats {
		def, ok := feats.Get(id)
		if !ok {
			return nil, fmt.Errorf("sim: loadout %q: unknown feat %q", l.Name, id)
		}
		p.AddFeat(def)
	}
	return p, nil
}

func splitSkillKey(key string) (stat, skill string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:], i > 0 && i < len(key)-1
		}
	}
	return "", "", false
}
