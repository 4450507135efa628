// Package feat provides data-driven combat feat definitions. A feat is a
// bundle of triggered effects rather than code: the combat engine queries the
// holder's feats at each trigger point and sums the applicable magnitudes.
// New feats can be added from YAML without touching engine code.
package feat

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies how a feat is used.
type Kind string

const (
	// KindPassive feats apply automatically whenever their requirements hold.
	KindPassive Kind = "passive"
	// KindActive feats are deliberate actions with an action cost.
	KindActive Kind = "active"
	// KindLimited feats consume the holder's limited action when they fire.
	KindLimited Kind = "limited"
)

// Constraint limits how often a feat may be used.
type Constraint string

const (
	ConstraintNone         Constraint = "none"
	ConstraintOncePerTurn  Constraint = "once_per_turn"
	ConstraintOncePerScene Constraint = "once_per_scene"
)

// Trigger names the engine decision point an effect hooks into.
type Trigger string

const (
	// TriggerInitiative adds to the holder's initiative roll.
	TriggerInitiative Trigger = "initiative"
	// TriggerTurnStartActions grants extra standard actions at turn start.
	TriggerTurnStartActions Trigger = "turn_start_actions"
	// TriggerAttackRoll adds to the holder's outgoing attack rolls.
	TriggerAttackRoll Trigger = "attack_roll"
	// TriggerDamage adds to the holder's outgoing damage after a hit.
	TriggerDamage Trigger = "damage"
	// TriggerEvasionRoll adds to the holder's evasion rolls.
	TriggerEvasionRoll Trigger = "evasion_roll"
	// TriggerBlockRoll adds to the holder's block rolls.
	TriggerBlockRoll Trigger = "block_roll"
	// TriggerIncomingAttackRoll adjusts an attack roll made against the holder.
	TriggerIncomingAttackRoll Trigger = "incoming_attack_roll"
	// TriggerHealSelf restores the holder's hit points when executed.
	TriggerHealSelf Trigger = "heal_self"
)

// Effect is one triggered magnitude within a feat definition. Amount is a
// flat value; AmountStat, when set, names a "Stat:Skill" modifier added on
// top at evaluation time. Requires lists situational requirements that must
// all hold for the effect to apply.
type Effect struct {
	Trigger    Trigger  `yaml:"trigger"`
	Amount     int      `yaml:"amount"`
	AmountStat string   `yaml:"amount_stat"`
	Requires   []string `yaml:"requires"`
}

// Def is the static definition of a feat, loaded from YAML or built in.
type Def struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Kind        Kind       `yaml:"kind"`
	ActionCost  int        `yaml:"action_cost"` // active feats only
	Constraint  Constraint `yaml:"constraint"`
	Description string     `yaml:"description"`
	Effects     []Effect   `yaml:"effects"`
}

// Validate checks that the Def satisfies its invariants.
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Kind {
	case KindPassive, KindActive, KindLimited:
	default:
		errs = append(errs, fmt.Errorf("kind %q is not a valid feat kind", d.Kind))
	}
	switch d.Constraint {
	case "", ConstraintNone, ConstraintOncePerTurn, ConstraintOncePerScene:
	default:
		errs = append(errs, fmt.Errorf("constraint %q is not a valid constraint", d.Constraint))
	}
	if d.Kind == KindActive && d.ActionCost < 1 {
		errs = append(errs, errors.New("active feats need action_cost >= 1"))
	}
	if d.Kind != KindActive && d.ActionCost != 0 {
		errs = append(errs, errors.New("only active feats carry an action_cost"))
	}
	for i, e := range d.Effects {
		if e.Trigger == "" {
			errs = append(errs, fmt.Errorf("effect %d: trigger must not be empty", i))
		}
		if e.AmountStat != "" && !strings.Contains(e.AmountStat, ":") {
			errs = append(errs, fmt.Errorf("effect %d: amount_stat %q must be \"Stat:Skill\"", i, e.AmountStat))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("feat validation failed: %v", errs)
	}
	return nil
}

// Registry holds all known feat Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// registers it into reg (which may already hold the built-in feats).
// Precondition: dir must be a readable directory; reg must be non-nil.
// Postcondition: Returns nil, or an error if any file fails to parse or
// validate.
func LoadDirectory(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading feat dir %q: %w", dir, err)
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
			return fmt.Errorf("invalid feat in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return nil
}
