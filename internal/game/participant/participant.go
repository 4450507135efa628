package participant

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/item"
)

// Sentinel errors for action-economy violations. Callers discriminate with
// errors.Is.
var (
	// ErrInsufficientActions is returned when an action counter is empty.
	ErrInsufficientActions = errors.New("insufficient actions")
	// ErrStanceConflict is returned when evading and blocking would both be
	// active at once.
	ErrStanceConflict = errors.New("stance conflict")
	// ErrFeatExhausted is returned when a once-per-turn or once-per-scene
	// feat is used again within its window.
	ErrFeatExhausted = errors.New("feat exhausted")
)

// ActionKind selects which per-turn action counter an action draws from.
type ActionKind string

const (
	ActionStandard ActionKind = "standard"
	ActionLimited  ActionKind = "limited"
)

// Stance is a transient defensive posture. Evading and blocking are mutually
// exclusive; either may be set and later cleared within the same turn.
type Stance string

const (
	StanceNone     Stance = "none"
	StanceEvading  Stance = "evading"
	StanceBlocking Stance = "blocking"
)

// Movement constants, in blocks.
const (
	// BaseMovement is the per-turn movement budget before armor penalties.
	BaseMovement = 5
	// DashBlocks is the extra movement granted by a Dash action.
	DashBlocks = 4
	// StandardActionsPerTurn is the per-turn standard action budget.
	StandardActionsPerTurn = 2
	// LimitedActionsPerTurn is the per-turn limited action budget.
	LimitedActionsPerTurn = 1
)

// Participant is the mutable state of one combatant. It is owned by a single
// combat session and never shared across sessions or goroutines.
type Participant struct {
	ID   uuid.UUID
	Name string
	Side string

	Attributes *Attributes

	MaxHP    int
	HP       int
	MaxAnima int
	Anima    int

	Position grid.Position

	MainWeapon    *item.WeaponDef
	OffhandWeapon *item.WeaponDef
	Armor         *item.ArmorDef
	Shield        *item.ShieldDef

	feats map[string]*feat.Def

	// Per-turn state, restored by ResetTurn.
	actions      int
	limited      int
	stance       Stance
	movement     int
	hitsOnTarget map[uuid.UUID]int
	turnFeatUses map[string]int

	// Per-scene state.
	turnsTaken       int
	deathSavePending bool
	deathSaveUsed    bool
	overcastUsed     bool
	eliminated       bool
	lifted           map[string]bool
	sceneFeatUses    map[string]int
}

// New creates a Participant with a fresh ID, full pools, and zeroed per-turn
// state. ResetTurn (or the engine's turn start) must run before it acts.
//
// Precondition: maxHP >= 1, maxAnima >= 0.
func New(name, side string, attrs *Attributes, maxHP, maxAnima int) *Participant {
	if attrs == nil {
		attrs = NewAttributes()
	}
	return &Participant{
		ID:            uuid.New(),
		Name:          name,
		Side:          side,
		Attributes:    attrs,
		MaxHP:         maxHP,
		HP:            maxHP,
		MaxAnima:      maxAnima,
		Anima:         maxAnima,
		stance:        StanceNone,
		feats:         make(map[string]*feat.Def),
		hitsOnTarget:  make(map[uuid.UUID]int),
		turnFeatUses:  make(map[string]int),
		lifted:        make(map[string]bool),
		sceneFeatUses: make(map[string]int),
	}
}

// Modifier returns the combined check modifier for a stat/skill pair.
func (p *Participant) Modifier(stat, skill string) int {
	return p.Attributes.Modifier(stat, skill)
}

// --- Feats ---

// AddFeat grants the participant a feat.
// Precondition: def is non-nil and validated.
func (p *Participant) AddFeat(def *feat.Def) {
	p.feats[def.ID] = def
}

// HasFeat reports whether the participant holds the feat with the given ID.
func (p *Participant) HasFeat(id string) bool {
	_, ok := p.feats[id]
	return ok
}

// Feats returns a snapshot slice of the participant's feat definitions.
func (p *Participant) Feats() []*feat.Def {
	out := make([]*feat.Def, 0, len(p.feats))
	for _, d := range p.feats {
		out = append(out, d)
	}
	return out
}

// FeatContext builds the base evaluation context for this participant's
// feats. The engine fills in attack-specific fields on top.
func (p *Participant) FeatContext() feat.Context {
	return feat.Context{
		SingleWielding: p.SingleWielding(),
		HeavyArmor:     p.Armor != nil && p.Armor.Tier == item.TierHeavy,
		HasFeat:        p.HasFeat,
		Modifier:       p.Modifier,
	}
}

// UseFeat enforces a feat's usage constraint and records the use.
// Postcondition: returns ErrFeatExhausted (wrapped) and records nothing when
// the constraint window is already spent.
func (p *Participant) UseFeat(def *feat.Def) error {
	switch def.Constraint {
	case feat.ConstraintOncePerTurn:
		if p.turnFeatUses[def.ID] > 0 {
			return fmt.Errorf("%s already used this turn: %w", def.Name, ErrFeatExhausted)
		}
	case feat.ConstraintOncePerScene:
		if p.sceneFeatUses[def.ID] > 0 {
			return fmt.Errorf("%s already used this scene: %w", def.Name, ErrFeatExhausted)
		}
	}
	p.turnFeatUses[def.ID]++
	p.sceneFeatUses[def.ID]++
	return nil
}

// --- Action economy ---

// Actions returns the remaining standard actions this turn.
func (p *Participant) Actions() int { return p.actions }

// LimitedActions returns the remaining limited actions this turn.
func (p *Participant) LimitedActions() int { return p.limited }

// ConsumeAction spends one action of the given kind.
// Postcondition: returns ErrInsufficientActions (wrapped) and leaves the
// counter unchanged when it is already 0.
func (p *Participant) ConsumeAction(kind ActionKind) error {
	switch kind {
	case ActionStandard:
		if p.actions <= 0 {
			return fmt.Errorf("no standard actions remaining: %w", ErrInsufficientActions)
		}
		p.actions--
	case ActionLimited:
		if p.limited <= 0 {
			return fmt.Errorf("no limited actions remaining: %w", ErrInsufficientActions)
		}
		p.limited--
	default:
		return fmt.Errorf("unknown action kind %q", kind)
	}
	return nil
}

// ConsumeActions spends n standard actions, all or nothing.
func (p *Participant) ConsumeActions(n int) error {
	if p.actions < n {
		return fmt.Errorf("need %d standard actions, have %d: %w", n, p.actions, ErrInsufficientActions)
	}
	p.actions -= n
	return nil
}

// Stance returns the current defensive stance.
func (p *Participant) Stance() Stance { return p.stance }

// SetStance sets or clears the defensive stance. Switching directly between
// evading and blocking is a conflict; the caller must pass StanceNone first.
// Postcondition: on ErrStanceConflict the prior stance is unchanged.
func (p *Participant) SetStance(s Stance) error {
	switch s {
	case StanceNone:
		p.stance = StanceNone
		return nil
	case StanceEvading, StanceBlocking:
		if p.stance != StanceNone && p.stance != s {
			return fmt.Errorf("already %s: %w", p.stance, ErrStanceConflict)
		}
		p.stance = s
		return nil
	default:
		return fmt.Errorf("unknown stance %q", s)
	}
}

// IsEvading reports whether the evading stance is active.
func (p *Participant) IsEvading() bool { return p.stance == StanceEvading }

// IsBlocking reports whether the blocking stance is active.
func (p *Participant) IsBlocking() bool { return p.stance == StanceBlocking }

// StartTurn begins a new turn for the participant: it advances the turn
// count and restores the per-turn budgets.
func (p *Participant) StartTurn() {
	p.turnsTaken++
	p.ResetTurn()
}

// ResetTurn restores the per-turn state: standard actions (2, plus any
// first-turn feat bonus), limited actions (1), stance cleared, movement
// budget recomputed, per-turn counters cleared.
//
// Postcondition: idempotent; repeated calls within the same turn yield the
// same state.
func (p *Participant) ResetTurn() {
	ctx := p.FeatContext()
	ctx.FirstTurn = p.turnsTaken <= 1
	p.actions = StandardActionsPerTurn + feat.Bonus(p.Feats(), feat.TriggerTurnStartActions, ctx)
	p.limited = LimitedActionsPerTurn
	p.stance = StanceNone
	p.movement = p.movementBudget()
	p.hitsOnTarget = make(map[uuid.UUID]int)
	p.turnFeatUses = make(map[string]int)
}

func (p *Participant) movementBudget() int {
	budget := BaseMovement
	if p.Armor != nil {
		budget += p.Armor.MovementPenaltyFor(p.Modifier)
	}
	if budget < 0 {
		budget = 0
	}
	return budget
}

// --- Movement ---

// Movement returns the remaining movement budget in blocks.
func (p *Participant) Movement() int { return p.movement }

// AddMovement extends the movement budget (Dash).
// Precondition: blocks >= 0.
func (p *Participant) AddMovement(blocks int) { p.movement += blocks }

// SpendMovement deducts blocks from the budget, reporting false (and
// spending nothing) when the budget is insufficient.
func (p *Participant) SpendMovement(blocks int) bool {
	if blocks > p.movement {
		return false
	}
	p.movement -= blocks
	return true
}

// --- Equipment ---

// SingleWielding reports whether the participant wields exactly one
// one-handed weapon with no off-hand weapon and no shield.
func (p *Participant) SingleWielding() bool {
	return p.MainWeapon != nil && !p.MainWeapon.TwoHanded &&
		p.OffhandWeapon == nil && p.Shield == nil
}

// WeaponPenalty returns the accuracy penalty for wielding w: 0 when the
// participant meets the weapon's requirements, otherwise the fixed -2.
// Unmet requirements never prevent the attack.
func (p *Participant) WeaponPenalty(w *item.WeaponDef) int {
	if w.MeetsRequirements(p.Modifier) {
		return 0
	}
	return item.RequirementPenalty
}

// Lifted reports whether the named weapon category has been readied this
// scene.
func (p *Participant) Lifted(category string) bool { return p.lifted[category] }

// MarkLifted records a completed Lift action for a weapon category. The flag
// persists for the rest of the scene.
func (p *Participant) MarkLifted(category string) { p.lifted[category] = true }

// --- Health, anima, elimination ---

// ApplyDamage reduces HP by amount, clamping at 0, and returns the damage
// actually applied. Reaching 0 HP marks a pending death save if the
// once-per-scene save is still available; otherwise the participant is
// eliminated outright.
//
// Precondition: amount >= 0.
func (p *Participant) ApplyDamage(amount int) int {
	applied := amount
	if applied > p.HP {
		applied = p.HP
	}
	p.HP -= applied
	if p.HP == 0 && applied > 0 {
		if p.deathSaveUsed {
			p.eliminated = true
		} else {
			p.deathSavePending = true
		}
	}
	return applied
}

// Heal restores HP, clamping at MaxHP, and returns the amount actually
// restored. Healing above 0 HP clears a pending death save.
//
// Precondition: amount >= 0.
func (p *Participant) Heal(amount int) int {
	restored := amount
	if p.HP+restored > p.MaxHP {
		restored = p.MaxHP - p.HP
	}
	p.HP += restored
	if p.HP > 0 {
		p.deathSavePending = false
	}
	return restored
}

// SpendAnima deducts cost from the anima pool, clamping at 0, and returns
// the amount actually spent.
//
// Precondition: cost >= 0.
func (p *Participant) SpendAnima(cost int) int {
	spent := cost
	if spent > p.Anima {
		spent = p.Anima
	}
	p.Anima -= spent
	return spent
}

// DeathSavePending reports whether the participant owes a death save.
func (p *Participant) DeathSavePending() bool { return p.deathSavePending }

// DeathSaveUsed reports whether the once-per-scene death save is spent.
func (p *Participant) DeathSaveUsed() bool { return p.deathSaveUsed }

// ResolveDeathSave records the outcome of the death save. Success restores
// the participant to 1 HP; failure eliminates them. Either way the
// once-per-scene save is spent.
//
// Precondition: DeathSavePending() is true.
func (p *Participant) ResolveDeathSave(success bool) {
	p.deathSavePending = false
	p.deathSaveUsed = true
	if success {
		p.HP = 1
	} else {
		p.eliminated = true
	}
}

// OvercastUsed reports whether the once-per-scene overcast is spent.
func (p *Participant) OvercastUsed() bool { return p.overcastUsed }

// MarkOvercast records the once-per-scene overcast attempt.
func (p *Participant) MarkOvercast() { p.overcastUsed = true }

// Eliminate removes the participant from the remainder of the combat.
func (p *Participant) Eliminate() { p.eliminated = true }

// Eliminated reports whether the participant has been removed from combat.
func (p *Participant) Eliminated() bool { return p.eliminated }

// Alive reports whether the participant can still take part in the combat:
// not eliminated, and either above 0 HP or owed a death save.
func (p *Participant) Alive() bool {
	if p.eliminated {
		return false
	}
	return p.HP > 0 || p.deathSavePending
}

// RecordHit increments the per-turn hit counter against a target.
func (p *Participant) RecordHit(target uuid.UUID) { p.hitsOnTarget[target]++ }

// HitsOn returns how many attacks the participant has landed on the target
// this turn.
func (p *Participant) HitsOn(target uuid.UUID) int { return p.hitsOnTarget[target] }
