package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/participant"
	"github.com/avalore-rpg/avasim/internal/game/spell"
)

// CastResult is the structured outcome of one spellcast.
type CastResult struct {
	Outcome  string
	CastRoll dice.Check
	// Damage and Healing are the amounts actually applied to the target.
	Damage  int
	Healing int
	// Overcast is true when the cast was attempted with insufficient anima.
	Overcast bool
	// SeverityRoll and Consequence are set on an overcast failure.
	SeverityRoll *dice.RollResult
	Consequence  string
}

// PerformCastSpell resolves a named spell from the caster against the
// target. Casting with anima below the spell's cost is an overcast: allowed
// once per scene, and a failed check then incapacitates the caster with a
// 1d6 severity consequence instead of the normal miscast penalty.
func (e *Engine) PerformCastSpell(casterID uuid.UUID, spellName string, targetID uuid.UUID) (*CastResult, error) {
	if err := e.requireInProgress(); err != nil {
		return nil, err
	}
	caster, err := e.find(casterID)
	if err != nil {
		return nil, err
	}
	target, err := e.find(targetID)
	if err != nil {
		return nil, err
	}
	def, ok := e.spells.Get(spellName)
	if !ok {
		return nil, fmt.Errorf("unknown spell %q: %w", spellName, ErrValidation)
	}
	if !caster.Alive() {
		return nil, fmt.Errorf("%s cannot act: %w", caster.Name, ErrValidation)
	}
	if !target.Alive() {
		return nil, fmt.Errorf("%s is already down: %w", target.Name, ErrValidation)
	}
	distance := grid.Distance(caster.Position, target.Position)
	if !def.InRange(distance) {
		return nil, fmt.Errorf("%s is %d blocks away, %s reaches %d: %w",
			target.Name, distance, def.Name, def.RangeBlocks, ErrValidation)
	}
	overcast := caster.Anima < def.AnimaCost
	if overcast && caster.OvercastUsed() {
		return nil, fmt.Errorf("%s has already overcast this scene: %w", caster.Name, ErrResourceExhausted)
	}
	if overcast && def.AnimaCost > caster.MaxAnima {
		return nil, fmt.Errorf("%s costs %d anima, beyond %s's maximum of %d: %w",
			def.Name, def.AnimaCost, caster.Name, caster.MaxAnima, ErrValidation)
	}
	if caster.Actions() < def.ActionCost {
		return nil, fmt.Errorf("casting %s needs %d actions, %d remaining: %w",
			def.Name, def.ActionCost, caster.Actions(), participant.ErrInsufficientActions)
	}
	if err := caster.ConsumeActions(def.ActionCost); err != nil {
		return nil, err
	}
	if overcast {
		caster.MarkOvercast()
	}

	check := e.roller.Check(caster.Modifier("Harmony", "Arcana"))
	result := &CastResult{CastRoll: check, Overcast: overcast}
	entry := Entry{
		Actor:  caster.Name,
		Action: ActionCast,
		Target: target.Name,
		Rolls:  []dice.RollResult{check.Result()},
		Modifiers: map[string]int{
			"harmony_arcana": caster.Modifier("Harmony", "Arcana"),
		},
		Detail: def.Name,
	}

	switch {
	case check.Total() >= spell.CastingDC:
		result.Outcome = OutcomeCast
		if def.Damage > 0 {
			// Spell damage bypasses armor soak.
			result.Damage = target.ApplyDamage(def.Damage)
			if target.Eliminated() {
				e.eliminate(target)
			}
		}
		if def.Healing > 0 {
			result.Healing = target.Heal(def.Healing)
		}
		caster.SpendAnima(def.AnimaCost)

	case !overcast:
		// Miscast: half cost burned, no effect.
		result.Outcome = OutcomeMiscast
		caster.SpendAnima(def.AnimaCost / 2)

	default:
		// Overcast failure: the caster is incapacitated; severity is
		// interpreted by the injectable policy.
		result.Outcome = OutcomeOvercastFailure
		severity, rollErr := e.roller.RollExpr("1d6")
		if rollErr == nil {
			result.SeverityRoll = &severity
			entry.Rolls = append(entry.Rolls, severity)
			result.Consequence = e.overcast.Consequence(severity.Total())
		}
		caster.SpendAnima(caster.Anima)
		caster.ApplyDamage(caster.HP)
		if caster.Eliminated() {
			e.eliminate(caster)
		}
		entry.Detail = fmt.Sprintf("%s: %s", def.Name, result.Consequence)
	}

	entry.Outcome = result.Outcome
	entry.Damage = result.Damage
	e.appendLog(entry)
	e.checkEnd()
	return result, nil
}
