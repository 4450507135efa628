package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/item"
	"github.com/avalore-rpg/avasim/internal/game/participant"
)

// AttackResult is the structured outcome of one attack resolution.
type AttackResult struct {
	Outcome     string
	Critical    bool
	AttackRoll  dice.Check
	AttackTotal int
	BlockRoll   *dice.Check
	EvasionRoll *dice.Check
	SoakRoll    *dice.RollResult
	// Damage is the final damage applied to the defender after soak.
	Damage int
}

// PerformAttack resolves an attack with the attacker's main weapon against
// the defender. Validation failures return an error and change no state;
// once validation passes, the weapon's action cost is consumed and the
// resolution pipeline runs: critical check, block, evasion, passive
// defense, damage, armor soak, death-save marking, log entry.
func (e *Engine) PerformAttack(attackerID, defenderID uuid.UUID) (*AttackResult, error) {
	if err := e.requireInProgress(); err != nil {
		return nil, err
	}
	attacker, err := e.find(attackerID)
	if err != nil {
		return nil, err
	}
	defender, err := e.find(defenderID)
	if err != nil {
		return nil, err
	}

	// Validation, in full, before any state change.
	weapon := attacker.MainWeapon
	if weapon == nil {
		return nil, fmt.Errorf("%s has no weapon equipped: %w", attacker.Name, ErrValidation)
	}
	if !attacker.Alive() {
		return nil, fmt.Errorf("%s cannot act: %w", attacker.Name, ErrValidation)
	}
	if !defender.Alive() {
		return nil, fmt.Errorf("%s is already down: %w", defender.Name, ErrValidation)
	}
	if weapon.RequiresLift() && !attacker.Lifted(weapon.Category) {
		return nil, fmt.Errorf("%s must lift the %s before attacking with it: %w",
			attacker.Name, weapon.Name, ErrValidation)
	}
	distance := grid.Distance(attacker.Position, defender.Position)
	if !weapon.InRange(distance) {
		return nil, fmt.Errorf("%s is %d blocks away, outside the %s's %s band: %w",
			defender.Name, distance, weapon.Name, weapon.Range, ErrValidation)
	}
	if attacker.Actions() < weapon.ActionCost {
		return nil, fmt.Errorf("attack with %s needs %d actions, %d remaining: %w",
			weapon.Name, weapon.ActionCost, attacker.Actions(), participant.ErrInsufficientActions)
	}
	if err := attacker.ConsumeActions(weapon.ActionCost); err != nil {
		return nil, err
	}

	ranged := weapon.Range == item.RangeRanged
	atkCtx := attacker.FeatContext()
	atkCtx.RangedAttack = ranged
	defCtx := defender.FeatContext()
	defCtx.RangedAttack = ranged

	modifiers := map[string]int{
		"weapon_accuracy":     weapon.AccuracyBonus,
		"requirement_penalty": attacker.WeaponPenalty(weapon),
		"attacker_feats":      feat.Bonus(attacker.Feats(), feat.TriggerAttackRoll, atkCtx),
		"defender_feats":      e.incomingAttackModifier(defender, defCtx),
	}
	accuracyMod := 0
	for _, m := range modifiers {
		accuracyMod += m
	}

	check := e.roller.Check(accuracyMod)
	result := &AttackResult{AttackRoll: check, AttackTotal: check.Total()}
	entry := Entry{
		Actor:     attacker.Name,
		Action:    ActionAttack,
		Target:    defender.Name,
		Rolls:     []dice.RollResult{check.Result()},
		Modifiers: modifiers,
	}

	baseDamage := weapon.Damage +
		feat.Bonus(attacker.Feats(), feat.TriggerDamage, atkCtx) +
		traitDamageBonus(weapon, defender)
	if baseDamage < 0 {
		baseDamage = 0
	}

	switch {
	case check.CriticalPair():
		// Double 10: automatic hit, bypasses block, evasion, and soak.
		result.Critical = true
		result.Outcome = OutcomeCritical
		e.applyAttackDamage(result, &entry, attacker, defender, baseDamage+CriticalBonus)

	case e.resolveBlock(result, &entry, defender, weapon, ranged, defCtx):
		// Block succeeded; attack fully negated.

	case defender.IsEvading():
		e.resolveEvasion(result, &entry, attacker, defender, weapon, baseDamage, defCtx)

	default:
		if result.AttackTotal >= HitThreshold {
			result.Outcome = OutcomeHit
			damage := e.applySoak(result, &entry, defender, weapon, baseDamage)
			e.applyAttackDamage(result, &entry, attacker, defender, damage)
		} else {
			result.Outcome = OutcomeMiss
		}
	}

	entry.Outcome = result.Outcome
	entry.Damage = result.Damage
	e.appendLog(entry)
	e.checkEnd()
	return result, nil
}

// incomingAttackModifier sums the defender's modifiers to an attack roll
// made against them: passive incoming-attack effects plus limited-action
// reactions such as Parry, which spend the defender's limited action and
// once-per-turn use automatically when available.
func (e *Engine) incomingAttackModifier(defender *participant.Participant, defCtx feat.Context) int {
	total := feat.Bonus(defender.Feats(), feat.TriggerIncomingAttackRoll, defCtx)
	for _, def := range defender.Feats() {
		if def.Kind != feat.KindLimited {
			continue
		}
		amount := feat.Amount(def, feat.TriggerIncomingAttackRoll, defCtx)
		if amount == 0 || defender.LimitedActions() == 0 {
			continue
		}
		if err := defender.UseFeat(def); err != nil {
			continue
		}
		if err := defender.ConsumeAction(participant.ActionLimited); err != nil {
			continue
		}
		total += amount
	}
	return total
}

// resolveBlock attempts a block roll when the defender is blocking with a
// shield. Returns true when the block succeeds and the attack is negated.
// Under APBypassesBlock, a shield without AP immunity cannot attempt a
// block against an armor-piercing attack.
func (e *Engine) resolveBlock(result *AttackResult, entry *Entry, defender *participant.Participant,
	weapon *item.WeaponDef, ranged bool, defCtx feat.Context) bool {
	if !defender.IsBlocking() || defender.Shield == nil {
		return false
	}
	if e.blockPolicy == APBypassesBlock && weapon.IsPiercing() && !defender.Shield.APImmune {
		entry.Detail = "armor-piercing attack bypasses the shield"
		return false
	}
	blockMod := defender.Shield.BlockBonus(ranged) +
		feat.Bonus(defender.Feats(), feat.TriggerBlockRoll, defCtx)
	block := e.roller.Check(blockMod)
	result.BlockRoll = &block
	entry.Rolls = append(entry.Rolls, block.Result())
	if block.Total() >= item.BlockDC {
		result.Outcome = OutcomeBlocked
		return true
	}
	return false
}

// resolveEvasion resolves an attack against an evading defender: full miss
// when the evasion total meets the attack total, graze when it clears 12,
// otherwise the attack proceeds against the passive threshold. Graze damage
// is halved only when the defender can actually partially dodge: grazing
// weapons and medium/heavy armor deal full damage on a graze.
func (e *Engine) resolveEvasion(result *AttackResult, entry *Entry,
	attacker, defender *participant.Participant, weapon *item.WeaponDef,
	baseDamage int, defCtx feat.Context) {
	evasionMod := defender.Modifier("Dexterity", "Acrobatics") +
		feat.Bonus(defender.Feats(), feat.TriggerEvasionRoll, defCtx)
	if defender.Armor != nil {
		evasionMod += defender.Armor.EvasionPenalty
	}
	evasion := e.roller.Check(evasionMod)
	result.EvasionRoll = &evasion
	entry.Rolls = append(entry.Rolls, evasion.Result())

	switch {
	case evasion.Total() >= result.AttackTotal:
		result.Outcome = OutcomeEvaded
	case evasion.Total() >= HitThreshold:
		result.Outcome = OutcomeGraze
		damage := e.applySoak(result, entry, defender, weapon, grazeDamage(weapon, defender, baseDamage))
		e.applyAttackDamage(result, entry, attacker, defender, damage)
	case result.AttackTotal >= HitThreshold:
		result.Outcome = OutcomeHit
		damage := e.applySoak(result, entry, defender, weapon, baseDamage)
		e.applyAttackDamage(result, entry, attacker, defender, damage)
	default:
		// The evasion failed, but so did the attack.
		result.Outcome = OutcomeMiss
	}
}

// traitDamageBonus sums the weapon's armor-conditional damage traits.
func traitDamageBonus(weapon *item.WeaponDef, defender *participant.Participant) int {
	bonus := 0
	if weapon.HasTrait(item.TraitUnarmoredBonus) && defender.Armor == nil {
		bonus++
	}
	if weapon.HasTrait(item.TraitArmoredBonus) && wearsRigidArmor(defender) {
		bonus += 2
	}
	return bonus
}

// grazeDamage halves damage on a partial dodge. Grazing weapons ignore the
// reduction, and medium/heavy armor is too stiff to partially dodge in.
func grazeDamage(weapon *item.WeaponDef, defender *participant.Participant, baseDamage int) int {
	if weapon.HasTrait(item.TraitGrazing) || wearsRigidArmor(defender) {
		return baseDamage
	}
	return baseDamage / 2
}

func wearsRigidArmor(defender *participant.Participant) bool {
	return defender.Armor != nil &&
		(defender.Armor.Tier == item.TierMedium || defender.Armor.Tier == item.TierHeavy)
}

// applySoak rolls the defender's armor soak and returns the reduced damage.
// Soak is skipped for armor-piercing weapons; criticals never reach here.
// A wearer missing the armor's stat requirements soaks 1 less (floor 0).
func (e *Engine) applySoak(result *AttackResult, entry *Entry,
	defender *participant.Participant, weapon *item.WeaponDef, damage int) int {
	if weapon.IsPiercing() || defender.Armor == nil {
		return damage
	}
	expr := defender.Armor.Tier.SoakDice()
	if expr == "" {
		return damage
	}
	roll, err := e.roller.RollExpr(expr)
	if err != nil {
		// Built-in soak expressions always parse; loaded armor is validated.
		return damage
	}
	result.SoakRoll = &roll
	entry.Rolls = append(entry.Rolls, roll)
	soak := roll.Total()
	if !defender.Armor.MeetsRequirements(defender.Modifier) {
		soak--
	}
	if soak < 0 {
		soak = 0
	}
	damage -= soak
	if damage < 0 {
		damage = 0
	}
	return damage
}

// applyAttackDamage applies final damage, records the hit, and finalizes an
// elimination when the defender had no death save left.
func (e *Engine) applyAttackDamage(result *AttackResult, entry *Entry,
	attacker, defender *participant.Participant, damage int) {
	if damage < 0 {
		damage = 0
	}
	result.Damage = defender.ApplyDamage(damage)
	attacker.RecordHit(defender.ID)
	if defender.Eliminated() {
		e.eliminate(defender)
	} else if defender.DeathSavePending() {
		entry.Detail = fmt.Sprintf("%s is down and owes a death save", defender.Name)
	}
}
