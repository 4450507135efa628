package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/grid"
	"github.com/avalore-rpg/avasim/internal/game/participant"
)

// Move relocates a participant to dest, spending movement budget equal to
// the block distance. The destination must be in bounds, unoccupied, and
// within the remaining budget.
//
// Postcondition: on any error the grid and the participant are unchanged.
func (e *Engine) Move(id uuid.UUID, dest grid.Position) error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	p, err := e.find(id)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%s cannot act: %w", p.Name, ErrValidation)
	}
	blocks := grid.Distance(p.Position, dest)
	if blocks > p.Movement() {
		return fmt.Errorf("%s needs %d blocks of movement, has %d: %w",
			p.Name, blocks, p.Movement(), ErrValidation)
	}
	if err := e.battle.MoveTo(p.ID.String(), dest); err != nil {
		return err
	}
	p.SpendMovement(blocks)
	from := p.Position
	p.Position = dest
	e.appendLog(Entry{
		Actor:  p.Name,
		Action: ActionMove,
		Detail: fmt.Sprintf("%s to %s, %d blocks", from, dest, blocks),
	})
	return nil
}

// Dash spends one standard action to extend the participant's movement
// budget by 4 blocks.
func (e *Engine) Dash(id uuid.UUID) error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	p, err := e.find(id)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%s cannot act: %w", p.Name, ErrValidation)
	}
	if err := p.ConsumeAction(participant.ActionStandard); err != nil {
		return err
	}
	p.AddMovement(participant.DashBlocks)
	e.appendLog(Entry{
		Actor:  p.Name,
		Action: ActionDash,
		Detail: fmt.Sprintf("+%d blocks movement", participant.DashBlocks),
	})
	return nil
}

// SetStance enters or clears a defensive stance. Entering a stance costs
// one standard action; clearing is free. Switching directly between evading
// and blocking fails with ErrStanceConflict and consumes nothing.
func (e *Engine) SetStance(id uuid.UUID, s participant.Stance) error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	p, err := e.find(id)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%s cannot act: %w", p.Name, ErrValidation)
	}
	if s == p.Stance() {
		return nil
	}
	if s != participant.StanceNone {
		if p.Stance() != participant.StanceNone {
			return fmt.Errorf("already %s: %w", p.Stance(), participant.ErrStanceConflict)
		}
		if p.Actions() < 1 {
			return fmt.Errorf("entering a stance needs 1 action: %w", participant.ErrInsufficientActions)
		}
	}
	if err := p.SetStance(s); err != nil {
		return err
	}
	if s != participant.StanceNone {
		if err := p.ConsumeAction(participant.ActionStandard); err != nil {
			return err
		}
	}
	e.appendLog(Entry{Actor: p.Name, Action: ActionStance, Detail: string(s)})
	return nil
}

// PerformLift readies a heavy weapon category with the once-per-scene Lift
// action, spending the participant's limited action. Re-lifting an already
// readied category is rejected.
func (e *Engine) PerformLift(id uuid.UUID, category string) error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	p, err := e.find(id)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%s cannot act: %w", p.Name, ErrValidation)
	}
	if category == "" {
		return fmt.Errorf("lift needs a weapon category: %w", ErrValidation)
	}
	if p.Lifted(category) {
		return fmt.Errorf("%s already lifted this scene: %w", category, ErrValidation)
	}
	if err := p.ConsumeAction(participant.ActionLimited); err != nil {
		return err
	}
	p.MarkLifted(category)
	e.appendLog(Entry{Actor: p.Name, Action: ActionLift, Detail: category})
	return nil
}

// DeathSaveResult is the structured outcome of a death save.
type DeathSaveResult struct {
	Success bool
	Roll    dice.Check
}

// PerformDeathSave resolves a pending death save: 2d10 + Harmony:Belief vs
// DC 12. Success restores the participant to 1 HP; failure removes them
// from the remainder of the combat. Either way the once-per-scene save is
// spent.
func (e *Engine) PerformDeathSave(id uuid.UUID) (*DeathSaveResult, error) {
	if err := e.requireInProgress(); err != nil {
		return nil, err
	}
	p, err := e.find(id)
	if err != nil {
		return nil, err
	}
	if !p.DeathSavePending() {
		return nil, fmt.Errorf("%s owes no death save: %w", p.Name, ErrValidation)
	}
	check := e.roller.Check(p.Modifier("Harmony", "Belief"))
	success := check.Total() >= DeathSaveDC
	p.ResolveDeathSave(success)

	outcome := OutcomeSaved
	if !success {
		outcome = OutcomeEliminated
		e.eliminate(p)
	}
	e.appendLog(Entry{
		Actor:  p.Name,
		Action: ActionDeathSave,
		Rolls:  []dice.RollResult{check.Result()},
		Modifiers: map[string]int{
			"harmony_belief": p.Modifier("Harmony", "Belief"),
		},
		Outcome: outcome,
	})
	e.checkEnd()
	return &DeathSaveResult{Success: success, Roll: check}, nil
}

// ActivateFeat executes an active feat such as Second Wind, enforcing its
// action cost and usage constraint, and applying its self-targeted effects.
func (e *Engine) ActivateFeat(id uuid.UUID, featID string) error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	p, err := e.find(id)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%s cannot act: %w", p.Name, ErrValidation)
	}
	if !p.HasFeat(featID) {
		return fmt.Errorf("%s does not know feat %q: %w", p.Name, featID, ErrValidation)
	}
	var def *feat.Def
	for _, d := range p.Feats() {
		if d.ID == featID {
			def = d
			break
		}
	}
	if def.Kind != feat.KindActive {
		return fmt.Errorf("%s is not an active feat: %w", def.Name, ErrValidation)
	}
	if p.Actions() < def.ActionCost {
		return fmt.Errorf("%s needs %d actions, %d remaining: %w",
			def.Name, def.ActionCost, p.Actions(), participant.ErrInsufficientActions)
	}
	if err := p.UseFeat(def); err != nil {
		return err
	}
	if err := p.ConsumeActions(def.ActionCost); err != nil {
		return err
	}

	healed := 0
	if amount := feat.Amount(def, feat.TriggerHealSelf, p.FeatContext()); amount > 0 {
		healed = p.Heal(amount)
	}
	e.appendLog(Entry{
		Actor:  p.Name,
		Action: ActionFeat,
		Detail: def.Name,
		Damage: -healed,
	})
	return nil
}
