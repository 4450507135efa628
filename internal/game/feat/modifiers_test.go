package feat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtin(t *testing.T, id string) *Def {
	t.Helper()
	d, ok := DefaultRegistry().Get(id)
	require.True(t, ok, id)
	return d
}

func TestFirstStrikeInitiativeAndExtraAction(t *testing.T) {
	fs := builtin(t, FirstStrike)

	assert.Equal(t, 5, Amount(fs, TriggerInitiative, Context{}))
	assert.Equal(t, 1, Amount(fs, TriggerTurnStartActions, Context{FirstTurn: true}))
	assert.Equal(t, 0, Amount(fs, TriggerTurnStartActions, Context{FirstTurn: false}))
}

func TestAlwaysReadySupersededByFirstStrike(t *testing.T) {
	ar := builtin(t, AlwaysReady)
	fs := builtin(t, FirstStrike)

	holdsFirstStrike := func(id string) bool { return id == FirstStrike }

	assert.Equal(t, 3, Amount(ar, TriggerInitiative, Context{}))
	assert.Equal(t, 0, Amount(ar, TriggerInitiative, Context{HasFeat: holdsFirstStrike}))

	// Holding both yields +5 total, not +8.
	both := []*Def{ar, fs}
	assert.Equal(t, 5, Bonus(both, TriggerInitiative, Context{HasFeat: holdsFirstStrike}))
}

func TestQuickfootedBlockedByHeavyArmor(t *testing.T) {
	qf := builtin(t, Quickfooted)

	assert.Equal(t, 3, Amount(qf, TriggerEvasionRoll, Context{}))
	assert.Equal(t, 0, Amount(qf, TriggerEvasionRoll, Context{HeavyArmor: true}))
}

func TestDuelingStanceRequiresSingleWield(t *testing.T) {
	ds := builtin(t, DuelingStance)

	ctx := Context{SingleWielding: true}
	assert.Equal(t, 1, Amount(ds, TriggerAttackRoll, ctx))
	assert.Equal(t, 1, Amount(ds, TriggerDamage, ctx))
	assert.Equal(t, 0, Amount(ds, TriggerAttackRoll, Context{}))
}

func TestShieldmasterBlockBonusByRangeClass(t *testing.T) {
	sm := builtin(t, Shieldmaster)

	assert.Equal(t, 3, Amount(sm, TriggerBlockRoll, Context{RangedAttack: false}))
	assert.Equal(t, 1, Amount(sm, TriggerBlockRoll, Context{RangedAttack: true}))
}

func TestParryMagnitude(t *testing.T) {
	p := builtin(t, Parry)

	assert.Equal(t, KindLimited, p.Kind)
	assert.Equal(t, ConstraintOncePerTurn, p.Constraint)
	assert.Equal(t, -2, Amount(p, TriggerIncomingAttackRoll, Context{}))
}

func TestSecondWindHealScalesWithFortitude(t *testing.T) {
	sw := builtin(t, SecondWind)

	ctx := Context{Modifier: func(stat, skill string) int {
		if stat == "Strength" && skill == "Fortitude" {
			return 3
		}
		return 0
	}}
	assert.Equal(t, 5, Amount(sw, TriggerHealSelf, ctx))
	// Without a modifier lookup only the flat amount applies.
	assert.Equal(t, 2, Amount(sw, TriggerHealSelf, Context{}))
}

func TestBonusSkipsActiveAndLimitedFeats(t *testing.T) {
	defs := []*Def{builtin(t, Parry), builtin(t, SecondWind), builtin(t, Quickfooted)}

	assert.Equal(t, 0, Bonus(defs, TriggerIncomingAttackRoll, Context{}))
	assert.Equal(t, 0, Bonus(defs, TriggerHealSelf, Context{}))
	assert.Equal(t, 3, Bonus(defs, TriggerEvasionRoll, Context{}))
}

func TestUnknownRequirementDisablesEffect(t *testing.T) {
	d := &Def{ID: "x", Name: "X", Kind: KindPassive,
		Effects: []Effect{{Trigger: TriggerAttackRoll, Amount: 5, Requires: []string{"full_moon"}}}}

	assert.Equal(t, 0, Amount(d, TriggerAttackRoll, Context{}))
}

func TestEffectsCompose(t *testing.T) {
	// Two feats contributing to the same trigger stack additively.
	a := &Def{ID: "a", Name: "A", Kind: KindPassive,
		Effects: []Effect{{Trigger: TriggerAttackRoll, Amount: 1}}}
	b := &Def{ID: "b", Name: "B", Kind: KindPassive,
		Effects: []Effect{{Trigger: TriggerAttackRoll, Amount: 2}}}

	assert.Equal(t, 3, Bonus([]*Def{a, b}, TriggerAttackRoll, Context{}))
}
