package participant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/item"
)

func newTestParticipant(t *testing.T) *Participant {
	t.Helper()
	p := New("Aldric", "blue", NewAttributes(), 20, 5)
	p.StartTurn()
	return p
}

func TestNewStartsWithFullPools(t *testing.T) {
	p := New("Aldric", "blue", nil, 20, 5)
	assert.Equal(t, 20, p.HP)
	assert.Equal(t, 5, p.Anima)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.True(t, p.Alive())
}

func TestConsumeActionDecrements(t *testing.T) {
	p := newTestParticipant(t)
	require.Equal(t, 2, p.Actions())
	require.Equal(t, 1, p.LimitedActions())

	require.NoError(t, p.ConsumeAction(ActionStandard))
	require.NoError(t, p.ConsumeAction(ActionStandard))
	assert.Equal(t, 0, p.Actions())

	err := p.ConsumeAction(ActionStandard)
	require.ErrorIs(t, err, ErrInsufficientActions)
	assert.Equal(t, 0, p.Actions(), "failed consume must not change the counter")

	require.NoError(t, p.ConsumeAction(ActionLimited))
	assert.ErrorIs(t, p.ConsumeAction(ActionLimited), ErrInsufficientActions)
}

func TestConsumeActionsAllOrNothing(t *testing.T) {
	p := newTestParticipant(t)
	require.NoError(t, p.ConsumeActions(1))
	err := p.ConsumeActions(2)
	require.ErrorIs(t, err, ErrInsufficientActions)
	assert.Equal(t, 1, p.Actions())
}

func TestSetStanceConflict(t *testing.T) {
	p := newTestParticipant(t)

	require.NoError(t, p.SetStance(StanceEvading))
	err := p.SetStance(StanceBlocking)
	require.ErrorIs(t, err, ErrStanceConflict)
	assert.Equal(t, StanceEvading, p.Stance(), "prior stance must survive the conflict")

	// Clearing first makes the switch legal.
	require.NoError(t, p.SetStance(StanceNone))
	require.NoError(t, p.SetStance(StanceBlocking))
	assert.True(t, p.IsBlocking())

	// Re-asserting the same stance is not a conflict.
	assert.NoError(t, p.SetStance(StanceBlocking))
}

func TestResetTurnIdempotent(t *testing.T) {
	p := newTestParticipant(t)
	require.NoError(t, p.ConsumeAction(ActionStandard))
	require.NoError(t, p.SetStance(StanceEvading))

	p.ResetTurn()
	actions, limited, stance, movement := p.Actions(), p.LimitedActions(), p.Stance(), p.Movement()

	p.ResetTurn()
	assert.Equal(t, actions, p.Actions())
	assert.Equal(t, limited, p.LimitedActions())
	assert.Equal(t, stance, p.Stance())
	assert.Equal(t, movement, p.Movement())
	assert.Equal(t, 2, p.Actions())
	assert.Equal(t, 1, p.LimitedActions())
	assert.Equal(t, StanceNone, p.Stance())
}

func TestFirstStrikeGrantsThirdActionOnFirstTurnOnly(t *testing.T) {
	reg := feat.DefaultRegistry()
	fs, ok := reg.Get(feat.FirstStrike)
	require.True(t, ok)

	p := New("Aldric", "blue", NewAttributes(), 20, 5)
	p.AddFeat(fs)

	p.StartTurn()
	assert.Equal(t, 3, p.Actions())

	p.StartTurn()
	assert.Equal(t, 2, p.Actions())
}

func TestMovementBudgetWithArmorPenalty(t *testing.T) {
	p := New("Aldric", "blue", NewAttributes(), 20, 5)
	p.Armor = &item.ArmorDef{
		Name: "Heavy Armor", Tier: item.TierHeavy, MovementPenalty: -1,
		Requirements: map[string]int{"Strength:Athletics": 3},
	}
	p.StartTurn()
	// Base 5, -1 armor, -2 unmet requirement.
	assert.Equal(t, 2, p.Movement())

	require.NoError(t, p.Attributes.SetStat("Strength", 3))
	p.ResetTurn()
	assert.Equal(t, 4, p.Movement())
}

func TestSpendMovement(t *testing.T) {
	p := newTestParticipant(t)
	require.Equal(t, BaseMovement, p.Movement())

	assert.True(t, p.SpendMovement(3))
	assert.Equal(t, 2, p.Movement())
	assert.False(t, p.SpendMovement(3))
	assert.Equal(t, 2, p.Movement(), "failed spend must not change the budget")

	p.AddMovement(DashBlocks)
	assert.True(t, p.SpendMovement(6))
}

func TestApplyDamageClampsAndMarksDeathSave(t *testing.T) {
	p := newTestParticipant(t)

	assert.Equal(t, 5, p.ApplyDamage(5))
	assert.Equal(t, 15, p.HP)
	assert.False(t, p.DeathSavePending())

	assert.Equal(t, 15, p.ApplyDamage(100), "applied damage clamps at remaining HP")
	assert.Equal(t, 0, p.HP)
	assert.True(t, p.DeathSavePending())
	assert.True(t, p.Alive(), "a pending death save keeps the participant in the fight")
}

func TestSecondDropAfterUsedDeathSaveEliminates(t *testing.T) {
	p := newTestParticipant(t)
	p.ApplyDamage(p.HP)
	p.ResolveDeathSave(true)
	require.Equal(t, 1, p.HP)
	require.True(t, p.DeathSaveUsed())

	p.ApplyDamage(1)
	assert.True(t, p.Eliminated())
	assert.False(t, p.Alive())
}

func TestResolveDeathSaveFailureEliminates(t *testing.T) {
	p := newTestParticipant(t)
	p.ApplyDamage(p.HP)
	require.True(t, p.DeathSavePending())

	p.ResolveDeathSave(false)
	assert.True(t, p.Eliminated())
	assert.False(t, p.DeathSavePending())
	assert.True(t, p.DeathSaveUsed())
}

func TestHealClampsAtMaxAndClearsPendingSave(t *testing.T) {
	p := newTestParticipant(t)
	p.ApplyDamage(p.HP)
	require.True(t, p.DeathSavePending())

	assert.Equal(t, 5, p.Heal(5))
	assert.False(t, p.DeathSavePending())

	assert.Equal(t, 15, p.Heal(100), "healing clamps at MaxHP")
	assert.Equal(t, p.MaxHP, p.HP)
}

func TestSpendAnimaClampsAtZero(t *testing.T) {
	p := newTestParticipant(t)
	assert.Equal(t, 3, p.SpendAnima(3))
	assert.Equal(t, 2, p.Anima)
	assert.Equal(t, 2, p.SpendAnima(5))
	assert.Equal(t, 0, p.Anima)
}

func TestUseFeatConstraints(t *testing.T) {
	reg := feat.DefaultRegistry()
	parry, _ := reg.Get(feat.Parry)
	secondWind, _ := reg.Get(feat.SecondWind)

	p := newTestParticipant(t)
	p.AddFeat(parry)
	p.AddFeat(secondWind)

	require.NoError(t, p.UseFeat(parry))
	assert.ErrorIs(t, p.UseFeat(parry), ErrFeatExhausted)

	// A new turn refreshes once-per-turn feats but not once-per-scene ones.
	require.NoError(t, p.UseFeat(secondWind))
	p.StartTurn()
	assert.NoError(t, p.UseFeat(parry))
	assert.ErrorIs(t, p.UseFeat(secondWind), ErrFeatExhausted)
}

func TestWeaponPenalty(t *testing.T) {
	p := newTestParticipant(t)
	greatsword := &item.WeaponDef{
		Name: "Greatsword", Requirements: map[string]int{"Strength:Athletics": 2},
	}
	assert.Equal(t, item.RequirementPenalty, p.WeaponPenalty(greatsword))

	require.NoError(t, p.Attributes.SetStat("Strength", 2))
	assert.Equal(t, 0, p.WeaponPenalty(greatsword))
}

func TestSingleWielding(t *testing.T) {
	p := newTestParticipant(t)
	assert.False(t, p.SingleWielding(), "no weapon")

	sword := &item.WeaponDef{Name: "Arming Sword"}
	p.MainWeapon = sword
	assert.True(t, p.SingleWielding())

	p.Shield = &item.ShieldDef{Name: "Small Shield", Type: item.ShieldSmall}
	assert.False(t, p.SingleWielding(), "shield breaks single wield")
	p.Shield = nil

	p.OffhandWeapon = &item.WeaponDef{Name: "Dagger"}
	assert.False(t, p.SingleWielding(), "off-hand breaks single wield")
	p.OffhandWeapon = nil

	p.MainWeapon = &item.WeaponDef{Name: "Greatsword", TwoHanded: true}
	assert.False(t, p.SingleWielding(), "two-handed is not single wield")
}

func TestLiftTracking(t *testing.T) {
	p := newTestParticipant(t)
	assert.False(t, p.Lifted("greatblade"))

	p.MarkLifted("greatblade")
	assert.True(t, p.Lifted("greatblade"))
	assert.False(t, p.Lifted("polearm"))

	// Lift persists across turns.
	p.StartTurn()
	assert.True(t, p.Lifted("greatblade"))
}

func TestHitCountersResetPerTurn(t *testing.T) {
	p := newTestParticipant(t)
	target := uuid.New()

	p.RecordHit(target)
	p.RecordHit(target)
	assert.Equal(t, 2, p.HitsOn(target))

	p.StartTurn()
	assert.Equal(t, 0, p.HitsOn(target))
}

func TestPoolsNeverNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New("Aldric", "blue", NewAttributes(), 20, 5)
		p.StartTurn()
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				p.ApplyDamage(rapid.IntRange(0, 30).Draw(t, "dmg"))
			case 1:
				p.Heal(rapid.IntRange(0, 30).Draw(t, "heal"))
			case 2:
				p.SpendAnima(rapid.IntRange(0, 10).Draw(t, "anima"))
			case 3:
				p.StartTurn()
			}
			require.GreaterOrEqual(t, p.HP, 0)
			require.LessOrEqual(t, p.HP, p.MaxHP)
			require.GreaterOrEqual(t, p.Anima, 0)
			require.GreaterOrEqual(t, p.Actions(), 0)
			require.GreaterOrEqual(t, p.LimitedActions(), 0)
		}
	})
}
