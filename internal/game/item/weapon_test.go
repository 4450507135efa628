package item

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatModifier(value int) func(stat, skill string) int {
	return func(string, string) int { return value }
}

func TestWeaponDefEffectiveReach(t *testing.T) {
	w := &WeaponDef{Name: "Arming Sword"}
	assert.Equal(t, 1, w.EffectiveReach())

	spear := &WeaponDef{Name: "Spear", Reach: 2}
	assert.Equal(t, 2, spear.EffectiveReach())
}

func TestWeaponDefRequiresLift(t *testing.T) {
	assert.False(t, (&WeaponDef{ActionCost: 1}).RequiresLift())
	assert.True(t, (&WeaponDef{ActionCost: 2}).RequiresLift())
}

func TestWeaponDefIsPiercing(t *testing.T) {
	assert.True(t, (&WeaponDef{ArmorPiercing: true}).IsPiercing())
	assert.True(t, (&WeaponDef{Traits: []string{"piercing"}}).IsPiercing())
	assert.False(t, (&WeaponDef{Traits: []string{"grazing"}}).IsPiercing())
}

func TestWeaponDefInRange(t *testing.T) {
	tests := []struct {
		name     string
		weapon   *WeaponDef
		distance int
		want     bool
	}{
		{"melee adjacent", &WeaponDef{Range: RangeMelee}, 1, true},
		{"melee too far", &WeaponDef{Range: RangeMelee}, 2, false},
		{"reach weapon at 2", &WeaponDef{Range: RangeMelee, Reach: 2}, 2, true},
		{"skirmish too close", &WeaponDef{Range: RangeSkirmishing}, 1, false},
		{"skirmish min", &WeaponDef{Range: RangeSkirmishing}, 2, true},
		{"skirmish max", &WeaponDef{Range: RangeSkirmishing}, 8, true},
		{"skirmish too far", &WeaponDef{Range: RangeSkirmishing}, 9, false},
		{"ranged too close", &WeaponDef{Range: RangeRanged}, 5, false},
		{"ranged min", &WeaponDef{Range: RangeRanged}, 6, true},
		{"ranged max", &WeaponDef{Range: RangeRanged}, 30, true},
		{"ranged too far", &WeaponDef{Range: RangeRanged}, 31, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.weapon.InRange(tc.distance))
		})
	}
}

func TestWeaponDefMeetsRequirements(t *testing.T) {
	w := &WeaponDef{
		Name:         "Greatsword",
		Requirements: map[string]int{"Strength:Athletics": 2},
	}
	assert.True(t, w.MeetsRequirements(flatModifier(2)))
	assert.True(t, w.MeetsRequirements(flatModifier(3)))
	assert.False(t, w.MeetsRequirements(flatModifier(1)))
}

func TestWeaponDefMeetsRequirementsNegativeThreshold(t *testing.T) {
	// A negative threshold is still a floor: Dex -1 qualifies, Dex -2 does not.
	w := &WeaponDef{
		Name:         "Dagger",
		Requirements: map[string]int{"Dexterity:Acrobatics": -1},
	}
	assert.True(t, w.MeetsRequirements(flatModifier(-1)))
	assert.False(t, w.MeetsRequirements(flatModifier(-2)))
}

func TestWeaponDefValidate(t *testing.T) {
	valid := &WeaponDef{Name: "Arming Sword", Damage: 4, ActionCost: 1, Range: RangeMelee}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		weapon *WeaponDef
	}{
		{"empty name", &WeaponDef{Damage: 1, ActionCost: 1, Range: RangeMelee}},
		{"negative damage", &WeaponDef{Name: "X", Damage: -1, ActionCost: 1, Range: RangeMelee}},
		{"zero action cost", &WeaponDef{Name: "X", Damage: 1, Range: RangeMelee}},
		{"bad range", &WeaponDef{Name: "X", Damage: 1, ActionCost: 1, Range: "orbital"}},
		{"lift without category", &WeaponDef{Name: "X", Damage: 1, ActionCost: 2, Range: RangeMelee}},
		{"bad requirement key", &WeaponDef{Name: "X", Damage: 1, ActionCost: 1, Range: RangeMelee,
			Requirements: map[string]int{"Strength": 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.weapon.Validate())
		})
	}
}

func TestLoadWeapons(t *testing.T) {
	dir := t.TempDir()
	data := `name: Arming Sword
damage: 4
accuracy_bonus: 1
action_cost: 1
range: melee
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sword.yaml"), []byte(data), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	weapons, err := LoadWeapons(dir)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	assert.Equal(t, "Arming Sword", weapons[0].Name)
	assert.Equal(t, 4, weapons[0].Damage)
	assert.Equal(t, RangeMelee, weapons[0].Range)
}

func TestLoadWeaponsInvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: \"\"\n"), 0o644))

	_, err := LoadWeapons(dir)
	assert.Error(t, err)
}

func TestLoadWeaponsMissingDirectory(t *testing.T) {
	_, err := LoadWeapons(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
