package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	dup := []*WeaponDef{{Name: "Dagger"}, {Name: "Dagger"}}
	_, err := NewCatalog(dup, nil, nil)
	assert.Error(t, err)
}

func TestCatalogLookups(t *testing.T) {
	c, err := NewCatalog(
		[]*WeaponDef{{Name: "Dagger"}},
		[]*ArmorDef{{Name: "Light Armor"}},
		[]*ShieldDef{{Name: "Small Shield"}},
	)
	require.NoError(t, err)

	w, ok := c.Weapon("Dagger")
	require.True(t, ok)
	assert.Equal(t, "Dagger", w.Name)

	_, ok = c.Weapon("Halberd")
	assert.False(t, ok)

	_, ok = c.Armor("Light Armor")
	assert.True(t, ok)
	_, ok = c.Shield("Small Shield")
	assert.True(t, ok)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()

	for _, w := range BuiltinWeapons() {
		assert.NoError(t, w.Validate(), w.Name)
		got, ok := c.Weapon(w.Name)
		require.True(t, ok, w.Name)
		assert.Equal(t, w.Name, got.Name)
	}
	for _, a := range BuiltinArmors() {
		assert.NoError(t, a.Validate(), a.Name)
		_, ok := c.Armor(a.Name)
		assert.True(t, ok, a.Name)
	}
	for _, s := range BuiltinShields() {
		assert.NoError(t, s.Validate(), s.Name)
		_, ok := c.Shield(s.Name)
		assert.True(t, ok, s.Name)
	}
}

func TestBuiltinTwoActionWeaponsHaveCategories(t *testing.T) {
	for _, w := range BuiltinWeapons() {
		if w.RequiresLift() {
			assert.NotEmpty(t, w.Category, w.Name)
		}
	}
}
