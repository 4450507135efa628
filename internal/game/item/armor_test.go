package item

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmorTierSoakDice(t *testing.T) {
	assert.Equal(t, "1d2-1", TierLight.SoakDice())
	assert.Equal(t, "1d3-1", TierMedium.SoakDice())
	assert.Equal(t, "1d3", TierHeavy.SoakDice())
	assert.Equal(t, "", TierNone.SoakDice())
}

func TestArmorDefMovementPenaltyFor(t *testing.T) {
	heavy := &ArmorDef{
		Name:            "Heavy Armor",
		Tier:            TierHeavy,
		MovementPenalty: -1,
		Requirements:    map[string]int{"Strength:Athletics": 3},
	}
	assert.Equal(t, -1, heavy.MovementPenaltyFor(flatModifier(3)))
	// Missing the strength requirement costs 2 further blocks.
	assert.Equal(t, -3, heavy.MovementPenaltyFor(flatModifier(0)))
}

func TestArmorDefValidate(t *testing.T) {
	valid := &ArmorDef{Name: "Light Armor", Tier: TierLight}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		armor *ArmorDef
	}{
		{"empty name", &ArmorDef{Tier: TierLight}},
		{"bad tier", &ArmorDef{Name: "X", Tier: "adamantine"}},
		{"positive evasion penalty", &ArmorDef{Name: "X", Tier: TierLight, EvasionPenalty: 1}},
		{"positive stealth penalty", &ArmorDef{Name: "X", Tier: TierLight, StealthPenalty: 2}},
		{"positive movement penalty", &ArmorDef{Name: "X", Tier: TierLight, MovementPenalty: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.armor.Validate())
		})
	}
}

func TestLoadArmors(t *testing.T) {
	dir := t.TempDir()
	data := `name: Medium Armor
tier: medium
evasion_penalty: -1
requirements:
  "Strength:Athletics": 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medium.yml"), []byte(data), 0o644))

	armors, err := LoadArmors(dir)
	require.NoError(t, err)
	require.Len(t, armors, 1)
	assert.Equal(t, TierMedium, armors[0].Tier)
	assert.Equal(t, -1, armors[0].EvasionPenalty)
	assert.True(t, armors[0].MeetsRequirements(flatModifier(1)))
}
